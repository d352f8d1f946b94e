package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/metrics"
	gethprom "github.com/ethereum/go-ethereum/metrics/prometheus"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/walletconnect-core/common"
	"github.com/status-im/walletconnect-core/logutils"
)

// Server runs and controls a HTTP metrics interface.
type Server struct {
	server *http.Server
}

func NewMetricsServer(port int, r metrics.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler())
	mux.Handle("/metrics", Handler())
	mux.Handle("/metrics/geth", GethHandler(r))
	p := Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			ReadHeaderTimeout: 5 * time.Second,
			Handler:           mux,
		},
	}
	return &p
}

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logutils.ZapLogger().Error("health handler error", zap.Error(err))
		}
	})
}

// Handler exposes the session metrics registered with the default prometheus registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(prom.DefaultGatherer, promhttp.HandlerOpts{})
}

// GethHandler exposes a go-ethereum registry. It writes its own exposition, so it
// gets a path of its own.
func GethHandler(reg metrics.Registry) http.Handler {
	return gethprom.Handler(reg)
}

// Listen starts the HTTP server in the background.
func (p *Server) Listen() {
	defer common.LogOnPanic()
	err := p.server.ListenAndServe()
	if err == http.ErrServerClosed {
		err = nil
	}
	logutils.ZapLogger().Info("metrics server stopped", zap.Error(err))
}

// Stop shuts the server down, waiting for in-flight scrapes until ctx expires.
func (p *Server) Stop(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
