package sessions

import (
	"context"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/event"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/status-im/walletconnect-core/logutils"
	wc "github.com/status-im/walletconnect-core/services/wallet/walletconnect"
	"github.com/status-im/walletconnect-core/services/wallet/walletevent"
)

const (
	resultSigned = "signed"
	resultFailed = "failed"
)

var (
	sessionEventsCounter = prom.NewCounterVec(prom.CounterOpts{
		Name: "walletconnect_session_events_total",
		Help: "Session lifecycle events split by type.",
	}, []string{"type"})
	requestsCounter = prom.NewCounterVec(prom.CounterOpts{
		Name: "walletconnect_requests_total",
		Help: "Requests handled over sessions split by method and result.",
	}, []string{"method", "result"})
	activeSessionsGauge = prom.NewGauge(prom.GaugeOpts{
		Name: "walletconnect_sessions_active",
		Help: "Number of sessions currently held by the store.",
	})
)

func init() {
	prom.MustRegister(sessionEventsCounter)
	prom.MustRegister(requestsCounter)
	prom.MustRegister(activeSessionsGauge)
}

// SessionCounter returns how many sessions are currently known.
type SessionCounter func() int

func updateMetrics(ev walletevent.Event, count SessionCounter) {
	switch ev.Type {
	case wc.EventSessionConnected, wc.EventSessionDisconnected, wc.EventSessionsCleared:
		sessionEventsCounter.WithLabelValues(string(ev.Type)).Inc()
		if count != nil {
			activeSessionsGauge.Set(float64(count()))
		}
	case wc.EventRequestSigned:
		requestsCounter.WithLabelValues(ev.Method, resultSigned).Inc()
	case wc.EventRequestFailed:
		requestsCounter.WithLabelValues(ev.Method, resultFailed).Inc()
	}
}

// SubscribeWalletEvents updates the session metrics from the events published on feed
// until ctx is done.
func SubscribeWalletEvents(ctx context.Context, feed *event.Feed, count SessionCounter) error {
	ch := make(chan walletevent.Event, 20)
	subscription := feed.Subscribe(ch)
	defer subscription.Unsubscribe()

	logutils.ZapLogger().Debug("subscribed to walletconnect events")
	if count != nil {
		activeSessionsGauge.Set(float64(count()))
	}

	for {
		select {
		case ev := <-ch:
			updateMetrics(ev, count)
		case err := <-subscription.Err():
			if err != nil {
				logutils.ZapLogger().Error("walletconnect events subscription failed", zap.Error(err))
			}
			return err
		case <-ctx.Done():
			return nil
		}
	}
}
