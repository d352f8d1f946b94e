package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/metrics"
	prom "github.com/prometheus/client_golang/prometheus"
)

var testCounter = prom.NewCounter(prom.CounterOpts{
	Name: "metrics_server_test_total",
	Help: "Counter registered by the metrics server tests.",
})

func init() {
	prom.MustRegister(testCounter)
}

func TestHealthHandler(t *testing.T) {
	recorder := httptest.NewRecorder()
	healthHandler().ServeHTTP(recorder, httptest.NewRequest("GET", "/health", nil))
	require.Equal(t, 200, recorder.Code)
	require.Equal(t, "OK", recorder.Body.String())
}

func get(t *testing.T, server *httptest.Server, path string) string {
	resp, err := server.Client().Get(server.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetricsServerPaths(t *testing.T) {
	testCounter.Inc()

	reg := metrics.NewRegistry()
	gethCounter := metrics.NewCounterForced()
	gethCounter.Inc(3)
	require.NoError(t, reg.Register("walletconnect/geth_test", gethCounter))

	server := httptest.NewServer(NewMetricsServer(0, reg).server.Handler)
	defer server.Close()

	sessionBody := get(t, server, "/metrics")
	require.Contains(t, sessionBody, "metrics_server_test_total 1")
	require.NotContains(t, sessionBody, "walletconnect_geth_test")

	gethBody := get(t, server, "/metrics/geth")
	require.Contains(t, gethBody, "walletconnect_geth_test")
	require.NotContains(t, gethBody, "metrics_server_test_total")

	require.Equal(t, "OK", get(t, server, "/health"))
}
