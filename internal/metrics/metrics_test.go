package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"cosmos-mcp/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestMetrics(t *testing.T) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewMetrics(mp)
	require.NoError(t, err)
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestObserveCall(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.ObserveCall(ctx, "ping", gateway.StatusSuccess, 10*time.Millisecond)
	m.ObserveCall(ctx, "ping", gateway.StatusSuccess, 20*time.Millisecond)
	m.ObserveCall(ctx, "openc3_cmd", gateway.StatusError, time.Second)

	rm := collect(t, reader)

	calls := findMetric(rm, "cosmos_mcp.tool.calls")
	require.NotNil(t, calls)
	sum, ok := calls.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	counts := map[string]int64{}
	for _, dp := range sum.DataPoints {
		tool, _ := dp.Attributes.Value(attribute.Key("tool"))
		status, _ := dp.Attributes.Value(attribute.Key("status"))
		counts[tool.AsString()+"/"+status.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"ping/success": 2, "openc3_cmd/error": 1}, counts)

	dur := findMetric(rm, "cosmos_mcp.tool.duration")
	require.NotNil(t, dur)
	hist, ok := dur.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	var total uint64
	for _, dp := range hist.DataPoints {
		total += dp.Count
	}
	assert.Equal(t, uint64(3), total)
}

func TestSessionsAndRegistry(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.SessionOpened(ctx)
	m.SessionOpened(ctx)
	m.SessionClosed(ctx)
	m.SetRegistryTools(ctx, 42)

	rm := collect(t, reader)

	active := findMetric(rm, "cosmos_mcp.sessions.active")
	require.NotNil(t, active)
	sum := active.Data.(metricdata.Sum[int64])
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(1), sum.DataPoints[0].Value)

	tools := findMetric(rm, "cosmos_mcp.registry.tools")
	require.NotNil(t, tools)
	gauge := tools.Data.(metricdata.Gauge[int64])
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, int64(42), gauge.DataPoints[0].Value)
}

func TestInitProvider_ServesScrape(t *testing.T) {
	p, err := InitProvider(ProviderConfig{ServiceVersion: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	p.Metrics.ObserveCall(context.Background(), "ping", gateway.StatusSuccess, time.Millisecond)

	rec := httptest.NewRecorder()
	p.Handler.ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "cosmos_mcp_tool_calls")
	assert.Contains(t, string(body), `tool="ping"`)
}
