package metrics

import (
	"context"
	"time"

	"cosmos-mcp/internal/gateway"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope for all gateway metrics.
const meterName = "cosmos-mcp"

// Metrics holds the instruments for tool dispatch, sessions and the
// registry. All fields are safe for concurrent use.
type Metrics struct {
	// ToolCalls counts dispatched calls by tool and status.
	ToolCalls metric.Int64Counter

	// ToolDuration records wall time per call, in seconds.
	ToolDuration metric.Float64Histogram

	// ActiveSessions tracks open MCP sessions.
	ActiveSessions metric.Int64UpDownCounter

	// RegistryTools is the number of tools in the sealed registry.
	RegistryTools metric.Int64Gauge
}

var _ gateway.Observer = (*Metrics)(nil)

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(meterName)
	m := &Metrics{}
	var err error

	m.ToolCalls, err = meter.Int64Counter("cosmos_mcp.tool.calls",
		metric.WithDescription("Tool calls dispatched by the gateway."),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	m.ToolDuration, err = meter.Float64Histogram("cosmos_mcp.tool.duration",
		metric.WithDescription("Tool call latency including the COSMOS round trip."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	m.ActiveSessions, err = meter.Int64UpDownCounter("cosmos_mcp.sessions.active",
		metric.WithDescription("Open MCP sessions."),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}

	m.RegistryTools, err = meter.Int64Gauge("cosmos_mcp.registry.tools",
		metric.WithDescription("Tools exposed by the sealed registry."),
		metric.WithUnit("{tool}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// ObserveCall records one dispatched call.
func (m *Metrics) ObserveCall(ctx context.Context, tool string, status gateway.Status, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("status", string(status)),
	)
	m.ToolCalls.Add(ctx, 1, attrs)
	m.ToolDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// SessionOpened increments the active session gauge.
func (m *Metrics) SessionOpened(ctx context.Context) {
	m.ActiveSessions.Add(ctx, 1)
}

// SessionClosed decrements the active session gauge.
func (m *Metrics) SessionClosed(ctx context.Context) {
	m.ActiveSessions.Add(ctx, -1)
}

// SetRegistryTools records the size of the registry.
func (m *Metrics) SetRegistryTools(ctx context.Context, n int) {
	m.RegistryTools.Record(ctx, int64(n))
}
