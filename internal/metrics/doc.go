// Package metrics records gateway activity through the OpenTelemetry
// metrics API and bridges it to a Prometheus scrape endpoint.
//
// Tests should build a Metrics with NewMetrics and a ManualReader-backed
// provider instead of relying on the global one.
package metrics
