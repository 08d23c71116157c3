// Package otel binds credstore counters and latency histograms to
// OpenTelemetry observable instruments.
//
// Each counter becomes an Int64ObservableCounter and each histogram bucket an
// Int64ObservableGauge. One callback reads Store.MetricsSnapshot per
// collection cycle. Callers own the MeterProvider.
package otel
