// Package prometheus renders credstore counters and latency histograms in the
// Prometheus text exposition format.
//
// Mount [Exporter.Handler] on a scrape endpoint. Counter names follow
// credstore_*_total; histograms are credstore_authenticate_latency_seconds
// and credstore_verify_latency_seconds. Nothing is registered globally.
package prometheus
