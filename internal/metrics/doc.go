// Package metrics records build observability data.
//
// Components receive a Recorder and default to NoopRecorder, so metrics never
// need nil checks at call sites. The preview server swaps in a
// PrometheusRecorder and exposes it through HTTPHandler.
package metrics
