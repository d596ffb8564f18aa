// Package metrics provides Prometheus metrics and recording helpers.
//
// All metrics are registered with the default registry through promauto.
// The client records remote calls, snapshot loads, and mutation outcomes;
// the in-memory entity service records per-route HTTP metrics and exposes
// them on /metrics.
//
// Example usage:
//
//	start := time.Now()
//	resp, err := httpClient.Do(req)
//	metrics.RecordRemoteRequest("listas", http.MethodGet, resp.StatusCode, time.Since(start))
package metrics
