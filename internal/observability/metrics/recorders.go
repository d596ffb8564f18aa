package metrics

import (
	"strconv"
	"time"
)

// RecordRemoteRequest records one logical call to the remote service.
// A status of 0 means the call failed before a response arrived.
func RecordRemoteRequest(resource, method string, status int, duration time.Duration) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	RemoteRequestsTotal.WithLabelValues(resource, method, label).Inc()
	RemoteRequestDuration.WithLabelValues(resource, method).Observe(duration.Seconds())
}

// RecordRemoteRetry records a read attempt beyond the first.
func RecordRemoteRetry(resource string) {
	RemoteRetriesTotal.WithLabelValues(resource).Inc()
}

// RecordBreakerState records the breaker state as reported by gobreaker.State,
// whose numeric values are closed=0, half-open=1, open=2.
func RecordBreakerState(name string, state int) {
	RemoteBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordSnapshotLoad records a snapshot load. Sizes are only updated on success
// because a failed load leaves the previous snapshot in place.
func RecordSnapshotLoad(success bool, duration time.Duration, lists, articles int) {
	SnapshotLoadDuration.Observe(duration.Seconds())
	if !success {
		SnapshotLoadsTotal.WithLabelValues("failure").Inc()
		return
	}
	SnapshotLoadsTotal.WithLabelValues("success").Inc()
	SnapshotLists.Set(float64(lists))
	SnapshotArticles.Set(float64(articles))
}

// ResetSnapshotSize zeroes the size gauges after the cache is cleared.
func ResetSnapshotSize() {
	SnapshotLists.Set(0)
	SnapshotArticles.Set(0)
}

// RecordMutation records the outcome of a coordinator operation.
func RecordMutation(operation, outcome string) {
	MutationOperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordInflightRejection records a mutation refused by the in-flight guard.
func RecordInflightRejection(kind string) {
	MutationInflightRejections.WithLabelValues(kind).Inc()
}
