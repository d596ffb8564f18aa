// Package resilience groups the fault-tolerance helpers used by the remote
// entity service client.
//
//   - circuitbreaker: stops sending requests while the service keeps failing
//   - retry: exponential backoff with jitter for idempotent reads
//
// Mutations are never retried. A failed create, update or delete is reported to
// the caller, who decides whether to issue it again.
//
// Usage:
//
//	cb := circuitbreaker.New(circuitbreaker.RemoteAPIConfig())
//	err := retry.WithBackoff(ctx, retry.ReadConfig(), func() error {
//	    return cb.Do(fetchLists)
//	})
package resilience
