// Package retry provides bounded retry of transient connection failures.
//
// Adapters use it only around connection establishment: query execution is
// never retried, because the caller's statement may not be idempotent.
package retry
