// Package retrypolicy wraps a single fallible operation in a bounded retry
// loop with exponential backoff, reporting whether the operation succeeded,
// exhausted its attempts, or failed permanently. Callers mark non-retryable
// failures with Permanent.
package retrypolicy
