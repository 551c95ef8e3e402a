// Package search turns normalized alias variations into candidate ID sets by
// querying a sharded full-text search cluster.
//
// The gateway batches variations into OR'd match-any queries, paginates large
// result sets through scroll continuations, retries transient failures with
// exponential backoff against randomly chosen nodes, and caps concurrent
// batch searches process-wide with a counting permit. Failures degrade:
// a batch whose initial query exhausts retries contributes nothing, and a
// pagination that dies mid-scroll keeps the pages already fetched. Neither is
// a pipeline error.
package search
