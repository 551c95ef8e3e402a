// Package store provides access to the authoritative relational store: the
// canonical group table, its aliases, the verified-candidate registry, and
// the membership table the pipeline writes.
//
// Workers operate on sessions pinned to a single connection. Connection and
// statement failures are tagged ErrUnavailable so the pipeline can fail the
// affected group without aborting the run.
package store
