// Package metrics registers the Prometheus instruments the pipeline and
// search gateway report into. All recording methods tolerate a nil receiver
// so metrics stay optional in tests and wiring code.
package metrics
