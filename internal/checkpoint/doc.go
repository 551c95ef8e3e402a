// Package checkpoint persists the set of fully processed groups so restarts
// never repeat completed work. The log is append-only; compaction is
// unnecessary because duplicate marks are idempotent and the file only ever
// grows by one short line per group.
package checkpoint
