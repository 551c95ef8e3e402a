// Package pipeline coordinates the group-resolution run: expanding each
// group's names into search variations, searching for matching candidates,
// verifying them against the authoritative store, writing memberships, and
// checkpointing completion.
//
// Groups move through a fixed stage order and always reach a terminal status.
// A failing group is logged and counted; it never stops the run, and because
// it is not checkpointed it is retried on the next run.
package pipeline
