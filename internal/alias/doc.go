// Package alias turns the raw aliases and canonical name of a group into the
// normalized variation set used as full-text search terms. Expansion is a pure
// function: no I/O, deterministic output for identical input.
package alias
