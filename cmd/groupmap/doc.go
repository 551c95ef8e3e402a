// Command groupmap resolves group names and aliases into verified candidate
// memberships. The run command drives the full pipeline; status and config
// subcommands support inspection and setup.
package main
