// Package cli wires together the Cobra command tree for the varscrub binary.
//
// It defines the root command and all subcommands (sanitize, mapping, config,
// hook, version), binds flags, reads configuration, runs the extraction and
// substitution pipeline, and returns deterministic exit codes.
package cli
