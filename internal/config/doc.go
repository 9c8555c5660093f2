// Package config loads and merges varscrub configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (VARSCRUB_VARS, VARSCRUB_INPUT, VARSCRUB_OUTPUT, etc.)
//  3. Config file ($XDG_CONFIG_HOME/varscrub/config.json)
//  4. Built-in defaults
//
// Relative paths are resolved against the invoking directory. Use [Load] to
// obtain a merged [Config], [Save] to write one, and [SetField] to update a
// single key.
package config
