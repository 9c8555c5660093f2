// Package output formats mapping reports and writes sanitized documents.
//
// Three report formats are supported:
//   - text — human-readable terminal output (default)
//   - json — full structured JSON report
//   - yaml — the same structure as YAML
//
// Use [GetWriter] to obtain a [Writer] for a format string, or [WriteReport]
// to pick the destination as well. [WriteFileAtomic] replaces a file as a
// whole so a failed run never leaves a partial document behind.
package output
