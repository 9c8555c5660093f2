// Package tfvars derives a value→placeholder mapping from Terraform-style
// variable files.
//
// Three independent extractors read the same lines:
//   - [ExtractLegend] reads an explicit comment legend of
//     `# <PLACEHOLDER> = "real value"` pairs
//   - [ExtractNetwork] pulls CIDR blocks and bare IPv4 addresses out of
//     assignment lines and maps them to the assignment key
//   - [ExtractAssignments] maps every other literal value to the key it is
//     assigned to
//
// [Layers.Merge] combines them with fixed precedence: legend over network over
// assignment. Values shorter than [MinValueLength] and unresolved placeholders
// such as `<REDACTED>` never enter a mapping.
package tfvars
