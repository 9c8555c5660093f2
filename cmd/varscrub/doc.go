// Varscrub replaces real infrastructure values in a document with the
// placeholders declared in a Terraform variables file.
//
// Values come from three sources, highest precedence first: a comment legend
// of `# <PLACEHOLDER> = "value"` lines, CIDR blocks and IPv4 addresses found in
// assignments, and every other assigned literal (mapped to its variable name).
//
// Usage:
//
//	varscrub sanitize                         # default paths, see `varscrub config show`
//	varscrub sanitize --vars prod.tfvars --in arch.drawio --out arch_public.drawio
//	varscrub mapping --format yaml            # show what would be replaced
//	varscrub hook install                     # keep the sanitized copy current on commit
package main
