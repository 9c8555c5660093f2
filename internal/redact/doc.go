// Package redact rewrites a document so that known real values are replaced
// by their placeholders before the document is shared.
//
// [Apply] walks the mapping longest value first so that a value which is a
// substring of a longer one never corrupts the longer match. Each value gets
// two passes: a boundary-aware replacement that only fires between
// [BoundaryChars], then an unconditional replacement of anything left.
// Values shorter than three characters are skipped.
//
// Boundary detection is approximate. Sanitization is best effort for human
// review, not a guarantee that no real value survives.
//
// [Secrets] is an optional heuristic pass for common secret shapes (API keys,
// JWTs, private keys, provider tokens) that were never listed in the mapping.
package redact
