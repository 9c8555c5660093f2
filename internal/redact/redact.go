package redact

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// BoundaryChars delimit a value for the boundary-aware pass.
const BoundaryChars = "()[]{} \t\r\n\f\v'\"=,:;<>"

// minLength is the shortest value that is ever substituted.
const minLength = 3

// Stats counts replacements per real value.
type Stats map[string]int

// Total returns the number of replacements across all values.
func (s Stats) Total() int {
	n := 0
	for _, c := range s {
		n += c
	}
	return n
}

// Apply replaces every occurrence of each mapping key in text with its
// placeholder.
func Apply(text string, mapping map[string]string) string {
	out, _ := ApplyCounted(text, mapping)
	return out
}

// ApplyCounted is Apply, also returning how many replacements each value
// received.
func ApplyCounted(text string, mapping map[string]string) (string, Stats) {
	stats := make(Stats)
	for _, value := range SortedKeys(mapping) {
		if utf8.RuneCountInString(value) < minLength {
			continue
		}
		placeholder := mapping[value]

		var n int
		text, n = replaceBounded(text, value, placeholder)
		stats[value] += n

		n = strings.Count(text, value)
		if n > 0 {
			text = strings.ReplaceAll(text, value, placeholder)
			stats[value] += n
		}
	}
	return text, stats
}

// replaceBounded replaces value where it is flanked on both sides by a
// boundary character, keeping the boundary characters. Matches do not
// overlap: the trailing boundary of one match cannot lead the next.
// Values are compared as raw bytes, so invalid UTF-8 is matched literally.
func replaceBounded(text, value, placeholder string) (string, int) {
	if value == "" {
		return text, 0
	}
	var b strings.Builder
	n, last, from := 0, 0, 1
	for from < len(text) {
		i := strings.Index(text[from:], value)
		if i < 0 {
			break
		}
		i += from
		end := i + len(value)
		if end < len(text) && isBoundary(text[i-1]) && isBoundary(text[end]) {
			b.WriteString(text[last:i])
			b.WriteString(placeholder)
			last = end
			from = end + 2
			n++
			continue
		}
		from = i + 1
	}
	if n == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), n
}

func isBoundary(c byte) bool {
	return strings.IndexByte(BoundaryChars, c) >= 0
}

// SortedKeys returns the mapping keys ordered by descending character
// length. Equal lengths are ordered lexically.
func SortedKeys(mapping map[string]string) []string {
	keys := make([]string, 0, len(mapping))
	for k := range mapping {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(keys[i]), utf8.RuneCountInString(keys[j])
		if li != lj {
			return li > lj
		}
		return keys[i] < keys[j]
	})
	return keys
}
