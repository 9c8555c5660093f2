package tfvars

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultLegendMarker is the text that opens the placeholder legend.
const DefaultLegendMarker = "PLACEHOLDER MAPPING LEGEND"

// MinValueLength is the shortest value eligible for a mapping.
const MinValueLength = 3

// Mapping maps a real value to its placeholder.
type Mapping map[string]string

// Source identifies which extractor produced a mapping entry.
type Source string

const (
	SourceLegend     Source = "legend"
	SourceNetwork    Source = "network"
	SourceAssignment Source = "assignment"
)

// Entry is a single merged mapping row.
type Entry struct {
	Value       string `json:"value" yaml:"value"`
	Placeholder string `json:"placeholder" yaml:"placeholder"`
	Source      Source `json:"source" yaml:"source"`
}

// Options controls extraction.
type Options struct {
	LegendMarker string
	// SkipValues are literals that are never mapped, e.g. "true".
	SkipValues []string
}

// Layers holds the output of each extractor before merging.
type Layers struct {
	Legend      Mapping
	Network     Mapping
	Assignments Mapping
}

var lineSplit = regexp.MustCompile(`\r?\n`)

// SplitLines splits text on LF or CRLF.
func SplitLines(text string) []string {
	return lineSplit.Split(text, -1)
}

// Extract runs all three extractors over text.
func Extract(text string, opts Options) Layers {
	marker := opts.LegendMarker
	if marker == "" {
		marker = DefaultLegendMarker
	}
	lines := SplitLines(text)
	layers := Layers{
		Legend:      ExtractLegend(lines, marker),
		Network:     ExtractNetwork(lines),
		Assignments: ExtractAssignments(lines),
	}
	if len(opts.SkipValues) > 0 {
		for _, m := range []Mapping{layers.Legend, layers.Network, layers.Assignments} {
			for _, v := range opts.SkipValues {
				delete(m, v)
			}
		}
	}
	return layers
}

// Merge combines mappings in order. Entries in later mappings override
// entries in earlier ones.
func Merge(layers ...Mapping) Mapping {
	out := make(Mapping)
	for _, m := range layers {
		for value, placeholder := range m {
			out[value] = placeholder
		}
	}
	return out
}

// Merge returns the combined mapping: legend over network over assignment.
func (l Layers) Merge() Mapping {
	return Merge(l.Assignments, l.Network, l.Legend)
}

// Entries returns the merged mapping annotated with the winning source,
// longest values first.
func (l Layers) Entries() []Entry {
	merged := l.Merge()
	entries := make([]Entry, 0, len(merged))
	for value, placeholder := range merged {
		src := SourceAssignment
		if _, ok := l.Legend[value]; ok {
			src = SourceLegend
		} else if _, ok := l.Network[value]; ok {
			src = SourceNetwork
		}
		entries = append(entries, Entry{Value: value, Placeholder: placeholder, Source: src})
	}
	sort.Slice(entries, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(entries[i].Value), utf8.RuneCountInString(entries[j].Value)
		if li != lj {
			return li > lj
		}
		return entries[i].Value < entries[j].Value
	})
	return entries
}

// IsPlaceholder reports whether v is an unresolved placeholder token,
// either raw (`<NAME>`) or XML-escaped (`&lt;NAME&gt;`).
func IsPlaceholder(v string) bool {
	return strings.HasPrefix(v, "<") || strings.HasPrefix(v, "&lt;")
}

func eligible(v string) bool {
	return utf8.RuneCountInString(v) >= MinValueLength && !IsPlaceholder(v)
}

// setIfAbsent records value→placeholder unless value is ineligible or
// already present.
func (m Mapping) setIfAbsent(value, placeholder string) {
	if !eligible(value) {
		return
	}
	if _, ok := m[value]; ok {
		return
	}
	m[value] = placeholder
}

func unquote(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}
