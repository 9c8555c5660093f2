package tfvars

import (
	"regexp"
	"strings"
)

var assignmentLine = regexp.MustCompile(`^\s*(\w+)\s*=\s*(.*?)\s*$`)

// ExtractAssignments maps every literal assigned in a `key = value` or
// `key = [a, b]` line to its key. Array elements are mapped individually.
// The first key seen for a value wins.
func ExtractAssignments(lines []string) Mapping {
	m := make(Mapping)
	for _, line := range lines {
		match := assignmentLine.FindStringSubmatch(line)
		if match == nil {
			continue
		}
		key, raw := match[1], match[2]
		for _, v := range assignmentValues(raw) {
			m.setIfAbsent(v, key)
		}
	}
	return m
}

// assignmentValues returns the literal values in the right-hand side of an
// assignment. An array whose closing bracket is on a later line yields
// nothing.
func assignmentValues(raw string) []string {
	switch {
	case strings.HasPrefix(raw, "["):
		end := strings.LastIndex(raw, "]")
		if end < 0 {
			return nil
		}
		var values []string
		for _, elem := range strings.Split(raw[1:end], ",") {
			if v := unquote(elem); v != "" {
				values = append(values, v)
			}
		}
		return values
	case strings.HasPrefix(raw, `"`):
		body := raw[1:]
		if end := strings.Index(body, `"`); end >= 0 {
			body = body[:end]
		}
		return []string{strings.TrimSpace(body)}
	default:
		return []string{stripComment(raw)}
	}
}

func stripComment(s string) string {
	if i := strings.Index(s, "#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "//"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
