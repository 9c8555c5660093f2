package tfvars

import "strings"

const legendEnd = "# ==="

// ExtractLegend reads the comment legend that follows the first line
// containing marker. Each legend line looks like
//
//	# <DB_HOST> = "db.internal.example"
//
// and maps the quoted value to the tag. The first tag listed for a value
// wins. Scanning stops at the first line starting with "# ===". A missing
// marker yields an empty mapping.
func ExtractLegend(lines []string, marker string) Mapping {
	m := make(Mapping)
	start := -1
	for i, line := range lines {
		if strings.Contains(line, marker) {
			start = i
			break
		}
	}
	if start < 0 {
		return m
	}

	for _, raw := range lines[start+1:] {
		line := strings.TrimSpace(raw)
		if isLegendLine(line) {
			left, right, _ := strings.Cut(line, "=")
			tag := strings.TrimSpace(strings.TrimPrefix(left, "#"))
			m.setIfAbsent(legendValue(right), tag)
		}
		if strings.HasPrefix(line, legendEnd) {
			break
		}
	}
	return m
}

// legendValue returns the real value on the right of a legend line. A quoted
// value ends at its closing quote; anything after it is a comment.
func legendValue(right string) string {
	right = strings.TrimSpace(right)
	if right != "" && (right[0] == '"' || right[0] == '\'') {
		body := right[1:]
		if end := strings.IndexByte(body, right[0]); end >= 0 {
			return strings.TrimSpace(body[:end])
		}
		return strings.TrimSpace(body)
	}
	return stripComment(right)
}

func isLegendLine(line string) bool {
	if !strings.HasPrefix(line, "#") || !strings.Contains(line, "=") {
		return false
	}
	rest := strings.TrimLeft(line[1:], " \t")
	return strings.HasPrefix(rest, "<")
}
