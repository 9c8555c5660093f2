package output

import (
	"fmt"
	"io"
	"strings"
)

// TextWriter outputs a human-readable mapping table.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.printf("varscrub mapping — %s\n", report.VarsFile)
	if report.InputFile != "" {
		ew.printf("Document: %s\n", report.InputFile)
	}
	if report.OutputFile != "" {
		ew.printf("Output: %s\n", report.OutputFile)
	}
	ew.println(strings.Repeat("─", 60))
	ew.printf("Values: %d total (%d legend, %d network, %d assignment)\n",
		len(report.Entries), report.Counts.Legend, report.Counts.Network, report.Counts.Assignment)
	if report.InputFile != "" {
		ew.printf("Replacements: %d\n", report.Counts.Replacements)
	}
	ew.println(strings.Repeat("─", 60))

	if len(report.Entries) == 0 {
		ew.println("\nNo values to substitute.")
		return ew.err
	}

	width := 0
	for _, e := range report.Entries {
		if n := len(e.Value); n > width {
			width = n
		}
	}
	if width > 48 {
		width = 48
	}

	ew.println("")
	for _, e := range report.Entries {
		ew.printf("  %-*s  ->  %s  [%s]", width, e.Value, e.Placeholder, e.Source)
		if report.InputFile != "" {
			ew.printf(" x%d", e.Replacements)
		}
		ew.println("")
	}

	return ew.err
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
