package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/varscrub/internal/config"
	"github.com/dshills/varscrub/internal/output"
	"github.com/dshills/varscrub/internal/redact"
	"github.com/dshills/varscrub/internal/tfvars"
	"github.com/spf13/cobra"
)

// Shared flags
var (
	flagVars          string
	flagIn            string
	flagOut           string
	flagLegendMarker  string
	flagSkip          string
	flagFormat        string
	flagReport        string
	flagRedactSecrets bool
	flagVerbose       bool
)

func addVarsFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagVars, "vars", "", "Terraform variables file")
	cmd.Flags().StringVar(&flagLegendMarker, "legend-marker", "", "Text that opens the placeholder legend")
	cmd.Flags().StringVar(&flagSkip, "skip", "", "Values never to substitute (comma-separated)")
	cmd.Flags().StringVar(&flagFormat, "format", "", "Report format (text, json, yaml)")
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagVars != "" {
		m["varsFile"] = flagVars
	}
	if flagIn != "" {
		m["inputFile"] = flagIn
	}
	if flagOut != "" {
		m["outputFile"] = flagOut
	}
	if flagLegendMarker != "" {
		m["legendMarker"] = flagLegendMarker
	}
	if flagSkip != "" {
		m["skipValues"] = flagSkip
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagRedactSecrets {
		m["redactSecrets"] = "true"
	}
	return m
}

// missingFiles returns the paths that do not exist.
func missingFiles(paths ...string) ([]string, error) {
	var missing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				missing = append(missing, p)
				continue
			}
			return nil, err
		}
	}
	return missing, nil
}

func reportMissing(w io.Writer, missing []string) {
	fmt.Fprintln(w, "Input files not found.")
	for _, p := range missing {
		fmt.Fprintf(w, "  %s\n", p)
	}
}

func extractOptions(cfg config.Config) tfvars.Options {
	return tfvars.Options{
		LegendMarker: cfg.LegendMarker,
		SkipValues:   cfg.SkipValues,
	}
}

func runSanitize(cfg config.Config, stdout, stderr io.Writer) int {
	outPath := cfg.OutputPath()
	if filepath.Clean(outPath) == filepath.Clean(cfg.InputFile) {
		fmt.Fprintf(stderr, "Error: output path %s would overwrite the input document\n", outPath)
		return ExitUsageError
	}
	if flagReport != "" {
		if _, err := output.GetWriter(cfg.Format); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return ExitUsageError
		}
	}

	missing, err := missingFiles(cfg.VarsFile, cfg.InputFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitRuntimeError
	}
	if len(missing) > 0 {
		reportMissing(stderr, missing)
		return ExitMissingInput
	}

	vars, err := os.ReadFile(cfg.VarsFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading variables file: %v\n", err)
		return ExitRuntimeError
	}
	doc, err := os.ReadFile(cfg.InputFile)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading document: %v\n", err)
		return ExitRuntimeError
	}

	layers := tfvars.Extract(string(vars), extractOptions(cfg))
	sanitized, stats := redact.ApplyCounted(string(doc), layers.Merge())
	if cfg.Privacy.RedactSecrets {
		sanitized = redact.Secrets(sanitized)
	}

	if err := output.WriteFileAtomic(outPath, []byte(sanitized)); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return ExitRuntimeError
	}

	report := output.BuildReport(version, cfg.VarsFile, layers, stats)
	report.InputFile = cfg.InputFile
	report.OutputFile = outPath

	if flagVerbose {
		fmt.Fprintf(stderr, "Mapping: %d values (%d legend, %d network, %d assignment)\n",
			len(report.Entries), report.Counts.Legend, report.Counts.Network, report.Counts.Assignment)
		fmt.Fprintf(stderr, "Replacements: %d\n", report.Counts.Replacements)
		if cfg.Privacy.RedactSecrets {
			fmt.Fprintln(stderr, "Secret heuristics applied")
		}
	}

	if flagReport != "" {
		if err := output.WriteReport(report, cfg.Format, flagReport, stdout); err != nil {
			fmt.Fprintf(stderr, "Error writing report: %v\n", err)
			return ExitRuntimeError
		}
	}

	fmt.Fprintf(stdout, "Sanitized document written to %s\n", outPath)
	return ExitSuccess
}

var sanitizeCmd = &cobra.Command{
	Use:   "sanitize",
	Short: "Write a copy of a document with real values replaced",
	Long: `Build the value-to-placeholder mapping from the variables file and write a
sanitized copy of the input document.

Both input files must exist; otherwise nothing is written and the command
exits with status 1. Without --out the output path is the input path with
"_sanitized" inserted before the extension.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load(buildOverrides())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		exitCode = runSanitize(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

func init() {
	addVarsFlags(sanitizeCmd)
	sanitizeCmd.Flags().StringVar(&flagIn, "in", "", "Document to sanitize")
	sanitizeCmd.Flags().StringVar(&flagOut, "out", "", "Sanitized output path (default: <in>_sanitized.<ext>)")
	sanitizeCmd.Flags().StringVar(&flagReport, "report", "", "Also write a mapping report to this path")
	sanitizeCmd.Flags().BoolVar(&flagRedactSecrets, "redact-secrets", false, "Also scrub common secret shapes (API keys, tokens)")
	sanitizeCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print mapping and replacement counts to stderr")
}
