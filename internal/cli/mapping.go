package cli

import (
	"fmt"
	"os"

	"github.com/dshills/varscrub/internal/config"
	"github.com/dshills/varscrub/internal/output"
	"github.com/dshills/varscrub/internal/tfvars"
	"github.com/spf13/cobra"
)

var flagMappingOut string

var mappingCmd = &cobra.Command{
	Use:   "mapping",
	Short: "Show the value-to-placeholder mapping built from the variables file",
	Long: `Print every value that sanitize would replace, its placeholder, and which
rule produced it (legend, network, or assignment). Legend entries win over
network addresses, which win over plain assignments.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

		cfg, err := config.Load(buildOverrides())
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}

		missing, err := missingFiles(cfg.VarsFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}
		if len(missing) > 0 {
			reportMissing(stderr, missing)
			exitCode = ExitMissingInput
			return
		}

		vars, err := os.ReadFile(cfg.VarsFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading variables file: %v\n", err)
			exitCode = ExitRuntimeError
			return
		}

		layers := tfvars.Extract(string(vars), extractOptions(cfg))
		report := output.BuildReport(version, cfg.VarsFile, layers, nil)
		if err := output.WriteReport(report, cfg.Format, flagMappingOut, stdout); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
		}
	},
}

func init() {
	addVarsFlags(mappingCmd)
	mappingCmd.Flags().StringVar(&flagMappingOut, "out", "", "Output file path (default: stdout)")
}
