// Package cli implements the waterpump command line tool.
package cli

import (
	"github.com/spf13/cobra"
)

// New returns the root waterpump command.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "waterpump",
		Short: "Analyse water pump temperature logs",
		Long: `Split pump temperature logs into fixed-size batches, classify each batch
and summarise the run. Runs locally without the gateway and worker services.
`,
		SilenceUsage: true,
	}
	cmd.AddCommand(analyzeCmd())
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(generateCmd())
	return cmd
}
