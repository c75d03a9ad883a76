package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/presentation"
)

func reportCmd() *cobra.Command {
	var (
		windowSize  int
		concurrency int
		out         string
		locale      string
	)
	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Analyse a temperature log and print a plain-text report with maintenance advice",
		Long: `Analyse a temperature log and print a plain-text report: temperature and
alert distributions, trend observations, flagged batches and maintenance priorities.
`,
		Example: `waterpump report pump.csv --locale ko`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analyzeFile(args[0], windowSize, concurrency)
			if err != nil {
				return err
			}
			return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return presentation.WriteReport(w, report, locale)
			})
		},
	}

	cmd.Flags().IntVar(&windowSize, "window", analysis.DefaultWindowSize, "samples per batch")
	cmd.Flags().IntVar(&concurrency, "concurrency", 8, "batches analysed in parallel")
	cmd.Flags().StringVar(&out, "out", "", "report path, defaults to stdout")
	cmd.Flags().StringVar(&locale, "locale", "", "report language (ko for Korean)")

	return cmd
}
