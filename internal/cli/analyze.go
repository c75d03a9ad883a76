package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/piolla/waterpump/internal/analysis"
	"github.com/piolla/waterpump/internal/domain/entity"
	"github.com/piolla/waterpump/internal/ingest"
	"github.com/piolla/waterpump/internal/presentation"
)

func analyzeCmd() *cobra.Command {
	var (
		windowSize  int
		concurrency int
		out         string
		locale      string
	)
	cmd := &cobra.Command{
		Use:     "analyze <file>",
		Short:   "Analyse a CSV or JSON temperature log and write the report as JSON",
		Example: `waterpump analyze pump.csv --window 100 --out report.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := analyzeFile(args[0], windowSize, concurrency)
			if err != nil {
				return err
			}
			logSummary(report, locale)

			return writeOutput(out, cmd.OutOrStdout(), func(w io.Writer) error {
				return writeReport(w, report)
			})
		},
	}

	cmd.Flags().IntVar(&windowSize, "window", analysis.DefaultWindowSize, "samples per batch")
	cmd.Flags().IntVar(&concurrency, "concurrency", 8, "batches analysed in parallel")
	cmd.Flags().StringVar(&out, "out", "", "report path, defaults to stdout")
	cmd.Flags().StringVar(&locale, "locale", "", "display locale for the logged summary (ko for Korean)")

	return cmd
}

func analyzeFile(path string, windowSize, concurrency int) (*entity.Report, error) {
	format, err := ingest.FormatFromName(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	res, err := ingest.Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if res.Dropped > 0 {
		log.WithFields(log.Fields{"total": res.Total, "dropped": res.Dropped}).Warn("dropped invalid rows")
	}

	analyzer := analysis.NewAnalyzer(
		analysis.WithWindowSize(windowSize),
		analysis.WithConcurrencyLimit(concurrency),
	)
	return analyzer.Run(res.Samples, filepath.Base(path))
}

func logSummary(report *entity.Report, locale string) {
	s := report.Summary
	log.WithFields(log.Fields{
		"batches": s.TotalBatches,
		"avg":     fmt.Sprintf("%.2f", s.AvgTemperature),
		"max":     s.MaxTemperature,
		"min":     s.MinTemperature,
	}).Info("analysis complete")

	for _, b := range presentation.NewCriticalBatchViews(presentation.EmergencyBatches(s), locale) {
		log.WithFields(log.Fields{
			"batch_id": b.BatchID,
			"start":    b.StartTimestamp,
			"mean":     b.Mean,
			"max":      b.Max,
			"label":    b.ValueLabel,
			"alert":    b.AlertLevel,
		}).Warn("emergency batch")
	}
}

func writeReport(w io.Writer, report *entity.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// writeOutput hands write the file at path, or fallback when path is empty.
func writeOutput(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := closeAfter(f, write); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// closeAfter runs write and closes wc, reporting the first error of the two.
func closeAfter(wc io.WriteCloser, write func(io.Writer) error) error {
	if err := write(wc); err != nil {
		_ = wc.Close()
		return err
	}
	return wc.Close()
}
