package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/report"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var exportFormat string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export this week's time entries to stdout",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", report.FormatCSV, "Output format: csv, json, yaml, md")
}

func runExport(cmd *cobra.Command, args []string) error {
	switch exportFormat {
	case report.FormatCSV, report.FormatJSON, report.FormatYAML, report.FormatMD:
	default:
		fmt.Fprintf(os.Stderr, "unknown export format %q (want csv, json, yaml or md)\n", exportFormat)
		os.Exit(1)
	}

	from, to := timecalc.WeekRange(time.Now())

	s := openSession()
	entries := report.InRange(s.tr.Snapshot().Entries, from, to)
	s.close()

	if err := report.WriteEntries(cmd.OutOrStdout(), exportFormat, entries); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
