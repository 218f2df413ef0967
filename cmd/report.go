package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/report"
)

var (
	reportWeek   bool
	reportFormat string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show aggregated time and attendance for this week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().BoolVar(&reportWeek, "week", false, "Report for this week (default)")
	reportCmd.Flags().StringVar(&reportFormat, "format", "md", "Output format: md, csv, json")
}

func runReport(cmd *cobra.Command, args []string) error {
	s := openSession()
	snap := s.tr.Snapshot()
	s.close()

	summary := report.Weekly(snap.Entries, snap.Records, time.Now())

	var err error
	out := cmd.OutOrStdout()
	switch reportFormat {
	case "csv":
		err = report.WriteCSV(out, summary)
	case "json":
		err = report.WriteJSON(out, summary)
	case "md":
		err = report.WriteMarkdown(out, summary)
	default:
		fmt.Fprintf(os.Stderr, "unknown report format %q (want md, csv or json)\n", reportFormat)
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return nil
}
