package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/tracker"
)

var (
	entryProject     string
	entryTask        string
	entryStart       string
	entryEnd         string
	entryDate        string
	entryDescription string
	entryNonBillable bool
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage time entries",
}

var entryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a time entry by hand",
	Args:  cobra.NoArgs,
	RunE:  runEntryAdd,
}

func init() {
	entryAddCmd.Flags().StringVar(&entryProject, "project", "", "Project name")
	entryAddCmd.Flags().StringVar(&entryTask, "task", "", "Task name")
	entryAddCmd.Flags().StringVar(&entryStart, "start", "", "Start time (HH:MM)")
	entryAddCmd.Flags().StringVar(&entryEnd, "end", "", "End time (HH:MM)")
	entryAddCmd.Flags().StringVar(&entryDate, "date", "", "Day of the entry (YYYY-MM-DD); defaults to today")
	entryAddCmd.Flags().StringVar(&entryDescription, "description", "", "Optional description")
	entryAddCmd.Flags().BoolVar(&entryNonBillable, "non-billable", false, "Mark the entry as non-billable")
	for _, f := range []string{"project", "task", "start", "end"} {
		_ = entryAddCmd.MarkFlagRequired(f)
	}
	entryCmd.AddCommand(entryAddCmd)
}

func runEntryAdd(cmd *cobra.Command, args []string) error {
	day := time.Now()
	if entryDate != "" {
		d, err := time.ParseInLocation(timecalc.DateLayout, entryDate, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date value %q: %v\n", entryDate, err)
			os.Exit(1)
		}
		day = d
	}
	start, err := timecalc.ParseClock(day, entryStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --start: %v\n", err)
		os.Exit(1)
	}
	end, err := timecalc.ParseClock(day, entryEnd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --end: %v\n", err)
		os.Exit(1)
	}

	s := openSession()
	e, err := s.tr.AddEntry(tracker.ManualEntry{
		Project:     entryProject,
		Task:        entryTask,
		Description: entryDescription,
		Start:       start,
		End:         end,
		NonBillable: entryNonBillable,
	})
	if err != nil {
		s.reject(err)
	}
	s.close()

	fmt.Fprintf(cmd.OutOrStdout(), "Added %s / %s on %s (%s)\n",
		e.Project, e.Task, timecalc.DateKey(e.StartTime), timecalc.FormatDuration(e.Duration))
	return nil
}
