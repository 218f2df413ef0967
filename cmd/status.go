package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's attendance and the timer",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	s := openSession()
	snap := s.tr.Snapshot()
	s.close()

	out := cmd.OutOrStdout()
	today := snap.Today

	fmt.Fprintf(out, "Today: %s\n", today.Date)
	switch snap.Status {
	case attendance.NotClockedIn:
		fmt.Fprintln(out, "  Not clocked in.")
	case attendance.ClockedIn, attendance.OnBreak:
		state := "Clocked in"
		if snap.Status == attendance.OnBreak {
			state = "On break"
		}
		fmt.Fprintf(out, "  %s since %s at %s\n", state, timecalc.FormatClock(today.ClockInTime), today.Location)
		soFar := attendance.WorkingHours(*today.ClockInTime, time.Now(), today.Breaks)
		fmt.Fprintf(out, "  Worked so far: %s\n", timecalc.FormatHours(soFar))
	case attendance.ClockedOut:
		fmt.Fprintf(out, "  Clocked out: %s – %s\n",
			timecalc.FormatClock(today.ClockInTime), timecalc.FormatClock(today.ClockOutTime))
		if today.TotalWorkingHours != nil {
			fmt.Fprintf(out, "  Worked: %s\n", timecalc.FormatHours(*today.TotalWorkingHours))
		}
	}
	if n := len(today.Breaks); n > 0 {
		fmt.Fprintf(out, "  Breaks: %d\n", n)
	}

	t := snap.Timer
	if !t.Started() {
		var total int64
		for _, e := range snap.Entries {
			if timecalc.DateKey(e.StartTime) == today.Date {
				total += e.Duration
			}
		}
		fmt.Fprintln(out, "No active timer.")
		fmt.Fprintf(out, "Today: %s logged.\n", timecalc.FormatDuration(total))
		return nil
	}

	state := "Paused:"
	if t.IsRunning {
		state = "Running:"
	}
	fmt.Fprintln(out, state)
	fmt.Fprintf(out, "  Project: %s\n", *t.Project)
	fmt.Fprintf(out, "  Task: %s\n", *t.Task)
	if t.Description != nil {
		fmt.Fprintf(out, "  Description: %s\n", *t.Description)
	}
	fmt.Fprintf(out, "  Elapsed: %s\n", timecalc.FormatDurationHHMMSS(t.ElapsedSeconds))
	return nil
}
