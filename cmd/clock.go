package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var (
	clockInLocation  string
	clockInRemote    bool
	clockInProject   string
	clockOutLocation string
)

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Clock in and out of the working day",
}

var clockInCmd = &cobra.Command{
	Use:   "in",
	Short: "Start today's working period",
	Args:  cobra.NoArgs,
	RunE:  runClockIn,
}

var clockOutCmd = &cobra.Command{
	Use:   "out",
	Short: "End today's working period",
	Args:  cobra.NoArgs,
	RunE:  runClockOut,
}

func init() {
	clockInCmd.Flags().StringVar(&clockInLocation, "location", "", "Work location (default from config)")
	clockInCmd.Flags().BoolVar(&clockInRemote, "remote", false, "Working remotely (default from config)")
	clockInCmd.Flags().StringVar(&clockInProject, "project", "", "Project id from the config directory")
	clockOutCmd.Flags().StringVar(&clockOutLocation, "location", "", "Override the location recorded at clock-in")
	clockCmd.AddCommand(clockInCmd)
	clockCmd.AddCommand(clockOutCmd)
}

func runClockIn(cmd *cobra.Command, args []string) error {
	s := openSession()

	location := clockInLocation
	if location == "" {
		location = s.cfg.Attendance.DefaultLocation
	}
	remote := s.cfg.Attendance.Remote
	if cmd.Flags().Changed("remote") {
		remote = clockInRemote
	}

	rec, err := s.tr.ClockIn(location, remote, clockInProject)
	if err != nil {
		s.reject(err)
	}
	s.close()

	out := cmd.OutOrStdout()
	where := rec.Location
	if rec.IsRemote {
		where += " (remote)"
	}
	fmt.Fprintf(out, "Clocked in at %s, %s\n", timecalc.FormatClock(rec.ClockInTime), where)
	if rec.ProjectID != nil {
		fmt.Fprintf(out, "Project: %s\n", s.cfg.ProjectName(*rec.ProjectID))
	}
	return nil
}

func runClockOut(cmd *cobra.Command, args []string) error {
	s := openSession()

	rec, stopped, err := s.tr.ClockOut(clockOutLocation)
	if err != nil {
		s.reject(err)
	}
	s.close()

	out := cmd.OutOrStdout()
	if stopped != nil {
		fmt.Fprintf(out, "Stopped timer for %s / %s. Elapsed: %s\n",
			stopped.Project, stopped.Task, formatElapsed(stopped.Duration))
	}
	fmt.Fprintf(out, "Clocked out at %s\n", timecalc.FormatClock(rec.ClockOutTime))
	if rec.TotalWorkingHours != nil {
		fmt.Fprintf(out, "Worked today: %s\n", timecalc.FormatHours(*rec.TotalWorkingHours))
	}
	return nil
}
