package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var breakReason string

var breakCmd = &cobra.Command{
	Use:   "break",
	Short: "Start and end breaks",
}

var breakStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a break (pauses a running timer)",
	Args:  cobra.NoArgs,
	RunE:  runBreakStart,
}

var breakEndCmd = &cobra.Command{
	Use:   "end",
	Short: "End the current break",
	Args:  cobra.NoArgs,
	RunE:  runBreakEnd,
}

func init() {
	breakStartCmd.Flags().StringVar(&breakReason, "reason", "", "Why you are taking a break")
	breakCmd.AddCommand(breakStartCmd)
	breakCmd.AddCommand(breakEndCmd)
}

func runBreakStart(cmd *cobra.Command, args []string) error {
	s := openSession()

	rec, paused, err := s.tr.StartBreak(breakReason)
	if err != nil {
		s.reject(err)
	}
	s.close()

	out := cmd.OutOrStdout()
	br := rec.Breaks[len(rec.Breaks)-1]
	fmt.Fprintf(out, "Break started at %s\n", br.StartTime.Format(timecalc.ClockLayout))
	if paused {
		fmt.Fprintln(out, "Timer paused.")
	}
	return nil
}

func runBreakEnd(cmd *cobra.Command, args []string) error {
	s := openSession()

	rec, err := s.tr.EndBreak()
	if err != nil {
		s.reject(err)
	}
	s.close()

	br := rec.Breaks[len(rec.Breaks)-1]
	mins := int64(0)
	if br.Duration != nil {
		mins = *br.Duration
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Break ended after %s\n", timecalc.FormatDuration(mins*60))
	return nil
}
