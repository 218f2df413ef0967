package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

var timerDescription string

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Time a project task",
}

var timerStartCmd = &cobra.Command{
	Use:   "start <project> <task>",
	Short: "Start timing a task (stops an active one first)",
	Args:  cobra.ExactArgs(2),
	RunE:  runTimerStart,
}

var timerPauseCmd = &cobra.Command{
	Use:   "pause",
	Short: "Pause the running timer",
	Args:  cobra.NoArgs,
	RunE:  runTimerPause,
}

var timerResumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the paused timer",
	Args:  cobra.NoArgs,
	RunE:  runTimerResume,
}

var timerStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the timer and record a time entry",
	Args:  cobra.NoArgs,
	RunE:  runTimerStop,
}

func init() {
	timerStartCmd.Flags().StringVar(&timerDescription, "description", "", "Optional description")
	timerCmd.AddCommand(timerStartCmd)
	timerCmd.AddCommand(timerPauseCmd)
	timerCmd.AddCommand(timerResumeCmd)
	timerCmd.AddCommand(timerStopCmd)
}

func runTimerStart(cmd *cobra.Command, args []string) error {
	s := openSession()

	stopped, err := s.tr.StartTimer(args[0], args[1], timerDescription)
	if err != nil {
		s.reject(err)
	}
	s.close()

	out := cmd.OutOrStdout()
	if stopped != nil {
		printStopped(cmd, *stopped)
	}
	fmt.Fprintf(out, "Started timer for %s / %s at %s\n", args[0], args[1], time.Now().Format("15:04:05"))
	return nil
}

func runTimerPause(cmd *cobra.Command, args []string) error {
	s := openSession()
	if err := s.tr.PauseTimer(); err != nil {
		s.reject(err)
	}
	st := s.tr.Snapshot().Timer
	s.close()
	fmt.Fprintf(cmd.OutOrStdout(), "Timer paused. Elapsed: %s\n", formatElapsed(st.ElapsedSeconds))
	return nil
}

func runTimerResume(cmd *cobra.Command, args []string) error {
	s := openSession()
	if err := s.tr.ResumeTimer(); err != nil {
		s.reject(err)
	}
	s.close()
	fmt.Fprintln(cmd.OutOrStdout(), "Timer resumed.")
	return nil
}

func runTimerStop(cmd *cobra.Command, args []string) error {
	s := openSession()
	entry, err := s.tr.StopTimer()
	if err != nil {
		s.reject(err)
	}
	s.close()
	printStopped(cmd, entry)
	return nil
}

func printStopped(cmd *cobra.Command, e model.TimeEntry) {
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped timer for %s / %s. Elapsed: %s\n",
		e.Project, e.Task, formatElapsed(e.Duration))
}

func formatElapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
