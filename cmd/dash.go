package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/dashboard"
)

var (
	dashProject string
	dashTask    string
)

var dashCmd = &cobra.Command{
	Use:   "dash",
	Short: "Open the live dashboard",
	Args:  cobra.NoArgs,
	RunE:  runDash,
}

func init() {
	dashCmd.Flags().StringVar(&dashProject, "project", "", "Project used by the start key")
	dashCmd.Flags().StringVar(&dashTask, "task", "", "Task used by the start key")
}

func runDash(cmd *cobra.Command, args []string) error {
	s := openSession()

	m := dashboard.NewModel(s.tr, dashProject, dashTask,
		s.cfg.Attendance.DefaultLocation, s.cfg.Attendance.Remote)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		s.close()
		os.Exit(1)
	}
	s.close()
	return nil
}
