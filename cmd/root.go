package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tat",
	Short: "Trivial Attendance Tracker – clock in, take breaks and time your tasks",
	Long: `tat records daily attendance (clock in, breaks, clock out) and times
project tasks with a pausable stopwatch. All data is stored in ~/.tat/
(or $TAT_HOME) as JSON files or a single SQLite database.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is the normal case.
		_ = godotenv.Load()
		slog.SetDefault(newLogger(os.Getenv("TAT_LOG_LEVEL")))
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(breakCmd)
	rootCmd.AddCommand(timerCmd)
	rootCmd.AddCommand(entryCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(outlookCmd)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
