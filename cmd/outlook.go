package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/msgraph"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncToday   bool
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as time entries",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

// syncRange resolves the --date, --from and --to flags to a day range.
func syncRange(now time.Time) (time.Time, time.Time, error) {
	switch {
	case outlookSyncDate != "":
		d, err := time.ParseInLocation(timecalc.DateLayout, outlookSyncDate, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", outlookSyncDate, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncFrom == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--from is required when --to is specified")
		}
		from, err := time.ParseInLocation(timecalc.DateLayout, outlookSyncFrom, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", outlookSyncFrom, err)
		}
		to := now
		if outlookSyncTo != "" {
			to, err = time.ParseInLocation(timecalc.DateLayout, outlookSyncTo, time.Local)
			if err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", outlookSyncTo, err)
			}
		}
		if to.Before(from) {
			return time.Time{}, time.Time{}, fmt.Errorf("--to %s is before --from %s", outlookSyncTo, outlookSyncFrom)
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil

	default:
		return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
	}
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	from, to, err := syncRange(time.Now())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	s := openSession()
	oc := s.cfg.Outlook

	opts := msgraph.SyncOptions{
		DryRun:   outlookSyncDryRun,
		Project:  oc.DefaultProject,
		Task:     oc.DefaultTask,
		Timezone: oc.Timezone,
	}
	if outlookSyncProject != "" {
		opts.Project = outlookSyncProject
	}
	if outlookSyncTZ != "" {
		opts.Timezone = outlookSyncTZ
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if opts.DryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n",
		timecalc.DateKey(from), timecalc.DateKey(to), dryTag)
	fmt.Fprintln(out)

	ctx := context.Background()

	tok, oauthCfg, err := msgraph.Authenticate(ctx, s.base, oc.TenantID, oc.ClientID, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Authentication failed: %v\n", err)
		s.close()
		os.Exit(1)
	}

	client := msgraph.NewClient(ctx, s.base, tok, oauthCfg)

	events, err := client.GetCalendarView(ctx, from, to, opts.Timezone)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to fetch calendar events: %v\n", err)
		s.close()
		os.Exit(1)
	}

	result := msgraph.SyncEvents(s.tr, events, opts, out)
	s.close()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		os.Exit(2)
	}
	return nil
}
