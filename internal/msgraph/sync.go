package msgraph

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/tracker"
)

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	DryRun   bool
	Project  string
	Task     string // used when an event has no subject
	Timezone string
}

// Sink receives imported entries. *tracker.Tracker implements it.
type Sink interface {
	AddEntry(m tracker.ManualEntry) (model.TimeEntry, error)
	HasExternal(externalID string) bool
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, dt); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	// Graph returns fractional seconds: "2026-02-27T09:00:00.0000000"
	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildComment combines bodyPreview and location into a description.
func buildComment(event CalendarEvent) string {
	parts := []string{}
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	return strings.Join(parts, "\n")
}

// shouldSkip returns true if the event should not be imported.
func shouldSkip(event CalendarEvent) bool {
	if event.IsCancelled {
		return true
	}
	if event.IsAllDay {
		return true
	}
	if event.Sensitivity == "private" {
		return true
	}
	if event.ShowAs == "free" {
		return true
	}
	if event.Start.DateTime == "" || event.End.DateTime == "" {
		return true
	}
	return false
}

// MapEventToEntry converts a Graph CalendarEvent into a billable manual entry.
func MapEventToEntry(event CalendarEvent, opts SyncOptions) (tracker.ManualEntry, error) {
	startTime, err := parseGraphTime(event.Start.DateTime, opts.Timezone)
	if err != nil {
		return tracker.ManualEntry{}, fmt.Errorf("parsing start time: %w", err)
	}
	endTime, err := parseGraphTime(event.End.DateTime, opts.Timezone)
	if err != nil {
		return tracker.ManualEntry{}, fmt.Errorf("parsing end time: %w", err)
	}

	task := strings.TrimSpace(event.Subject)
	if task == "" {
		task = opts.Task
	}

	return tracker.ManualEntry{
		Project:     opts.Project,
		Task:        task,
		Description: buildComment(event),
		Start:       startTime,
		End:         endTime,
		Source:      model.SourceOutlook,
		ExternalID:  event.ID,
	}, nil
}

// SyncEvents imports events into sink. Events already imported (matched by
// external id) are skipped. Progress is written to out.
func SyncEvents(sink Sink, events []CalendarEvent, opts SyncOptions, out io.Writer) SyncResult {
	var result SyncResult
	seen := map[string]bool{}

	for _, event := range events {
		if shouldSkip(event) {
			continue
		}

		if sink.HasExternal(event.ID) || seen[event.ID] {
			fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
			result.Skipped++
			continue
		}

		entry, err := MapEventToEntry(event, opts)
		if err != nil {
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		if !opts.DryRun {
			if _, err := sink.AddEntry(entry); err != nil {
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}
		seen[event.ID] = true
		dur := timecalc.FormatDuration(timecalc.WholeSeconds(entry.Start, entry.End))
		fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, dur)
		result.Imported++
	}

	return result
}
