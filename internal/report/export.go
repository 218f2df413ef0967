package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

// Export formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatMD   = "md"
)

// Row is the flat export shape of a time entry.
type Row struct {
	ID              string `json:"id" yaml:"id"`
	Date            string `json:"date" yaml:"date"`
	Project         string `json:"project" yaml:"project"`
	Task            string `json:"task" yaml:"task"`
	Description     string `json:"description,omitempty" yaml:"description,omitempty"`
	Start           string `json:"start" yaml:"start"`
	End             string `json:"end" yaml:"end"`
	DurationSeconds int64  `json:"duration_seconds" yaml:"duration_seconds"`
	Billable        bool   `json:"billable" yaml:"billable"`
	Source          string `json:"source" yaml:"source"`
	AttendanceID    string `json:"attendance_id,omitempty" yaml:"attendance_id,omitempty"`
}

func toRow(e model.TimeEntry) Row {
	r := Row{
		ID:              e.ID,
		Date:            timecalc.DateKey(e.StartTime),
		Project:         e.Project,
		Task:            e.Task,
		Start:           e.StartTime.Format(time.RFC3339),
		End:             e.EndTime.Format(time.RFC3339),
		DurationSeconds: e.Duration,
		Billable:        e.Billable,
		Source:          e.Source,
	}
	if e.Description != nil {
		r.Description = *e.Description
	}
	if e.AttendanceID != nil {
		r.AttendanceID = *e.AttendanceID
	}
	return r
}

// WriteEntries renders entries in the given format.
func WriteEntries(w io.Writer, format string, entries []model.TimeEntry) error {
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, toRow(e))
	}
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return fmt.Errorf("error encoding JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return fmt.Errorf("error encoding YAML: %w", err)
		}
		return enc.Close()
	case FormatMD:
		return WriteList(w, entries)
	case FormatCSV, "":
		return writeEntriesCSV(w, rows)
	default:
		return fmt.Errorf("unknown format %q (want csv, json, yaml or md)", format)
	}
}

func writeEntriesCSV(w io.Writer, rows []Row) error {
	ew := &errWriter{w: w}
	ew.printf("date,project,task,description,start,end,duration_minutes,billable\n")
	for _, r := range rows {
		ew.printf("%s,%s,%s,%s,%s,%s,%d,%t\n",
			csvEscape(r.Date),
			csvEscape(r.Project),
			csvEscape(r.Task),
			csvEscape(r.Description),
			csvEscape(r.Start),
			csvEscape(r.End),
			r.DurationSeconds/60,
			r.Billable,
		)
	}
	return ew.err
}

// WriteList groups entries by date and prints one line per entry.
func WriteList(w io.Writer, entries []model.TimeEntry) error {
	ew := &errWriter{w: w}
	if len(entries) == 0 {
		ew.printf("No entries found.\n")
		return ew.err
	}

	var currentDay string
	for _, e := range entries {
		day := timecalc.DateKey(e.StartTime)
		if day != currentDay {
			ew.printf("%s\n", day)
			currentDay = day
		}
		billable := ""
		if !e.Billable {
			billable = " [non-billable]"
		}
		ew.printf("%s–%s  %s  %s (%s)%s\n",
			e.StartTime.Format("15:04"), e.EndTime.Format("15:04"),
			e.Project, e.Task, timecalc.FormatDuration(e.Duration), billable)
	}
	return ew.err
}
