// Package report aggregates time entries and attendance records by week and
// renders them for the report and export commands.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

// ProjectTotal is the tracked time of one project.
type ProjectTotal struct {
	Project         string
	Seconds         int64
	BillableSeconds int64
}

// DayTotal is one attendance day. Hours is nil while the day is still open.
type DayTotal struct {
	Date  string
	Hours *float64
}

// Summary is the aggregated view of one week.
type Summary struct {
	Week            string
	From, To        time.Time
	Projects        []ProjectTotal
	Days            []DayTotal
	TotalSeconds    int64
	BillableSeconds int64
	TotalHours      float64
}

// Weekly aggregates the ISO week containing now.
func Weekly(entries []model.TimeEntry, records []model.AttendanceRecord, now time.Time) Summary {
	from, to := timecalc.WeekRange(now)
	s := Summary{Week: timecalc.ISOWeekLabel(now), From: from, To: to}

	totals := map[string]*ProjectTotal{}
	for _, e := range InRange(entries, from, to) {
		pt, ok := totals[e.Project]
		if !ok {
			pt = &ProjectTotal{Project: e.Project}
			totals[e.Project] = pt
		}
		pt.Seconds += e.Duration
		s.TotalSeconds += e.Duration
		if e.Billable {
			pt.BillableSeconds += e.Duration
			s.BillableSeconds += e.Duration
		}
	}
	for _, pt := range totals {
		s.Projects = append(s.Projects, *pt)
	}
	sort.Slice(s.Projects, func(i, j int) bool { return s.Projects[i].Project < s.Projects[j].Project })

	fromKey, toKey := timecalc.DateKey(from), timecalc.DateKey(to)
	for _, r := range records {
		if r.ClockInTime == nil || r.Date < fromKey || r.Date > toKey {
			continue
		}
		d := DayTotal{Date: r.Date}
		if r.TotalWorkingHours != nil {
			h := *r.TotalWorkingHours
			d.Hours = &h
			s.TotalHours += h
		}
		s.Days = append(s.Days, d)
	}
	sort.Slice(s.Days, func(i, j int) bool { return s.Days[i].Date < s.Days[j].Date })
	return s
}

// InRange returns the entries starting in [from, to], ordered by start time.
func InRange(entries []model.TimeEntry, from, to time.Time) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range entries {
		if !e.StartTime.Before(from) && !e.StartTime.After(to) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

const rule = "--------------------------------"

// WriteMarkdown renders s as the plain-text weekly report.
func WriteMarkdown(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("Week %s\n", s.Week)
	ew.printf("%s\n", rule)
	for _, p := range s.Projects {
		ew.printf("%-20s%s\n", p.Project, timecalc.FormatDuration(p.Seconds))
	}
	ew.printf("%s\n", rule)
	ew.printf("%-20s%s\n", "Total", timecalc.FormatDuration(s.TotalSeconds))
	ew.printf("%-20s%s\n", "Billable", timecalc.FormatDuration(s.BillableSeconds))
	ew.printf("\nAttendance\n%s\n", rule)
	for _, d := range s.Days {
		hours := "open"
		if d.Hours != nil {
			hours = timecalc.FormatHours(*d.Hours)
		}
		ew.printf("%-20s%s\n", d.Date, hours)
	}
	ew.printf("%s\n", rule)
	ew.printf("%-20s%s\n", "Total", timecalc.FormatHours(s.TotalHours))
	return ew.err
}

// WriteCSV renders the per-project totals in minutes.
func WriteCSV(w io.Writer, s Summary) error {
	ew := &errWriter{w: w}
	ew.printf("project,duration_minutes,billable_minutes\n")
	for _, p := range s.Projects {
		ew.printf("%s,%d,%d\n", csvEscape(p.Project), p.Seconds/60, p.BillableSeconds/60)
	}
	return ew.err
}

type jsonProject struct {
	Project         string `json:"project"`
	DurationMinutes int64  `json:"duration_minutes"`
	BillableMinutes int64  `json:"billable_minutes"`
}

type jsonDay struct {
	Date  string   `json:"date"`
	Hours *float64 `json:"hours"`
}

type jsonSummary struct {
	Week            string        `json:"week"`
	Projects        []jsonProject `json:"projects"`
	TotalMinutes    int64         `json:"total_minutes"`
	BillableMinutes int64         `json:"billable_minutes"`
	Attendance      []jsonDay     `json:"attendance"`
	TotalHours      float64       `json:"total_hours"`
}

// WriteJSON renders s as indented JSON.
func WriteJSON(w io.Writer, s Summary) error {
	out := jsonSummary{
		Week:            s.Week,
		Projects:        []jsonProject{},
		TotalMinutes:    s.TotalSeconds / 60,
		BillableMinutes: s.BillableSeconds / 60,
		Attendance:      []jsonDay{},
		TotalHours:      timecalc.RoundHours(s.TotalHours),
	}
	for _, p := range s.Projects {
		out.Projects = append(out.Projects, jsonProject{p.Project, p.Seconds / 60, p.BillableSeconds / 60})
	}
	for _, d := range s.Days {
		out.Attendance = append(out.Attendance, jsonDay{d.Date, d.Hours})
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, a ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, a...)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	needsQuote := false
	for _, c := range s {
		if c == ',' || c == '"' || c == '\n' || c == '\r' {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return s
	}
	// Escape internal double quotes by doubling them.
	escaped := ""
	for _, c := range s {
		if c == '"' {
			escaped += "\""
		}
		escaped += string(c)
	}
	return `"` + escaped + `"`
}
