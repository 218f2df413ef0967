package report_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/report"
)

func at(day, h, m int) time.Time {
	return time.Date(2026, 2, day, h, m, 0, 0, time.UTC)
}

func strp(s string) *string { return &s }

func fixtureEntries() []model.TimeEntry {
	return []model.TimeEntry{
		{ID: "e3", Project: "Website Redesign", Task: "Review", Description: strp(`copy, "final"`),
			StartTime: at(27, 14, 0), EndTime: at(27, 14, 45), Duration: 2700, Billable: true, Source: model.SourceManual},
		{ID: "e1", Project: "Website Redesign", Task: "Development", Description: strp("landing page"),
			StartTime: at(23, 9, 0), EndTime: at(23, 11, 5), Duration: 7500, Billable: true, Source: model.SourceTimer},
		{ID: "e2", Project: "Internal", Task: "Meeting",
			StartTime: at(24, 10, 0), EndTime: at(24, 10, 30), Duration: 1800, Billable: false, Source: model.SourceOutlook},
		{ID: "e4", Project: "Internal", Task: "Next week",
			StartTime: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), EndTime: time.Date(2026, 3, 2, 9, 10, 0, 0, time.UTC),
			Duration: 600, Billable: true, Source: model.SourceTimer},
	}
}

func fixtureRecords() []model.AttendanceRecord {
	in1, out1, in2 := at(23, 9, 0), at(23, 17, 0), at(24, 9, 0)
	hours := 7.75
	return []model.AttendanceRecord{
		{ID: "r2", Date: "2026-02-24", ClockInTime: &in2},
		{ID: "r1", Date: "2026-02-23", ClockInTime: &in1, ClockOutTime: &out1, TotalWorkingHours: &hours},
		{ID: "r3", Date: "2026-02-25"},
		{ID: "r4", Date: "2026-03-02", ClockInTime: &in1},
	}
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func weekly() report.Summary {
	return report.Weekly(fixtureEntries(), fixtureRecords(), at(27, 18, 0))
}

func TestWeeklyTotals(t *testing.T) {
	s := weekly()
	assert.Equal(t, "2026-W09", s.Week)
	assert.Equal(t, int64(12000), s.TotalSeconds)
	assert.Equal(t, int64(10200), s.BillableSeconds)
	require.Len(t, s.Projects, 2)
	assert.Equal(t, "Internal", s.Projects[0].Project)
	require.Len(t, s.Days, 2)
	assert.Nil(t, s.Days[1].Hours)
	assert.InDelta(t, 7.75, s.TotalHours, 1e-9)
}

func TestWeeklyMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteMarkdown(&buf, weekly()))
	golden(t).Assert(t, "weekly_md", buf.Bytes())
}

func TestWeeklyCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteCSV(&buf, weekly()))
	golden(t).Assert(t, "weekly_csv", buf.Bytes())
}

func TestWeeklyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteJSON(&buf, weekly()))
	golden(t).Assert(t, "weekly_json", buf.Bytes())
}

func weekEntries() []model.TimeEntry {
	s := weekly()
	return report.InRange(fixtureEntries(), s.From, s.To)
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteEntries(&buf, report.FormatCSV, weekEntries()))
	golden(t).Assert(t, "entries_csv", buf.Bytes())
}

func TestExportMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteEntries(&buf, report.FormatMD, weekEntries()))
	golden(t).Assert(t, "entries_md", buf.Bytes())
}

func TestExportYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteEntries(&buf, report.FormatYAML, weekEntries()))

	var rows []report.Row
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 3)
	assert.Equal(t, "e1", rows[0].ID)
	assert.Equal(t, "2026-02-23T09:00:00Z", rows[0].Start)
	assert.Equal(t, int64(7500), rows[0].DurationSeconds)
	assert.False(t, rows[1].Billable)
	assert.Equal(t, `copy, "final"`, rows[2].Description)
}

func TestExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, report.WriteEntries(&buf, "xml", nil))
}

func TestListEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.WriteList(&buf, nil))
	assert.Equal(t, "No entries found.\n", buf.String())
}
