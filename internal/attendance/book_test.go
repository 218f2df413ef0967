package attendance_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Set(h, m int)            { c.t = time.Date(2026, 2, 27, h, m, 0, 0, time.UTC) }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func seqIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newBook(t *testing.T) (*attendance.Book, *fakeClock) {
	t.Helper()
	clk := &fakeClock{}
	clk.Set(9, 0)
	b := attendance.NewBook(nil, attendance.WithClock(clk.Now), attendance.WithIDs(seqIDs()))
	b.Ensure()
	return b, clk
}

func TestEnsureCreatesEmptyRecordOnce(t *testing.T) {
	clk := &fakeClock{}
	clk.Set(8, 0)
	b := attendance.NewBook(nil, attendance.WithClock(clk.Now), attendance.WithIDs(seqIDs()))

	rec, created := b.Ensure()
	require.True(t, created)
	assert.Equal(t, "2026-02-27", rec.Date)
	assert.Nil(t, rec.ClockInTime)
	assert.Empty(t, rec.Breaks)
	assert.Empty(t, rec.TimeEntries)

	_, created = b.Ensure()
	assert.False(t, created)
	assert.Len(t, b.Records(), 1)
}

func TestBreakScenario(t *testing.T) {
	b, clk := newBook(t)

	_, err := b.ClockIn("Office", false, nil)
	require.NoError(t, err)

	rec, err := b.StartBreak(nil)
	require.NoError(t, err)
	require.Len(t, rec.Breaks, 1)
	assert.Equal(t, "09:00:00", rec.Breaks[0].StartTime.Format(timecalc.ClockLayout))
	assert.Nil(t, rec.Breaks[0].EndTime)
	assert.Equal(t, attendance.OnBreak, b.Status())

	clk.Set(9, 15)
	rec, err = b.EndBreak()
	require.NoError(t, err)
	require.NotNil(t, rec.Breaks[0].Duration)
	assert.Equal(t, int64(15), *rec.Breaks[0].Duration)
	assert.Equal(t, attendance.ClockedIn, b.Status())

	clk.Set(17, 0)
	rec, err = b.ClockOut("")
	require.NoError(t, err)
	require.NotNil(t, rec.TotalWorkingHours)
	assert.InDelta(t, 7.75, *rec.TotalWorkingHours, 1e-9)
	assert.Equal(t, "Office", rec.Location)
	assert.Equal(t, attendance.ClockedOut, b.Status())
}

func TestClockInRecordsDetails(t *testing.T) {
	b, _ := newBook(t)
	project := "web"
	rec, err := b.ClockIn("Home", true, &project)
	require.NoError(t, err)
	assert.Equal(t, "Home", rec.Location)
	assert.True(t, rec.IsRemote)
	require.NotNil(t, rec.ProjectID)
	assert.Equal(t, "web", *rec.ProjectID)
	// A single record represents today.
	assert.Len(t, b.Records(), 1)
}

func TestRejectedTransitionsLeaveStateUnchanged(t *testing.T) {
	b, clk := newBook(t)

	before := b.Records()
	_, err := b.EndBreak()
	assert.ErrorIs(t, err, attendance.ErrNoOpenBreak)
	_, err = b.StartBreak(nil)
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	_, err = b.ClockOut("")
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.Equal(t, before, b.Records())

	_, err = b.ClockIn("Office", false, nil)
	require.NoError(t, err)
	clk.Advance(time.Minute)
	snapshot := b.Records()
	_, err = b.ClockIn("Elsewhere", true, nil)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedIn)
	assert.Equal(t, snapshot, b.Records())

	_, err = b.StartBreak(nil)
	require.NoError(t, err)
	snapshot = b.Records()
	_, err = b.StartBreak(nil)
	assert.ErrorIs(t, err, attendance.ErrBreakOpen)
	assert.Equal(t, snapshot, b.Records())

	_, err = b.EndBreak()
	require.NoError(t, err)
	_, err = b.ClockOut("")
	require.NoError(t, err)
	snapshot = b.Records()
	_, err = b.StartBreak(nil)
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	_, err = b.ClockOut("")
	assert.ErrorIs(t, err, attendance.ErrAlreadyClockedOut)
	assert.Equal(t, snapshot, b.Records())
}

func TestClockOutClosesOpenBreak(t *testing.T) {
	b, clk := newBook(t)
	_, err := b.ClockIn("Office", false, nil)
	require.NoError(t, err)

	clk.Set(12, 0)
	reason := "lunch"
	_, err = b.StartBreak(&reason)
	require.NoError(t, err)

	clk.Set(12, 30)
	rec, err := b.ClockOut("")
	require.NoError(t, err)
	require.Len(t, rec.Breaks, 1)
	assert.False(t, rec.Breaks[0].Open())
	assert.Equal(t, int64(30), *rec.Breaks[0].Duration)
	assert.InDelta(t, 3.0, *rec.TotalWorkingHours, 1e-9)
}

func TestAtMostOneOpenBreak(t *testing.T) {
	b, clk := newBook(t)
	_, err := b.ClockIn("Office", false, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _ = b.StartBreak(nil)
		_, _ = b.StartBreak(nil)
		clk.Advance(10 * time.Minute)
		if i%2 == 0 {
			_, _ = b.EndBreak()
		}
		_, _ = b.EndBreak()

		open := 0
		for _, br := range b.Today().Breaks {
			if br.Open() {
				open++
			}
			if br.Duration != nil {
				assert.GreaterOrEqual(t, *br.Duration, int64(0))
			}
		}
		assert.LessOrEqual(t, open, 1)
	}
}

func TestWorkingHoursNeverNegative(t *testing.T) {
	in := time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC)
	d := int64(120)
	breaks := []model.Break{{Duration: &d}}
	assert.Equal(t, 0.0, attendance.WorkingHours(in, in.Add(time.Hour), breaks))
	assert.Equal(t, 0.0, attendance.WorkingHours(in, in.Add(-time.Hour), nil))
}

func TestNewBookDeduplicatesDates(t *testing.T) {
	in := time.Date(2026, 2, 26, 9, 0, 0, 0, time.UTC)
	b := attendance.NewBook([]model.AttendanceRecord{
		{ID: "a", Date: "2026-02-26"},
		{ID: "b", Date: "2026-02-26", ClockInTime: &in},
	})
	recs := b.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "b", recs[0].ID)
}

func TestLinkEntry(t *testing.T) {
	b, _ := newBook(t)
	assert.True(t, b.LinkEntry("2026-02-27", "entry-1"))
	assert.False(t, b.LinkEntry("2026-01-01", "entry-2"))
	assert.Equal(t, []string{"entry-1"}, b.Today().TimeEntries)
}
