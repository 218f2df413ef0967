package tracker_test

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timer"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/tracker"
)

type env struct {
	now   time.Time
	ids   int
	store storage.Store
}

func newEnv(store storage.Store) *env {
	return &env{now: time.Date(2026, 2, 27, 9, 0, 0, 0, time.UTC), store: store}
}

func (e *env) open(t *testing.T) *tracker.Tracker {
	t.Helper()
	tr, err := tracker.Open(e.store, tracker.Options{
		Now: func() time.Time { return e.now },
		NewID: func() string {
			e.ids++
			return fmt.Sprintf("id-%d", e.ids)
		},
	})
	require.NoError(t, err)
	return tr
}

func (e *env) at(h, m int) {
	e.now = time.Date(2026, 2, 27, h, m, 0, 0, time.UTC)
}

func (e *env) ticks(tr *tracker.Tracker, n int) {
	for i := 0; i < n; i++ {
		e.now = e.now.Add(time.Second)
		tr.Tick()
	}
}

func TestWorkdayScenario(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)

	_, err := tr.ClockIn("Office", false, "")
	require.NoError(t, err)

	_, err = tr.StartTimer("Website Redesign", "Development", "")
	require.NoError(t, err)
	e.ticks(tr, 125)
	assert.Equal(t, int64(125), tr.Snapshot().Timer.ElapsedSeconds)

	entry, err := tr.StopTimer()
	require.NoError(t, err)
	assert.Equal(t, int64(125), entry.Duration)

	snap := tr.Snapshot()
	require.Len(t, snap.Entries, 1)
	require.NotNil(t, snap.Entries[0].AttendanceID)
	assert.Equal(t, snap.Today.ID, *snap.Entries[0].AttendanceID)
	assert.Equal(t, []string{entry.ID}, snap.Today.TimeEntries)
	assert.False(t, snap.Timer.Started())

	require.NoError(t, tr.Close())
}

func TestStartBreakPausesRunningTimer(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)
	_, err := tr.ClockIn("Office", false, "")
	require.NoError(t, err)
	_, err = tr.StartTimer("P", "T", "")
	require.NoError(t, err)
	e.ticks(tr, 60)

	_, paused, err := tr.StartBreak("coffee")
	require.NoError(t, err)
	assert.True(t, paused)
	snap := tr.Snapshot()
	assert.Equal(t, attendance.OnBreak, snap.Status)
	assert.False(t, snap.Timer.IsRunning)

	e.ticks(tr, 30)
	assert.Equal(t, int64(60), tr.Snapshot().Timer.ElapsedSeconds)

	_, err = tr.EndBreak()
	require.NoError(t, err)
	require.NoError(t, tr.ResumeTimer())
	e.ticks(tr, 30)
	assert.Equal(t, int64(90), tr.Snapshot().Timer.ElapsedSeconds)
}

func TestStartBreakRejectedDoesNotPause(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)
	_, err := tr.StartTimer("P", "T", "")
	require.NoError(t, err)

	_, paused, err := tr.StartBreak("")
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.False(t, paused)
	assert.True(t, tr.Snapshot().Timer.IsRunning)
}

func TestClockOutStopsTimerFirst(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)
	_, err := tr.ClockIn("Office", false, "")
	require.NoError(t, err)
	_, err = tr.StartTimer("P", "T", "")
	require.NoError(t, err)
	e.ticks(tr, 10)

	e.at(17, 0)
	rec, stopped, err := tr.ClockOut("")
	require.NoError(t, err)
	require.NotNil(t, stopped)
	assert.Equal(t, int64(10), stopped.Duration)
	assert.Contains(t, rec.TimeEntries, stopped.ID)
	require.NotNil(t, rec.TotalWorkingHours)
	assert.InDelta(t, 8.0, *rec.TotalWorkingHours, 1e-9)
	assert.False(t, tr.Snapshot().Timer.Started())
}

func TestClockOutWithoutClockInKeepsTimer(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)
	_, err := tr.StartTimer("P", "T", "")
	require.NoError(t, err)

	_, stopped, err := tr.ClockOut("")
	assert.ErrorIs(t, err, attendance.ErrNotClockedIn)
	assert.Nil(t, stopped)
	assert.True(t, tr.Snapshot().Timer.IsRunning)
}

func TestStartTimerAutoStopsActive(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)
	_, err := tr.StartTimer("P1", "T1", "")
	require.NoError(t, err)
	e.ticks(tr, 5)

	stopped, err := tr.StartTimer("P2", "T2", "")
	require.NoError(t, err)
	require.NotNil(t, stopped)
	assert.Equal(t, "P1", stopped.Project)
	assert.Equal(t, "P2", *tr.Snapshot().Timer.Project)

	_, err = tr.StartTimer("", "T", "")
	assert.ErrorIs(t, err, timer.ErrMissingProject)
	assert.Equal(t, "P2", *tr.Snapshot().Timer.Project)
}

func TestSessionRestoreReconcilesTimer(t *testing.T) {
	store := storage.NewFileStore(t.TempDir())
	e := newEnv(store)
	tr := e.open(t)
	_, err := tr.ClockIn("Office", false, "")
	require.NoError(t, err)
	_, err = tr.StartTimer("P", "T", "")
	require.NoError(t, err)
	e.ticks(tr, 20)
	require.NoError(t, tr.Close())

	// Process restarts 40 seconds later.
	e.now = e.now.Add(40 * time.Second)
	tr2 := e.open(t)
	assert.Equal(t, int64(40), tr2.Reconciled())
	snap := tr2.Snapshot()
	assert.Equal(t, int64(60), snap.Timer.ElapsedSeconds)
	assert.True(t, snap.Timer.IsRunning)
	assert.Equal(t, attendance.ClockedIn, snap.Status)
	require.Len(t, snap.Records, 1)
}

func TestSessionRestoreWithSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tat.db")
	store, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	e := newEnv(store)
	tr := e.open(t)
	_, err = tr.ClockIn("Home", true, "web")
	require.NoError(t, err)
	require.NoError(t, tr.Close())

	e.store, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	tr2 := e.open(t)
	defer tr2.Close()
	snap := tr2.Snapshot()
	assert.Equal(t, attendance.ClockedIn, snap.Status)
	assert.True(t, snap.Today.IsRemote)
	require.NotNil(t, snap.Today.ProjectID)
	assert.Equal(t, "web", *snap.Today.ProjectID)
}

func TestAddEntry(t *testing.T) {
	e := newEnv(storage.NewMemoryStore())
	tr := e.open(t)

	start := time.Date(2026, 2, 27, 13, 0, 0, 0, time.UTC)
	entry, err := tr.AddEntry(tracker.ManualEntry{
		Project: "P", Task: "Review", Start: start, End: start.Add(45 * time.Minute), NonBillable: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2700), entry.Duration)
	assert.False(t, entry.Billable)
	assert.Equal(t, model.SourceManual, entry.Source)
	require.NotNil(t, entry.AttendanceID)
	assert.Contains(t, tr.Snapshot().Today.TimeEntries, entry.ID)

	// An entry on a day without a record stays unlinked.
	old := start.AddDate(0, -1, 0)
	entry, err = tr.AddEntry(tracker.ManualEntry{Project: "P", Task: "T", Start: old, End: old.Add(time.Minute)})
	require.NoError(t, err)
	assert.Nil(t, entry.AttendanceID)

	_, err = tr.AddEntry(tracker.ManualEntry{Project: "P", Task: "T", Start: start, End: start.Add(-time.Minute)})
	assert.ErrorIs(t, err, tracker.ErrInvalidEntry)
	_, err = tr.AddEntry(tracker.ManualEntry{Project: " ", Task: "T", Start: start, End: start})
	assert.ErrorIs(t, err, tracker.ErrInvalidEntry)
	assert.Len(t, tr.Snapshot().Entries, 2)
}
