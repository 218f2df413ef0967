package timer

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

var (
	ErrMissingProject = errors.New("project and task are required")
	ErrActive         = errors.New("a timer is already active")
	ErrNotStarted     = errors.New("no timer has been started")
	ErrNotRunning     = errors.New("timer is not running")
	ErrRunning        = errors.New("timer is already running")
)

// Timer is a stopwatch for a single task. It is driven by explicit Tick calls
// and is not safe for concurrent use.
type Timer struct {
	state model.Timer
	now   func() time.Time
	newID func() string
}

// New returns an idle timer. A nil now defaults to time.Now.
func New(now func() time.Time) *Timer {
	if now == nil {
		now = time.Now
	}
	return &Timer{now: now, newID: uuid.NewString}
}

// WithIDs replaces the entry identifier generator.
func (t *Timer) WithIDs(newID func() string) *Timer {
	t.newID = newID
	return t
}

// Restore replaces the timer state with a snapshot.
func (t *Timer) Restore(s model.Timer) {
	t.state = s
}

// State returns a copy of the current state.
func (t *Timer) State() model.Timer {
	return t.state
}

func (t *Timer) Running() bool {
	return t.state.IsRunning
}

// Active reports whether a session is running or paused.
func (t *Timer) Active() bool {
	return t.state.Started()
}

func (t *Timer) Elapsed() int64 {
	return t.state.ElapsedSeconds
}

// Start begins a new session.
func (t *Timer) Start(project, task, description string) error {
	if project == "" || task == "" {
		return ErrMissingProject
	}
	if t.state.Started() {
		return ErrActive
	}
	now := t.now()
	t.state = model.Timer{
		IsRunning: true,
		StartTime: &now,
		Project:   &project,
		Task:      &task,
	}
	if description != "" {
		t.state.Description = &description
	}
	return nil
}

// Pause freezes the elapsed time.
func (t *Timer) Pause() error {
	if !t.state.IsRunning {
		return ErrNotRunning
	}
	now := t.now()
	t.state.IsRunning = false
	t.state.PausedTime = &now
	return nil
}

// Resume continues a paused session without resetting the elapsed time.
func (t *Timer) Resume() error {
	if !t.state.Started() {
		return ErrNotStarted
	}
	if t.state.IsRunning {
		return ErrRunning
	}
	now := t.now()
	t.state.IsRunning = true
	t.state.StartTime = &now
	t.state.PausedTime = nil
	return nil
}

// Tick advances a running timer by one second. It reports whether the timer
// advanced.
func (t *Timer) Tick() bool {
	if !t.state.IsRunning {
		return false
	}
	t.state.ElapsedSeconds++
	if t.state.StartTime != nil {
		mark := t.state.StartTime.Add(time.Second)
		t.state.StartTime = &mark
	}
	return true
}

// Reconcile credits a running timer with the whole seconds between its
// accounting mark and now, as after a restart, and returns the seconds added.
// Paused timers and marks in the future are returned unchanged.
func Reconcile(s model.Timer, now time.Time) (model.Timer, int64) {
	if !s.IsRunning || s.StartTime == nil {
		return s, 0
	}
	gap := now.Sub(*s.StartTime)
	if gap <= 0 {
		return s, 0
	}
	added := int64(gap / time.Second)
	s.ElapsedSeconds += added
	mark := s.StartTime.Add(time.Duration(added) * time.Second)
	s.StartTime = &mark
	return s, added
}

// Reconcile applies the package-level Reconcile at the timer's current time.
func (t *Timer) Reconcile() int64 {
	var added int64
	t.state, added = Reconcile(t.state, t.now())
	return added
}

// Stop ends the session and returns its time entry, linked to attendanceID
// when given. The timer is reset to idle.
func (t *Timer) Stop(attendanceID *string) (model.TimeEntry, error) {
	if !t.state.Started() {
		return model.TimeEntry{}, ErrNotStarted
	}
	now := t.now()
	elapsed := t.state.ElapsedSeconds
	entry := model.TimeEntry{
		ID:           t.newID(),
		Project:      *t.state.Project,
		Task:         *t.state.Task,
		Description:  t.state.Description,
		StartTime:    now.Add(-time.Duration(elapsed) * time.Second),
		EndTime:      now,
		Duration:     elapsed,
		Billable:     true,
		AttendanceID: attendanceID,
		Source:       model.SourceTimer,
	}
	t.state = model.Timer{}
	return entry, nil
}
