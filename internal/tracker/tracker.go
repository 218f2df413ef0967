// Package tracker sequences the attendance book, the task timer and the
// entry ledger, and mirrors every change to storage.
package tracker

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/ledger"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/persist"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timer"
)

// ErrInvalidEntry is returned by AddEntry for incomplete or inverted entries.
var ErrInvalidEntry = errors.New("invalid time entry")

// Options configures a Tracker. Zero values select the defaults.
type Options struct {
	Now    func() time.Time
	NewID  func() string
	Logger *slog.Logger
}

// Tracker is one user session. Construct it with Open and release it with
// Close.
type Tracker struct {
	mu      sync.Mutex
	book    *attendance.Book
	timer   *timer.Timer
	ledger  *ledger.Ledger
	adapter *persist.Adapter
	store   storage.Store
	now     func() time.Time
	newID   func() string
	log     *slog.Logger

	reconciled int64
	writeErr   error
}

// Open restores the session from store.
func Open(store storage.Store, opts Options) (*Tracker, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	adapter := persist.New(store, opts.Logger, opts.NewID)
	st, loadErr := adapter.Load(opts.Now())

	l, errs := ledger.New(st.Entries)
	for _, err := range errs {
		opts.Logger.Warn("dropping stored time entry", "err", err)
	}

	t := &Tracker{
		book:       attendance.NewBook(st.Records, attendance.WithClock(opts.Now), attendance.WithIDs(opts.NewID)),
		timer:      timer.New(opts.Now).WithIDs(opts.NewID),
		ledger:     l,
		adapter:    adapter,
		store:      store,
		now:        opts.Now,
		newID:      opts.NewID,
		log:        opts.Logger,
		reconciled: st.Reconciled,
		writeErr:   loadErr,
	}
	t.timer.Restore(st.Timer)
	return t, nil
}

// Close releases the store. It returns the first write error seen during the
// session, if any.
func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return errors.Join(t.writeErr, t.store.Close())
}

func (t *Tracker) noteWrite(err error) {
	if err != nil && t.writeErr == nil {
		t.writeErr = err
	}
}

func (t *Tracker) saveToday() {
	rec, created := t.book.Ensure()
	if created {
		t.log.Debug("created attendance record", "date", rec.Date)
	}
	t.noteWrite(t.adapter.SaveAttendance(rec, t.book.Records()))
}

func (t *Tracker) saveTimer() {
	t.noteWrite(t.adapter.SaveTimer(t.timer.State()))
}

func (t *Tracker) saveEntries() {
	t.noteWrite(t.adapter.SaveEntries(t.ledger.Entries()))
}

// Reconciled returns the seconds credited to a running timer at Open.
func (t *Tracker) Reconciled() int64 {
	return t.reconciled
}

// ClockIn starts today's working period.
func (t *Tracker) ClockIn(location string, isRemote bool, projectID string) (model.AttendanceRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	var pid *string
	if projectID != "" {
		pid = &projectID
	}
	rec, err := t.book.ClockIn(location, isRemote, pid)
	if err != nil {
		return rec, err
	}
	t.saveToday()
	return rec, nil
}

// ClockOut stops an active timer, capturing its entry, then closes the day.
func (t *Tracker) ClockOut(location string) (model.AttendanceRecord, *model.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	today, _ := t.book.Ensure()
	switch attendance.StatusOf(&today) {
	case attendance.NotClockedIn:
		return today, nil, attendance.ErrNotClockedIn
	case attendance.ClockedOut:
		return today, nil, attendance.ErrAlreadyClockedOut
	}

	var stopped *model.TimeEntry
	if t.timer.Active() {
		entry, err := t.stopTimer()
		if err != nil {
			return today, nil, err
		}
		stopped = &entry
	}
	rec, err := t.book.ClockOut(location)
	if err != nil {
		return rec, stopped, err
	}
	t.saveToday()
	return rec, stopped, nil
}

// StartBreak pauses a running timer, then opens a break. paused reports
// whether the timer was paused.
func (t *Tracker) StartBreak(reason string) (rec model.AttendanceRecord, paused bool, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var r *string
	if reason != "" {
		r = &reason
	}
	rec, err = t.book.StartBreak(r)
	if err != nil {
		return rec, false, err
	}
	if t.timer.Running() {
		if err := t.timer.Pause(); err == nil {
			paused = true
			t.saveTimer()
		}
	}
	t.saveToday()
	return rec, paused, nil
}

// EndBreak closes the open break. The timer is left paused.
func (t *Tracker) EndBreak() (model.AttendanceRecord, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	rec, err := t.book.EndBreak()
	if err != nil {
		return rec, err
	}
	t.saveToday()
	return rec, nil
}

// StartTimer begins a task session. An active session is stopped first and
// returned as stopped.
func (t *Tracker) StartTimer(project, task, description string) (stopped *model.TimeEntry, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if project == "" || task == "" {
		return nil, timer.ErrMissingProject
	}
	if t.timer.Active() {
		prev := t.timer.State()
		t.log.Warn("auto-stopping active timer", "project", *prev.Project, "task", *prev.Task)
		entry, err := t.stopTimer()
		if err != nil {
			return nil, err
		}
		stopped = &entry
	}
	if err := t.timer.Start(project, task, description); err != nil {
		return stopped, err
	}
	t.saveTimer()
	return stopped, nil
}

func (t *Tracker) PauseTimer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.timer.Pause(); err != nil {
		return err
	}
	t.saveTimer()
	return nil
}

func (t *Tracker) ResumeTimer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.timer.Resume(); err != nil {
		return err
	}
	t.saveTimer()
	return nil
}

// StopTimer ends the session, appends its entry to the ledger and links it
// into today's attendance record.
func (t *Tracker) StopTimer() (model.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopTimer()
}

func (t *Tracker) stopTimer() (model.TimeEntry, error) {
	today, _ := t.book.Ensure()
	entry, err := t.timer.Stop(&today.ID)
	if err != nil {
		return entry, err
	}
	if err := t.ledger.Append(entry); err != nil {
		return entry, fmt.Errorf("recording time entry: %w", err)
	}
	t.book.LinkEntry(today.Date, entry.ID)
	t.saveEntries()
	t.saveToday()
	t.saveTimer()
	return entry, nil
}

// Tick advances a running timer by one second and persists it.
func (t *Tracker) Tick() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.timer.Tick() {
		return false
	}
	t.saveTimer()
	return true
}

// ManualEntry describes a time entry logged by hand.
type ManualEntry struct {
	Project     string
	Task        string
	Description string
	Start       time.Time
	End         time.Time
	NonBillable bool
	Source      string
	ExternalID  string
}

// AddEntry validates m and appends it to the ledger, linking it to the
// attendance record of its start date when one exists.
func (t *Tracker) AddEntry(m ManualEntry) (model.TimeEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if strings.TrimSpace(m.Project) == "" || strings.TrimSpace(m.Task) == "" {
		return model.TimeEntry{}, fmt.Errorf("%w: project and task are required", ErrInvalidEntry)
	}
	if m.End.Before(m.Start) {
		return model.TimeEntry{}, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidEntry, m.End.Format(time.RFC3339), m.Start.Format(time.RFC3339))
	}
	source := m.Source
	if source == "" {
		source = model.SourceManual
	}
	entry := model.TimeEntry{
		ID:         t.newID(),
		Project:    m.Project,
		Task:       m.Task,
		StartTime:  m.Start,
		EndTime:    m.End,
		Duration:   timecalc.WholeSeconds(m.Start, m.End),
		Billable:   !m.NonBillable,
		Source:     source,
		ExternalID: m.ExternalID,
	}
	if m.Description != "" {
		d := m.Description
		entry.Description = &d
	}
	date := timecalc.DateKey(m.Start)
	rec := t.book.Lookup(date)
	if rec != nil {
		id := rec.ID
		entry.AttendanceID = &id
	}
	if err := t.ledger.Append(entry); err != nil {
		return entry, err
	}
	t.saveEntries()
	if rec != nil && t.book.LinkEntry(date, entry.ID) {
		updated := t.book.Lookup(date)
		t.noteWrite(t.adapter.SaveAttendance(*updated, t.book.Records()))
	}
	return entry, nil
}

// HasExternal reports whether an imported entry with externalID exists.
func (t *Tracker) HasExternal(externalID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.ledger.HasExternal(externalID)
}

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	Today   model.AttendanceRecord
	Status  attendance.Status
	Timer   model.Timer
	Records []model.AttendanceRecord
	Entries []model.TimeEntry
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	today, created := t.book.Ensure()
	if created {
		t.noteWrite(t.adapter.SaveAttendance(today, t.book.Records()))
	}
	return Snapshot{
		Today:   today,
		Status:  attendance.StatusOf(&today),
		Timer:   t.timer.State(),
		Records: t.book.Records(),
		Entries: t.ledger.Entries(),
	}
}
