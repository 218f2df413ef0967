// Package attendance manages the per-day attendance records: clock-in,
// clock-out and breaks.
package attendance

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

// Rejected transitions. The book is left unchanged when one is returned.
var (
	ErrAlreadyClockedIn  = errors.New("already clocked in today")
	ErrNotClockedIn      = errors.New("not clocked in")
	ErrAlreadyClockedOut = errors.New("already clocked out today")
	ErrBreakOpen         = errors.New("a break is already in progress")
	ErrNoOpenBreak       = errors.New("no break in progress")
)

// Status is the attendance state of a day.
type Status string

const (
	NotClockedIn Status = "not_clocked_in"
	ClockedIn    Status = "clocked_in"
	OnBreak      Status = "on_break"
	ClockedOut   Status = "clocked_out"
)

// StatusOf derives the state of a record.
func StatusOf(r *model.AttendanceRecord) Status {
	switch {
	case r == nil || r.ClockInTime == nil:
		return NotClockedIn
	case r.ClockOutTime != nil:
		return ClockedOut
	case r.OpenBreak() >= 0:
		return OnBreak
	default:
		return ClockedIn
	}
}

// Book holds the attendance history. Records are kept in insertion order and
// there is at most one per date; "today" is a lookup by date key.
type Book struct {
	records []model.AttendanceRecord
	now     func() time.Time
	newID   func() string
}

// Option configures a Book.
type Option func(*Book)

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(b *Book) { b.now = now }
}

// WithIDs sets the identifier generator.
func WithIDs(newID func() string) Option {
	return func(b *Book) { b.newID = newID }
}

// NewBook returns a book holding records. Later duplicates of a date replace
// earlier ones.
func NewBook(records []model.AttendanceRecord, opts ...Option) *Book {
	b := &Book{now: time.Now, newID: uuid.NewString}
	for _, o := range opts {
		o(b)
	}
	for _, r := range records {
		b.Upsert(r)
	}
	return b
}

func (b *Book) index(date string) int {
	for i := range b.records {
		if b.records[i].Date == date {
			return i
		}
	}
	return -1
}

// Upsert stores r, replacing a record with the same date.
func (b *Book) Upsert(r model.AttendanceRecord) {
	r = r.Clone()
	if i := b.index(r.Date); i >= 0 {
		b.records[i] = r
		return
	}
	b.records = append(b.records, r)
}

// Ensure returns today's record, creating an empty one if absent. created
// reports whether a record was added.
func (b *Book) Ensure() (rec model.AttendanceRecord, created bool) {
	date := timecalc.DateKey(b.now())
	if i := b.index(date); i >= 0 {
		return b.records[i].Clone(), false
	}
	r := model.AttendanceRecord{
		ID:          b.newID(),
		Date:        date,
		Breaks:      []model.Break{},
		TimeEntries: []string{},
	}
	b.records = append(b.records, r)
	return r.Clone(), true
}

// Today returns a copy of today's record, or nil.
func (b *Book) Today() *model.AttendanceRecord {
	return b.Lookup(timecalc.DateKey(b.now()))
}

// Lookup returns a copy of the record for date, or nil.
func (b *Book) Lookup(date string) *model.AttendanceRecord {
	i := b.index(date)
	if i < 0 {
		return nil
	}
	r := b.records[i].Clone()
	return &r
}

// Status returns today's attendance state.
func (b *Book) Status() Status {
	return StatusOf(b.Today())
}

// Records returns a copy of all records in insertion order.
func (b *Book) Records() []model.AttendanceRecord {
	out := make([]model.AttendanceRecord, len(b.records))
	for i, r := range b.records {
		out[i] = r.Clone()
	}
	return out
}

func (b *Book) today() *model.AttendanceRecord {
	b.Ensure()
	return &b.records[b.index(timecalc.DateKey(b.now()))]
}

// ClockIn starts today's working period.
func (b *Book) ClockIn(location string, isRemote bool, projectID *string) (model.AttendanceRecord, error) {
	r := b.today()
	if r.ClockInTime != nil {
		return r.Clone(), ErrAlreadyClockedIn
	}
	now := b.now()
	r.ClockInTime = &now
	r.Location = location
	r.IsRemote = isRemote
	r.ProjectID = projectID
	return r.Clone(), nil
}

// ClockOut closes today's working period. An open break is ended at the
// clock-out instant. An empty location keeps the clock-in location.
func (b *Book) ClockOut(location string) (model.AttendanceRecord, error) {
	r := b.today()
	if r.ClockInTime == nil {
		return r.Clone(), ErrNotClockedIn
	}
	if r.ClockOutTime != nil {
		return r.Clone(), ErrAlreadyClockedOut
	}
	now := b.now()
	if i := r.OpenBreak(); i >= 0 {
		closeBreak(&r.Breaks[i], now)
	}
	r.ClockOutTime = &now
	if location != "" {
		r.Location = location
	}
	total := WorkingHours(*r.ClockInTime, now, r.Breaks)
	r.TotalWorkingHours = &total
	return r.Clone(), nil
}

// StartBreak opens a break in today's working period.
func (b *Book) StartBreak(reason *string) (model.AttendanceRecord, error) {
	r := b.today()
	switch StatusOf(r) {
	case NotClockedIn:
		return r.Clone(), ErrNotClockedIn
	case ClockedOut:
		return r.Clone(), ErrAlreadyClockedOut
	case OnBreak:
		return r.Clone(), ErrBreakOpen
	}
	r.Breaks = append(r.Breaks, model.Break{
		ID:        b.newID(),
		StartTime: b.now(),
		Reason:    reason,
	})
	return r.Clone(), nil
}

// EndBreak closes the open break.
func (b *Book) EndBreak() (model.AttendanceRecord, error) {
	r := b.today()
	i := r.OpenBreak()
	if i < 0 {
		return r.Clone(), ErrNoOpenBreak
	}
	closeBreak(&r.Breaks[i], b.now())
	return r.Clone(), nil
}

// LinkEntry appends entryID to the record of date. It reports false when no
// such record exists.
func (b *Book) LinkEntry(date, entryID string) bool {
	i := b.index(date)
	if i < 0 {
		return false
	}
	b.records[i].TimeEntries = append(b.records[i].TimeEntries, entryID)
	return true
}

func closeBreak(br *model.Break, end time.Time) {
	mins := timecalc.WholeMinutes(br.StartTime, end)
	br.EndTime = &end
	br.Duration = &mins
}

// WorkingHours returns the hours between in and out minus the closed breaks,
// never negative.
func WorkingHours(in, out time.Time, breaks []model.Break) float64 {
	var breakMinutes int64
	for _, br := range breaks {
		if br.Duration != nil {
			breakMinutes += *br.Duration
		}
	}
	h := out.Sub(in).Hours() - float64(breakMinutes)/60
	if h < 0 {
		return 0
	}
	return h
}
