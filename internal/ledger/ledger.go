// Package ledger holds the append-only list of completed time entries.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

var (
	ErrDuplicateID      = errors.New("duplicate time entry id")
	ErrNegativeDuration = errors.New("time entry duration is negative")
)

// Ledger is an append-only list of time entries in insertion order.
type Ledger struct {
	entries []model.TimeEntry
	ids     map[string]struct{}
	ext     map[string]struct{}
}

// New returns a ledger holding entries. Entries that would be rejected by
// Append are dropped and returned as errs.
func New(entries []model.TimeEntry) (*Ledger, []error) {
	l := &Ledger{ids: map[string]struct{}{}, ext: map[string]struct{}{}}
	var errs []error
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			errs = append(errs, err)
		}
	}
	return l, errs
}

// Append adds e to the ledger.
func (l *Ledger) Append(e model.TimeEntry) error {
	if _, dup := l.ids[e.ID]; dup || e.ID == "" {
		return fmt.Errorf("%w: %q", ErrDuplicateID, e.ID)
	}
	if e.Duration < 0 || e.EndTime.Before(e.StartTime) {
		return fmt.Errorf("%w: %q", ErrNegativeDuration, e.ID)
	}
	l.entries = append(l.entries, e)
	l.ids[e.ID] = struct{}{}
	if e.ExternalID != "" {
		l.ext[e.ExternalID] = struct{}{}
	}
	return nil
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

// Entries returns a copy of all entries.
func (l *Ledger) Entries() []model.TimeEntry {
	return append([]model.TimeEntry{}, l.entries...)
}

// Range returns the entries starting in [from, to] inclusive.
func (l *Ledger) Range(from, to time.Time) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range l.entries {
		if !e.StartTime.Before(from) && !e.StartTime.After(to) {
			out = append(out, e)
		}
	}
	return out
}

// ForAttendance returns the entries linked to the attendance record id.
func (l *Ledger) ForAttendance(id string) []model.TimeEntry {
	var out []model.TimeEntry
	for _, e := range l.entries {
		if e.AttendanceID != nil && *e.AttendanceID == id {
			out = append(out, e)
		}
	}
	return out
}

// HasExternal reports whether an entry imported under externalID exists.
func (l *Ledger) HasExternal(externalID string) bool {
	_, ok := l.ext[externalID]
	return ok
}
