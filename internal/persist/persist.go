// Package persist mirrors the tracking state into a key-value store and
// restores it at session start.
//
// Storage is best effort: read failures fall back to empty state and are
// logged, write failures are logged and returned to the caller.
package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/storage"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timer"
)

// Storage keys.
const (
	KeyTimeEntries       = "timeEntries"
	KeyAttendanceRecords = "attendanceRecords"
	KeyActiveTimer       = "activeTimer"
	dayKeyPrefix         = "attendance_"
)

// DayKey returns the key holding the attendance record of date (YYYY-MM-DD).
func DayKey(date string) string {
	return dayKeyPrefix + date
}

// State is the snapshot read at session start.
type State struct {
	Records []model.AttendanceRecord
	Entries []model.TimeEntry
	Timer   model.Timer
	// Today is the record of the restore date; it always exists after Load.
	Today model.AttendanceRecord
	// Reconciled is the number of seconds added to a running timer.
	Reconciled int64
}

// Adapter reads and writes snapshots.
type Adapter struct {
	store storage.Store
	log   *slog.Logger
	newID func() string
}

func New(store storage.Store, log *slog.Logger, newID func() string) *Adapter {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Adapter{store: store, log: log, newID: newID}
}

// read decodes key into v. It reports false when the key is missing or
// unreadable; v is left untouched in that case.
func (a *Adapter) read(key string, v any) bool {
	data, err := a.store.Get(key)
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		a.log.Warn("storage read failed, using empty state", "key", key, "err", err)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		a.log.Warn("storage parse failed, using empty state", "key", key, "err", err)
		return false
	}
	return true
}

func (a *Adapter) write(key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = fmt.Errorf("storage error marshalling %s: %w", key, err)
	} else {
		err = a.store.Put(key, data)
	}
	if err != nil {
		a.log.Warn("storage write failed", "key", key, "err", err)
		return err
	}
	a.log.Debug("persisted", "key", key, "bytes", len(data))
	return nil
}

func (a *Adapter) SaveEntries(entries []model.TimeEntry) error {
	if entries == nil {
		entries = []model.TimeEntry{}
	}
	return a.write(KeyTimeEntries, entries)
}

func (a *Adapter) SaveRecords(records []model.AttendanceRecord) error {
	if records == nil {
		records = []model.AttendanceRecord{}
	}
	return a.write(KeyAttendanceRecords, records)
}

func (a *Adapter) SaveDay(r model.AttendanceRecord) error {
	return a.write(DayKey(r.Date), r)
}

func (a *Adapter) SaveTimer(t model.Timer) error {
	return a.write(KeyActiveTimer, t)
}

// SaveAttendance writes r under its day key and the full record list.
func (a *Adapter) SaveAttendance(r model.AttendanceRecord, records []model.AttendanceRecord) error {
	return errors.Join(a.SaveDay(r), a.SaveRecords(records))
}

// Load restores the snapshot at now. A running timer is credited with the
// whole seconds elapsed since its accounting mark, and today's record is
// created and persisted when absent.
func (a *Adapter) Load(now time.Time) (State, error) {
	var st State
	a.read(KeyTimeEntries, &st.Entries)
	a.read(KeyAttendanceRecords, &st.Records)

	var tm model.Timer
	if a.read(KeyActiveTimer, &tm) {
		st.Timer = tm
	}
	var errs []error
	st.Timer, st.Reconciled = timer.Reconcile(st.Timer, now)
	if st.Reconciled > 0 {
		a.log.Info("reconciled running timer", "added_seconds", st.Reconciled)
		errs = append(errs, a.SaveTimer(st.Timer))
	}

	date := timecalc.DateKey(now)
	var today model.AttendanceRecord
	if a.read(DayKey(date), &today) && today.Date == date {
		st.Records = upsert(st.Records, today)
	} else if i := find(st.Records, date); i >= 0 {
		today = st.Records[i]
	} else {
		today = model.AttendanceRecord{
			ID:          a.newID(),
			Date:        date,
			Breaks:      []model.Break{},
			TimeEntries: []string{},
		}
		st.Records = append(st.Records, today)
		errs = append(errs, a.SaveAttendance(today, st.Records))
	}
	st.Today = today.Clone()
	return st, errors.Join(errs...)
}

func find(records []model.AttendanceRecord, date string) int {
	for i := range records {
		if records[i].Date == date {
			return i
		}
	}
	return -1
}

func upsert(records []model.AttendanceRecord, r model.AttendanceRecord) []model.AttendanceRecord {
	if i := find(records, r.Date); i >= 0 {
		records[i] = r
		return records
	}
	return append(records, r)
}
