package model

import "time"

// Break is a paused interval within a clocked-in day.
type Break struct {
	ID        string     `json:"id"`
	StartTime time.Time  `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Duration  *int64     `json:"duration"` // minutes
	Reason    *string    `json:"reason,omitempty"`
}

// Open reports whether the break has not been ended yet.
func (b Break) Open() bool {
	return b.EndTime == nil
}

// AttendanceRecord holds one calendar day's clock-in/out and break history.
type AttendanceRecord struct {
	ID                string     `json:"id"`
	Date              string     `json:"date"` // YYYY-MM-DD
	ClockInTime       *time.Time `json:"clock_in_time"`
	ClockOutTime      *time.Time `json:"clock_out_time"`
	Location          string     `json:"location"`
	IsRemote          bool       `json:"is_remote"`
	ProjectID         *string    `json:"project_id,omitempty"`
	Breaks            []Break    `json:"breaks"`
	TotalWorkingHours *float64   `json:"total_working_hours"`
	TimeEntries       []string   `json:"time_entries"`
}

// OpenBreak returns the index of the open break, or -1. Only the last break
// can be open.
func (r *AttendanceRecord) OpenBreak() int {
	n := len(r.Breaks)
	if n > 0 && r.Breaks[n-1].Open() {
		return n - 1
	}
	return -1
}

// Clone returns a deep copy of r.
func (r AttendanceRecord) Clone() AttendanceRecord {
	out := r
	out.Breaks = append([]Break(nil), r.Breaks...)
	out.TimeEntries = append([]string(nil), r.TimeEntries...)
	if out.Breaks == nil {
		out.Breaks = []Break{}
	}
	if out.TimeEntries == nil {
		out.TimeEntries = []string{}
	}
	return out
}
