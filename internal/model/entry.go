package model

import "time"

// Entry sources.
const (
	SourceTimer   = "timer"
	SourceManual  = "manual"
	SourceOutlook = "outlook"
)

// TimeEntry is an immutable record of one completed timed work session.
type TimeEntry struct {
	ID           string    `json:"id"`
	Project      string    `json:"project"`
	Task         string    `json:"task"`
	Description  *string   `json:"description"`
	StartTime    time.Time `json:"start_time"`
	EndTime      time.Time `json:"end_time"`
	Duration     int64     `json:"duration"` // seconds
	Billable     bool      `json:"billable"`
	AttendanceID *string   `json:"attendance_id,omitempty"`
	Source       string    `json:"source"`
	ExternalID   string    `json:"external_id,omitempty"`
}

// Timer is the persisted state of the task stopwatch.
//
// StartTime marks the wall-clock point up to which ElapsedSeconds has been
// accounted; it is set on start and resume and advanced by every tick.
type Timer struct {
	IsRunning      bool       `json:"is_running"`
	StartTime      *time.Time `json:"start_time"`
	PausedTime     *time.Time `json:"paused_time"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	Project        *string    `json:"project"`
	Task           *string    `json:"task"`
	Description    *string    `json:"description"`
}

// Started reports whether the timer holds a session (running or paused).
func (t Timer) Started() bool {
	return t.Project != nil && t.Task != nil
}

// Project is an entry of the project directory.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
