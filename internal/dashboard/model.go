package dashboard

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/tracker"
)

// MsgTick advances the running timer by one second.
type MsgTick struct{}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return MsgTick{} })
}

// Model is a live view over a tracker session.
type Model struct {
	tr       *tracker.Tracker
	Project  string
	Task     string
	Location string
	Remote   bool

	snap    tracker.Snapshot
	Message string
	Err     error
}

// NewModel builds a dashboard for tr. project and task are used by the
// start key.
func NewModel(tr *tracker.Tracker, project, task, location string, remote bool) *Model {
	return &Model{
		tr:       tr,
		Project:  project,
		Task:     task,
		Location: location,
		Remote:   remote,
		snap:     tr.Snapshot(),
	}
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.tr.Tick()
		m.snap = m.tr.Snapshot()
		return m, tick()
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	m.Message = ""

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "i":
		_, err = m.tr.ClockIn(m.Location, m.Remote, "")
		if err == nil {
			m.Message = "Clocked in"
		}
	case "o":
		var entry *model.TimeEntry
		_, entry, err = m.tr.ClockOut("")
		if err == nil {
			m.Message = "Clocked out"
			if entry != nil {
				m.Message += " (timer stopped)"
			}
		}
	case "b":
		if m.snap.Status == attendance.OnBreak {
			_, err = m.tr.EndBreak()
			if err == nil {
				m.Message = "Break ended"
			}
		} else {
			var paused bool
			_, paused, err = m.tr.StartBreak("")
			if err == nil {
				m.Message = "Break started"
				if paused {
					m.Message += " (timer paused)"
				}
			}
		}
	case "s":
		if m.Project == "" || m.Task == "" {
			m.Message = "Start with --project and --task to use this key"
			break
		}
		_, err = m.tr.StartTimer(m.Project, m.Task, "")
		if err == nil {
			m.Message = "Timer started"
		}
	case "p":
		if m.snap.Timer.IsRunning {
			err = m.tr.PauseTimer()
			if err == nil {
				m.Message = "Timer paused"
			}
		} else {
			err = m.tr.ResumeTimer()
			if err == nil {
				m.Message = "Timer resumed"
			}
		}
	case "x":
		_, err = m.tr.StopTimer()
		if err == nil {
			m.Message = "Timer stopped"
		}
	}

	m.Err = err
	m.snap = m.tr.Snapshot()
	return m, nil
}
