package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/attendance"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
	"github.com/Tiliavir/trivial-attendance-tracker/internal/timecalc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

func statusLabel(s attendance.Status) string {
	switch s {
	case attendance.ClockedIn:
		return "Clocked in"
	case attendance.OnBreak:
		return "On break"
	case attendance.ClockedOut:
		return "Clocked out"
	default:
		return "Not clocked in"
	}
}

func row(label, value string) string {
	return labelStyle.Render(label) + value + "\n"
}

func (m *Model) View() string {
	var b strings.Builder
	today := m.snap.Today

	b.WriteString(titleStyle.Render("tat · "+today.Date) + "\n\n")
	b.WriteString(row("Status", statusLabel(m.snap.Status)))
	b.WriteString(row("Clock in", timecalc.FormatClock(today.ClockInTime)))
	b.WriteString(row("Clock out", timecalc.FormatClock(today.ClockOutTime)))
	b.WriteString(row("Breaks", fmt.Sprintf("%d", len(today.Breaks))))
	if today.TotalWorkingHours != nil {
		b.WriteString(row("Worked", timecalc.FormatHours(*today.TotalWorkingHours)))
	}
	b.WriteString("\n")
	b.WriteString(m.timerView(m.snap.Timer))

	if m.Err != nil {
		b.WriteString("\n" + errorStyle.Render(m.Err.Error()) + "\n")
	} else if m.Message != "" {
		b.WriteString("\n" + m.Message + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("i clock in · o clock out · b break · s start · p pause/resume · x stop · q quit"))
	return boxStyle.Render(b.String())
}

func (m *Model) timerView(t model.Timer) string {
	if !t.Started() {
		return row("Timer", timerDisplayStyle.Render("idle"))
	}
	clock := timecalc.FormatDurationHHMMSS(t.ElapsedSeconds)
	style := timerDisplayStyle
	state := "paused"
	if t.IsRunning {
		style = timerRunningStyle
		state = "running"
	}
	return row("Timer", style.Render(clock)+" "+state) +
		row("Project", *t.Project) +
		row("Task", *t.Task)
}
