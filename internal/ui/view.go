package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/clockwise-hq/clockwise/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

	badgeOut     = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("240")).Foreground(lipgloss.Color("255"))
	badgeWorking = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("35")).Foreground(lipgloss.Color("230"))
	badgePaused  = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("214")).Foreground(lipgloss.Color("235"))
	badgeOffline = lipgloss.NewStyle().Bold(true).Padding(0, 1).Background(lipgloss.Color("160")).Foreground(lipgloss.Color("255"))

	clockStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 3)
)

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("clockwise"))
	b.WriteString("  ")
	b.WriteString(m.stateBadge())
	if m.tracker.Offline() {
		b.WriteString(" ")
		b.WriteString(badgeOffline.Render("OFFLINE"))
	}
	b.WriteString("\n\n")

	b.WriteString(clockStyle.Render(session.FormatDuration(m.snap.Elapsed)))
	b.WriteString("\n\n")

	b.WriteString(m.detailLines())
	b.WriteString("\n")

	if m.status != "" {
		style := noticeStyle
		if m.statusErr {
			style = errorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(m.helpLine()))

	box := boxStyle.Render(b.String())
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}

func (m Model) stateBadge() string {
	switch m.snap.State {
	case session.StateWorking:
		return badgeWorking.Render("WORKING")
	case session.StatePaused:
		return badgePaused.Render("ON BREAK")
	default:
		return badgeOut.Render("CLOCKED OUT")
	}
}

func (m Model) detailLines() string {
	var lines []string
	if !m.snap.StartTime.IsZero() {
		lines = append(lines, "started  "+m.snap.StartTime.Local().Format("15:04:05"))
	}
	if m.snap.TotalPaused > 0 {
		lines = append(lines, "breaks   "+session.FormatDuration(m.snap.TotalPaused))
	}
	if !m.snap.LastSync.IsZero() {
		lines = append(lines, "synced   "+m.snap.LastSync.Local().Format("15:04:05"))
	} else if m.snap.Active() {
		lines = append(lines, "synced   never")
	}
	if len(lines) == 0 {
		return dimStyle.Render("press s to clock in") + "\n"
	}
	return dimStyle.Render(strings.Join(lines, "\n")) + "\n"
}

func (m Model) helpLine() string {
	if m.busy {
		return "working..."
	}
	var parts []string
	switch m.snap.State {
	case session.StateOut:
		parts = []string{"s clock in"}
	case session.StateWorking:
		parts = []string{"b break", "e clock out"}
	case session.StatePaused:
		parts = []string{"r end break", "e clock out"}
	}
	parts = append(parts, "y sync", "q quit")
	return strings.Join(parts, " · ")
}
