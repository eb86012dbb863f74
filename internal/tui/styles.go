package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/shelf/internal/notify"
)

type itemStyles struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	title    lipgloss.Style
	meta     lipgloss.Style
	rating   lipgloss.Style
}

func newItemStyles() itemStyles {
	container := lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("214")).
		PaddingLeft(1).
		Foreground(lipgloss.Color("230"))

	return itemStyles{
		normal:   container,
		selected: selected,
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		meta: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
		rating: lipgloss.NewStyle().
			Foreground(lipgloss.Color("178")),
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1).
			MarginTop(1)

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("110"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244")).
			Italic(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))

	toastStyles = map[notify.Severity]lipgloss.Style{
		notify.SeverityError: lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("161")).
			Padding(0, 1),
		notify.SeveritySuccess: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("78")).
			Padding(0, 1),
		notify.SeverityInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("110")).
			Padding(0, 1),
	}
)
