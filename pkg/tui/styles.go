package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/charlie0129/battpanel/pkg/panel"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).Width(22)
	cardStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("60")).
			Padding(0, 1)

	gaugeFill  = "█"
	gaugeEmpty = "░"
)

var fillColors = map[panel.FillColor]lipgloss.TerminalColor{
	panel.FillMonochrome: lipgloss.NoColor{},
	panel.FillGreen:      lipgloss.Color("42"),
	panel.FillOrange:     lipgloss.Color("208"),
	panel.FillRed:        lipgloss.Color("196"),
	panel.FillYellow:     lipgloss.Color("226"),
}

func fillStyle(c panel.FillColor) lipgloss.Style {
	color, ok := fillColors[c]
	if !ok {
		color = lipgloss.NoColor{}
	}
	return lipgloss.NewStyle().Foreground(color)
}
