package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/charlie0129/battpanel/pkg/panel"
)

const gaugeWidth = 30

func (m *Model) View() string {
	st := m.mirror.State

	header := titleStyle.Render("battpanel")
	if p := st.Portal; p.Level != "" {
		summary := strings.Join(nonEmpty(p.Level, p.Time, p.Charging), " · ")
		header += "  " + subtleStyle.Render(summary)
	}

	var blocks []string
	blocks = append(blocks, header)
	if m.hidden {
		blocks = append(blocks, subtleStyle.Render("(hidden, process list paused)"))
	}

	for _, sec := range st.Sections {
		switch sec.Kind {
		case panel.SectionDashboard:
			blocks = append(blocks, m.card(sec.Kind, gaugeBar(st.Gauge)))
		case panel.SectionProcesses:
			blocks = append(blocks, m.card(sec.Kind, m.processTable(st.Rows)))
		default:
			blocks = append(blocks, m.card(sec.Kind, m.fieldRows(sec.Kind, st.Fields)))
		}
	}

	if m.err != nil {
		blocks = append(blocks, subtleStyle.Render("error: "+m.err.Error()))
	}
	blocks = append(blocks, m.help.View(m.keys))

	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

func (m *Model) card(kind panel.SectionKind, body string) string {
	return cardStyle.Render(headerStyle.Render(m.localizer.String(kind.Title())) + "\n" + body)
}

func (m *Model) fieldRows(kind panel.SectionKind, fields map[panel.FieldID]panel.Field) string {
	var lines []string
	for _, info := range panel.FieldsIn(kind) {
		label := m.localizer.String(info.Label)
		if info.ID == panel.FieldTime {
			if l, ok := fields[panel.FieldTimeLabel]; ok && l.Text != "" {
				label = l.Text
			}
		}
		lines = append(lines, labelStyle.Render(label+":")+fields[info.ID].Text)
	}
	return strings.Join(lines, "\n")
}

func (m *Model) processTable(rows []panel.ProcessRow) string {
	if len(rows) == 0 {
		return subtleStyle.Render("…")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s %-24s %s", "PID", "Name", m.localizer.String("Usage"))
	for _, r := range rows {
		usage := ""
		if len(r.Columns) > 0 {
			usage = r.Columns[0]
		}
		fmt.Fprintf(&b, "\n%-8s %-24s %s", r.Identifier, truncate(r.Name, 24), usage)
	}
	return b.String()
}

func gaugeBar(g panel.GaugeState) string {
	filled := int(math.Round(g.Level * gaugeWidth))
	filled = max(0, min(filled, gaugeWidth))
	bar := fillStyle(g.Fill).Render(strings.Repeat(gaugeFill, filled)) + strings.Repeat(gaugeEmpty, gaugeWidth-filled)
	return fmt.Sprintf("[%s] %3.0f%%", bar, g.Level*100)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func nonEmpty(ss ...string) []string {
	var out []string
	for _, s := range ss {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
