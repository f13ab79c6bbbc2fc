package tray

import (
	"fmt"
	"strings"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/panel"
)

// item is the part of *systray.MenuItem the menu drives.
type item interface {
	SetTitle(title string)
	SetTooltip(tooltip string)
	Show()
	Hide()
	Check()
	Uncheck()
}

// itemFactory creates a disabled, informational menu entry.
type itemFactory func(title string) item

// menu maps the mirrored panel state onto tray items.
type menu struct {
	setTitle  func(string)
	localizer *format.Localizer

	headers   map[panel.SectionKind]item
	fields    map[panel.FieldID]item
	processes []item
	color     item
}

// newMenu creates every item up front; items for unmounted sections stay
// hidden.
func newMenu(newItem itemFactory, separator func(), setTitle func(string), color item, localizer *format.Localizer) *menu {
	m := &menu{
		setTitle:  setTitle,
		localizer: localizer,
		headers:   make(map[panel.SectionKind]item),
		fields:    make(map[panel.FieldID]item),
		color:     color,
	}

	for _, kind := range []panel.SectionKind{panel.SectionDetails, panel.SectionBattery, panel.SectionAdapter} {
		m.headers[kind] = newItem(localizer.String(kind.Title()))
		for _, info := range panel.FieldsIn(kind) {
			m.fields[info.ID] = newItem(localizer.String(info.Label) + ": -")
		}
		separator()
	}

	m.headers[panel.SectionProcesses] = newItem(localizer.String(panel.SectionProcesses.Title()))
	for i := 0; i < config.MaxProcessRowCount; i++ {
		it := newItem("")
		it.Hide()
		m.processes = append(m.processes, it)
	}
	separator()

	return m
}

func (m *menu) render(mirror *panel.Mirror) {
	st := mirror.State

	title := strings.Join(nonEmpty(st.Portal.Level, st.Portal.Time), " · ")
	if st.Portal.Charging != "" {
		title = "⚡️ " + title
	}
	if title == "" {
		title = "🔋"
	}
	m.setTitle(title)

	for kind, header := range m.headers {
		visible := mirror.Mounted(kind)
		setVisible(header, visible)
		for _, info := range panel.FieldsIn(kind) {
			setVisible(m.fields[info.ID], visible)
		}
	}

	for id, it := range m.fields {
		label := m.labelOf(id, st.Fields)
		f := st.Fields[id]
		text := f.Text
		if text == "" {
			text = "-"
		}
		it.SetTitle(fmt.Sprintf("%s: %s", label, text))
		it.SetTooltip(f.Tooltip)
	}

	processesMounted := mirror.Mounted(panel.SectionProcesses)
	for i, it := range m.processes {
		if !processesMounted || i >= len(st.Rows) {
			it.Hide()
			continue
		}
		r := st.Rows[i]
		usage := ""
		if len(r.Columns) > 0 {
			usage = r.Columns[0]
		}
		it.SetTitle(fmt.Sprintf("%s  %s", usage, r.Name))
		it.SetTooltip("PID " + r.Identifier)
		it.Show()
	}

	if m.color != nil {
		if st.Gauge.Colored {
			m.color.Check()
		} else {
			m.color.Uncheck()
		}
	}
}

func (m *menu) labelOf(id panel.FieldID, fields map[panel.FieldID]panel.Field) string {
	if id == panel.FieldTime {
		if l, ok := fields[panel.FieldTimeLabel]; ok && l.Text != "" {
			return l.Text
		}
	}
	for _, kind := range []panel.SectionKind{panel.SectionDetails, panel.SectionBattery, panel.SectionAdapter} {
		for _, info := range panel.FieldsIn(kind) {
			if info.ID == id {
				return m.localizer.String(info.Label)
			}
		}
	}
	return string(id)
}

func setVisible(it item, visible bool) {
	if visible {
		it.Show()
	} else {
		it.Hide()
	}
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
