package tray

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/panel"
)

type fakeItem struct {
	title   string
	tooltip string
	hidden  bool
	checked bool
}

func (f *fakeItem) SetTitle(title string)     { f.title = title }
func (f *fakeItem) SetTooltip(tooltip string) { f.tooltip = tooltip }
func (f *fakeItem) Show()                     { f.hidden = false }
func (f *fakeItem) Hide()                     { f.hidden = true }
func (f *fakeItem) Check()                    { f.checked = true }
func (f *fakeItem) Uncheck()                  { f.checked = false }

func newTestMenu() (*menu, *string, *fakeItem) {
	title := new(string)
	color := &fakeItem{}
	m := newMenu(
		func(t string) item { return &fakeItem{title: t} },
		func() {},
		func(t string) { *title = t },
		color,
		format.NewLocalizer("en"),
	)
	return m, title, color
}

func TestMenuRender(t *testing.T) {
	m, title, color := newTestMenu()

	mirror := &panel.Mirror{State: panel.State{
		Sections: []panel.Section{
			{Kind: panel.SectionDashboard},
			{Kind: panel.SectionDetails},
			{Kind: panel.SectionBattery},
			{Kind: panel.SectionProcesses},
		},
		Fields: map[panel.FieldID]panel.Field{
			panel.FieldLevel:     {Text: "50%", Tooltip: "2500 mAh"},
			panel.FieldTimeLabel: {Text: "Time to discharge"},
			panel.FieldTime:      {Text: "2h 5min"},
		},
		Rows: []panel.ProcessRow{
			{Slot: 0, Identifier: "42", Name: "kernel_task", Columns: []string{"12.5%"}},
		},
		Portal: panel.Portal{Level: "50%", Time: "2h 5min"},
		Gauge:  panel.GaugeState{Colored: true},
	}}
	m.render(mirror)

	assert.Equal(t, "50% · 2h 5min", *title)
	assert.True(t, color.checked)

	level := m.fields[panel.FieldLevel].(*fakeItem)
	assert.Equal(t, "Level: 50%", level.title)
	assert.Equal(t, "2500 mAh", level.tooltip)
	assert.Equal(t, "Time to discharge: 2h 5min", m.fields[panel.FieldTime].(*fakeItem).title)
	assert.Equal(t, "Cycles: -", m.fields[panel.FieldCycles].(*fakeItem).title)

	assert.True(t, m.headers[panel.SectionAdapter].(*fakeItem).hidden)
	assert.True(t, m.fields[panel.FieldAdapterPower].(*fakeItem).hidden)
	assert.False(t, m.fields[panel.FieldHealth].(*fakeItem).hidden)

	first := m.processes[0].(*fakeItem)
	assert.False(t, first.hidden)
	assert.Equal(t, "12.5%  kernel_task", first.title)
	assert.True(t, m.processes[1].(*fakeItem).hidden)
}

func TestMenuRenderCharging(t *testing.T) {
	m, title, color := newTestMenu()
	color.checked = true

	mirror := &panel.Mirror{State: panel.State{
		Sections: []panel.Section{{Kind: panel.SectionAdapter}},
		Portal:   panel.Portal{Level: "80%", Charging: "Charging"},
	}}
	m.render(mirror)

	assert.Equal(t, "⚡️ 80%", *title)
	assert.False(t, color.checked)
	assert.False(t, m.headers[panel.SectionAdapter].(*fakeItem).hidden)
	for _, p := range m.processes {
		assert.True(t, p.(*fakeItem).hidden)
	}
}
