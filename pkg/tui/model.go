package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/panel"
)

// Controller receives the user's actions. panel.Panel implements it.
type Controller interface {
	ToggleColor()
	SetProcessCount(n int)
	SetVisible(visible bool)
}

// Messages
type (
	eventMsg     events.Event
	streamEndMsg struct{}
)

// Model renders the panel from its event stream.
type Model struct {
	stream     <-chan events.Event
	controller Controller
	keys       KeyMap
	help       help.Model

	mirror    panel.Mirror
	localizer *format.Localizer
	rowCount  int
	hidden    bool
	width     int
	err       error
}

// New builds a Model. rowCount is the configured process count at start,
// language picks the labels.
func New(stream <-chan events.Event, controller Controller, rowCount int, language string) *Model {
	return &Model{
		stream:     stream,
		controller: controller,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		localizer:  format.NewLocalizer(language),
		rowCount:   rowCount,
		width:      80,
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.stream
		if !ok {
			return streamEndMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *Model) Init() tea.Cmd { return m.waitForEvent() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Color):
			m.controller.ToggleColor()
		case key.Matches(msg, m.keys.More):
			m.setRowCount(m.rowCount + 1)
		case key.Matches(msg, m.keys.Less):
			m.setRowCount(m.rowCount - 1)
		case key.Matches(msg, m.keys.Hide):
			m.hidden = !m.hidden
			m.controller.SetVisible(!m.hidden)
		}

	case eventMsg:
		ev := events.Event(msg)
		if err := m.mirror.Apply(ev); err != nil {
			logrus.WithError(err).Warn("failed to apply panel event")
			m.err = err
		}
		if ev.Name == events.PanelState {
			m.rowCount = m.mirror.State.Preferences.ProcessRowCount
		}
		if ev.Name == events.PanelState || ev.Name == events.PanelPreferences {
			if lang := m.mirror.State.Preferences.Language; lang != "" && lang != m.localizer.Language() {
				m.localizer = format.NewLocalizer(lang)
			}
		}
		if ev.Name == events.PanelSection {
			m.syncRowCount()
		}
		return m, m.waitForEvent()

	case streamEndMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) setRowCount(n int) {
	if n < 0 || n > config.MaxProcessRowCount || n == m.rowCount {
		return
	}
	m.rowCount = n
	m.controller.SetProcessCount(n)
}

// syncRowCount picks up resizes made elsewhere.
func (m *Model) syncRowCount() {
	for _, sec := range m.mirror.State.Sections {
		if sec.Kind == panel.SectionProcesses {
			m.rowCount = int((sec.Height - panel.SeparatorHeight - panel.RowHeight) / panel.RowHeight)
			return
		}
	}
	m.rowCount = 0
}
