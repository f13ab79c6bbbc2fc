package panel

import (
	"sort"

	pkgerrors "github.com/pkg/errors"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
)

// Mirror rebuilds the displayed part of State from the event stream, for
// presenters that only see events.
type Mirror struct {
	State State
}

// Apply folds one event into the mirrored state. Unknown events are ignored.
func (m *Mirror) Apply(ev events.Event) error {
	switch ev.Name {
	case events.PanelState:
		st, err := events.DecodeAs[State](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.State = st

	case events.PanelFields:
		e, err := events.DecodeAs[FieldsEvent](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		if m.State.Fields == nil {
			m.State.Fields = make(map[FieldID]Field)
		}
		for _, u := range e.Updates {
			m.State.Fields[u.ID] = u.Field()
		}

	case events.PanelRows:
		e, err := events.DecodeAs[RowsEvent](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		for _, u := range e.Updates {
			m.applyRow(u)
		}

	case events.PanelSection:
		e, err := events.DecodeAs[SectionEvent](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.applySection(e)

	case events.PanelHeight:
		e, err := events.DecodeAs[HeightEvent](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.State.Height = e.Height

	case events.PanelGauge:
		g, err := events.DecodeAs[GaugeState](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.State.Gauge = g

	case events.PanelPortal:
		p, err := events.DecodeAs[Portal](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.State.Portal = p

	case events.PanelPreferences:
		p, err := events.DecodeAs[config.Preferences](ev)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to decode %s", ev.Name)
		}
		m.State.Preferences = p
	}
	return nil
}

func (m *Mirror) applyRow(u RowUpdate) {
	switch u.Op {
	case RowClear:
		m.State.Rows = nil
	case RowSet:
		for len(m.State.Rows) <= u.Row.Slot {
			m.State.Rows = append(m.State.Rows, ProcessRow{Slot: len(m.State.Rows)})
		}
		m.State.Rows[u.Row.Slot] = u.Row
	}
}

func (m *Mirror) applySection(e SectionEvent) {
	sections := m.State.Sections[:0:0]
	for _, sec := range m.State.Sections {
		if sec.Kind != e.Kind {
			sections = append(sections, sec)
		}
	}
	if e.Mounted {
		sections = append(sections, Section{Kind: e.Kind, Height: e.Height})
		sort.SliceStable(sections, func(i, j int) bool { return sections[i].Kind < sections[j].Kind })
	}
	m.State.Sections = sections
}

// Mounted reports whether a section is in the mirrored layout.
func (m *Mirror) Mounted(kind SectionKind) bool {
	for _, sec := range m.State.Sections {
		if sec.Kind == kind {
			return true
		}
	}
	return false
}
