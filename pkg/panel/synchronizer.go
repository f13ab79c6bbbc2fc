package panel

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/charlie0129/battpanel/pkg/config"
	"github.com/charlie0129/battpanel/pkg/events"
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// Publisher receives every change the panel makes. *events.EventHub
// satisfies it.
type Publisher interface {
	Publish(name string, payload any)
}

// Settings is the subset of config.Config the panel reads and writes.
type Settings interface {
	Preferences() config.Preferences
	SetColorEnabled(bool)
	SetProcessRowCount(int)
	Save() error
}

type FieldsEvent struct {
	Updates []FieldUpdate `json:"updates"`
}

type RowsEvent struct {
	Updates []RowUpdate `json:"updates"`
}

type HeightEvent struct {
	Height float64 `json:"height"`
}

type SectionEvent struct {
	Kind    SectionKind `json:"kind"`
	Mounted bool        `json:"mounted"`
	Height  float64     `json:"height"`
}

// Result describes what one measurement did to the panel.
type Result struct {
	Changed    []FieldUpdate
	Transition Transition
}

type Options struct {
	Settings        Settings
	Publisher       Publisher
	OnHeightChanged func(height float64)
	// Now defaults to time.Now.
	Now func() time.Time
}

// State is a consistent copy of everything the panel displays.
type State struct {
	Fields               map[FieldID]Field  `json:"fields"`
	Sections             []Section          `json:"sections"`
	Height               float64            `json:"height"`
	Rows                 []ProcessRow       `json:"rows"`
	Gauge                GaugeState         `json:"gauge"`
	Portal               Portal             `json:"portal"`
	Visible              bool               `json:"visible"`
	ProcessesInitialized bool               `json:"processesInitialized"`
	Preferences          config.Preferences `json:"preferences"`
}

// Synchronizer owns the panel state. It is not safe for concurrent use,
// Panel serializes access to it.
type Synchronizer struct {
	settings        Settings
	publisher       Publisher
	onHeightChanged func(float64)
	now             func() time.Time

	registry  *Registry
	sections  *Sections
	table     *ProcessTable
	dashboard *Dashboard
	portal    Portal

	visible    bool
	prefs      config.Preferences
	localizers map[string]*format.Localizer
}

func NewSynchronizer(opts Options) *Synchronizer {
	s := &Synchronizer{
		settings:        opts.Settings,
		publisher:       opts.Publisher,
		onHeightChanged: opts.OnHeightChanged,
		now:             opts.Now,
		registry:        NewRegistry(),
		visible:         true,
		localizers:      make(map[string]*format.Localizer),
	}
	if s.settings == nil {
		s.settings = config.NewFileFromConfig(nil, "")
	}
	if s.now == nil {
		s.now = time.Now
	}

	prefs := s.settings.Preferences()
	s.prefs = prefs
	s.table = NewProcessTable(prefs.ProcessRowCount)
	s.dashboard = NewDashboard(prefs.ColorEnabled, func(g GaugeState) {
		s.publish(events.PanelGauge, g)
	})

	initial := []Section{
		{Kind: SectionDashboard, Height: DashboardHeight},
		{Kind: SectionDetails, Height: DetailsHeight},
		{Kind: SectionBattery, Height: BatteryHeight},
	}
	if prefs.ProcessRowCount > 0 {
		initial = append(initial, Section{Kind: SectionProcesses, Height: ProcessesHeight(prefs.ProcessRowCount)})
	}
	s.sections = NewSections(s.heightChanged, initial...)

	return s
}

func (s *Synchronizer) publish(name string, payload any) {
	if s.publisher != nil {
		s.publisher.Publish(name, payload)
	}
}

func (s *Synchronizer) heightChanged(h float64) {
	logrus.WithField("height", h).Debug("panel height changed")
	s.publish(events.PanelHeight, HeightEvent{Height: h})
	if s.onHeightChanged != nil {
		s.onHeightChanged(h)
	}
}

func (s *Synchronizer) localizer(lang string) *format.Localizer {
	l, ok := s.localizers[lang]
	if !ok {
		l = format.NewLocalizer(lang)
		s.localizers[lang] = l
	}
	return l
}

func (s *Synchronizer) env() Env {
	prefs := s.settings.Preferences()
	return Env{
		Preferences: prefs,
		Localizer:   s.localizer(prefs.Language),
		Now:         s.now(),
	}
}

// ApplyMeasurement runs one snapshot through the panel.
func (s *Synchronizer) ApplyMeasurement(snap powerinfo.Snapshot) Result {
	env := s.env()

	s.dashboard.SetValue(snap.Level, snap.LowPowerModeEnabled)

	updates, transition := ReconcileSnapshot(s.sections.IsMounted(SectionAdapter), snap, env)
	changed := s.registry.Apply(updates)
	if len(changed) > 0 {
		s.publish(events.PanelFields, FieldsEvent{Updates: changed})
	}

	switch transition {
	case TransitionMountAdapter:
		s.sections.Mount(SectionAdapter, AdapterHeight)
		s.publish(events.PanelSection, SectionEvent{Kind: SectionAdapter, Mounted: true, Height: AdapterHeight})
	case TransitionUnmountAdapter:
		s.sections.Unmount(SectionAdapter)
		s.publish(events.PanelSection, SectionEvent{Kind: SectionAdapter, Mounted: false})
	}
	if transition != TransitionNone {
		logrus.WithFields(logrus.Fields{
			"transition":  transition.String(),
			"powerSource": snap.PowerSource,
		}).Info("power source changed")
	}

	if p := Summarize(snap, env); p != s.portal {
		s.portal = p
		s.publish(events.PanelPortal, p)
	}

	logrus.WithFields(logrus.Fields{
		"changed":    len(changed),
		"transition": transition.String(),
	}).Trace("measurement applied")

	return Result{Changed: changed, Transition: transition}
}

// ApplyProcessList reconciles a ranked process list against the rows.
func (s *Synchronizer) ApplyProcessList(list []powerinfo.ProcessEntry) []RowUpdate {
	updates := s.table.Reconcile(list, s.visible)
	if len(updates) > 0 {
		s.publish(events.PanelRows, RowsEvent{Updates: updates})
	}
	return updates
}

// ApplyProcessCount resizes the process section to n rows. An unchanged
// count does nothing.
func (s *Synchronizer) ApplyProcessCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > config.MaxProcessRowCount {
		n = config.MaxProcessRowCount
	}
	if n == s.table.Capacity() {
		return
	}

	logrus.WithFields(logrus.Fields{
		"from": s.table.Capacity(),
		"to":   n,
	}).Debug("resizing process section")

	s.table.Reset(n)
	s.sections.Remount(SectionProcesses, ProcessesHeight(n), n > 0)
	s.publish(events.PanelSection, SectionEvent{Kind: SectionProcesses, Mounted: n > 0, Height: ProcessesHeight(n)})
	s.publish(events.PanelRows, RowsEvent{Updates: []RowUpdate{{Op: RowClear}}})
}

// ReloadProcessCount resizes the process section to the configured count.
func (s *Synchronizer) ReloadProcessCount() {
	s.ApplyProcessCount(s.settings.Preferences().ProcessRowCount)
}

// SetProcessCount persists a new row count and resizes the section.
func (s *Synchronizer) SetProcessCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > config.MaxProcessRowCount {
		n = config.MaxProcessRowCount
	}
	s.settings.SetProcessRowCount(n)
	if err := s.settings.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save process count")
	}
	s.ReloadProcessCount()
	s.syncPreferences()
}

// ReloadPreferences applies preferences changed behind the panel's back,
// such as a hand edited config file.
func (s *Synchronizer) ReloadPreferences() {
	prefs := s.settings.Preferences()
	s.ApplyProcessCount(prefs.ProcessRowCount)
	if s.dashboard.State().Colored != prefs.ColorEnabled {
		s.dashboard.SetColored(prefs.ColorEnabled)
	}
	s.syncPreferences()
}

// syncPreferences publishes the preferences when they differ from the
// last published ones.
func (s *Synchronizer) syncPreferences() {
	prefs := s.settings.Preferences()
	if prefs == s.prefs {
		return
	}
	s.prefs = prefs
	s.publish(events.PanelPreferences, prefs)
}

// SetVisible records whether the panel is on screen. Becoming visible again
// after being hidden forces the next process list to rebuild the rows.
func (s *Synchronizer) SetVisible(visible bool) {
	if visible == s.visible {
		return
	}
	s.visible = visible
	if visible && s.table.Initialized() {
		s.table.MarkStale()
	}
}

// ToggleColor flips the colour preference.
func (s *Synchronizer) ToggleColor() {
	s.SetColorEnabled(!s.settings.Preferences().ColorEnabled)
}

// SetColorEnabled persists the colour preference and redraws the gauge
// with the value read back from the settings.
func (s *Synchronizer) SetColorEnabled(enabled bool) {
	s.settings.SetColorEnabled(enabled)
	if err := s.settings.Save(); err != nil {
		logrus.WithError(err).Warn("failed to save colour preference")
	}
	got := s.settings.Preferences().ColorEnabled
	if got != enabled {
		logrus.WithFields(logrus.Fields{
			"requested": enabled,
			"effective": got,
		}).Warn("colour preference is pinned by BATTPANEL_COLOR")
	}
	s.dashboard.SetColored(got)
	s.syncPreferences()
}

func (s *Synchronizer) State() State {
	return State{
		Fields:               s.registry.Snapshot(),
		Sections:             s.sections.Mounted(),
		Height:               s.sections.Height(),
		Rows:                 s.table.Rows(),
		Gauge:                s.dashboard.State(),
		Portal:               s.portal,
		Visible:              s.visible,
		ProcessesInitialized: s.table.Initialized(),
		Preferences:          s.settings.Preferences(),
	}
}

// Generation counts structural changes made so far.
func (s *Synchronizer) Generation() int {
	return s.sections.Generation()
}
