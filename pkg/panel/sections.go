package panel

import (
	"fmt"
	"sort"
)

// SectionKind names a structural block of the panel. The numeric order is
// the mount order.
type SectionKind int

const (
	SectionDashboard SectionKind = iota
	SectionDetails
	SectionBattery
	SectionAdapter
	SectionProcesses
)

var sectionNames = map[SectionKind]string{
	SectionDashboard: "dashboard",
	SectionDetails:   "details",
	SectionBattery:   "battery",
	SectionAdapter:   "adapter",
	SectionProcesses: "processes",
}

var sectionTitles = map[SectionKind]string{
	SectionDashboard: "Dashboard",
	SectionDetails:   "Details",
	SectionBattery:   "Battery",
	SectionAdapter:   "Power adapter",
	SectionProcesses: "Top processes",
}

func (k SectionKind) String() string {
	if s, ok := sectionNames[k]; ok {
		return s
	}
	return fmt.Sprintf("section(%d)", int(k))
}

// Title is the localization key of the section header.
func (k SectionKind) Title() string {
	return sectionTitles[k]
}

func (k SectionKind) MarshalText() ([]byte, error) {
	if _, ok := sectionNames[k]; !ok {
		return nil, fmt.Errorf("unknown section %d", int(k))
	}
	return []byte(k.String()), nil
}

func (k *SectionKind) UnmarshalText(b []byte) error {
	for kind, name := range sectionNames {
		if name == string(b) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown section %q", string(b))
}

// Layout constants, in points.
const (
	RowHeight       = 22.0
	SeparatorHeight = 30.0

	DashboardHeight = 90.0
	DetailsHeight   = RowHeight*4 + SeparatorHeight
	BatteryHeight   = RowHeight*7 + SeparatorHeight
	AdapterHeight   = RowHeight*4 + SeparatorHeight
)

// ProcessesHeight is the height of a process section with n rows. An empty
// section has no header either.
func ProcessesHeight(rows int) float64 {
	if rows <= 0 {
		return 0
	}
	return RowHeight*float64(rows) + SeparatorHeight + RowHeight
}

type Section struct {
	Kind   SectionKind `json:"kind"`
	Height float64     `json:"height"`
}

// Sections keeps the mounted sections in mount order and caches their total
// height. onHeightChanged runs once for each structural change that moves
// the total.
type Sections struct {
	mounted         []Section
	height          float64
	generation      int
	onHeightChanged func(height float64)
}

// NewSections mounts initial as a single structural change.
func NewSections(onHeightChanged func(height float64), initial ...Section) *Sections {
	s := &Sections{onHeightChanged: onHeightChanged}
	for _, sec := range initial {
		s.insert(sec)
	}
	if len(initial) > 0 {
		s.generation++
		s.recalculate()
	}
	return s
}

func (s *Sections) index(kind SectionKind) int {
	for i, sec := range s.mounted {
		if sec.Kind == kind {
			return i
		}
	}
	return -1
}

func (s *Sections) insert(sec Section) {
	if i := s.index(sec.Kind); i >= 0 {
		s.mounted[i] = sec
		return
	}
	s.mounted = append(s.mounted, sec)
	sort.SliceStable(s.mounted, func(i, j int) bool {
		return s.mounted[i].Kind < s.mounted[j].Kind
	})
}

func (s *Sections) remove(kind SectionKind) bool {
	i := s.index(kind)
	if i < 0 {
		return false
	}
	s.mounted = append(s.mounted[:i], s.mounted[i+1:]...)
	return true
}

// Mount adds a section at its fixed position. It reports false when the
// section is already mounted.
func (s *Sections) Mount(kind SectionKind, height float64) bool {
	if s.index(kind) >= 0 {
		return false
	}
	s.insert(Section{Kind: kind, Height: height})
	s.generation++
	s.recalculate()
	return true
}

// Unmount removes a section. It reports false when it was not mounted.
func (s *Sections) Unmount(kind SectionKind) bool {
	if !s.remove(kind) {
		return false
	}
	s.generation++
	s.recalculate()
	return true
}

// Remount replaces a section in one structural change. With mount false
// the section is only removed.
func (s *Sections) Remount(kind SectionKind, height float64, mount bool) {
	s.remove(kind)
	if mount {
		s.insert(Section{Kind: kind, Height: height})
	}
	s.generation++
	s.recalculate()
}

func (s *Sections) IsMounted(kind SectionKind) bool {
	return s.index(kind) >= 0
}

func (s *Sections) Section(kind SectionKind) (Section, bool) {
	if i := s.index(kind); i >= 0 {
		return s.mounted[i], true
	}
	return Section{}, false
}

// Mounted returns the mounted sections in order.
func (s *Sections) Mounted() []Section {
	return append([]Section(nil), s.mounted...)
}

func (s *Sections) Height() float64 {
	return s.height
}

// Generation counts structural changes so far.
func (s *Sections) Generation() int {
	return s.generation
}

func (s *Sections) recalculate() {
	var h float64
	for _, sec := range s.mounted {
		h += sec.Height
	}
	if h == s.height {
		return
	}
	s.height = h
	if s.onHeightChanged != nil {
		s.onHeightChanged(h)
	}
}
