package panel

import "math"

// Gauge is the dashboard graphic driven by the panel.
type Gauge interface {
	SetValue(level float64, lowPowerMode bool)
}

type FillColor string

const (
	FillMonochrome FillColor = "monochrome"
	FillGreen      FillColor = "green"
	FillOrange     FillColor = "orange"
	FillRed        FillColor = "red"
	FillYellow     FillColor = "yellow"
)

// BatteryColor picks the gauge fill for a charge level.
func BatteryColor(level float64, colored, lowPowerMode bool) FillColor {
	switch {
	case lowPowerMode:
		return FillYellow
	case level < 0.2:
		return FillRed
	case !colored:
		return FillMonochrome
	case level < 0.4:
		return FillOrange
	default:
		return FillGreen
	}
}

type GaugeState struct {
	Level        float64   `json:"level"`
	LowPowerMode bool      `json:"lowPowerMode"`
	Colored      bool      `json:"colored"`
	Fill         FillColor `json:"fill"`
}

var _ Gauge = &Dashboard{}

// Dashboard holds the gauge state and asks for a redraw only when it changes.
type Dashboard struct {
	state  GaugeState
	drawn  bool
	redraw func(GaugeState)
}

func NewDashboard(colored bool, redraw func(GaugeState)) *Dashboard {
	d := &Dashboard{redraw: redraw}
	d.state.Colored = colored
	d.state.Fill = BatteryColor(0, colored, false)
	return d
}

func (d *Dashboard) SetValue(level float64, lowPowerMode bool) {
	level = math.Abs(level)
	if d.drawn && level == d.state.Level && lowPowerMode == d.state.LowPowerMode {
		return
	}
	d.state.Level = level
	d.state.LowPowerMode = lowPowerMode
	d.update()
}

// SetColored always requests a redraw, even when the flag is unchanged.
func (d *Dashboard) SetColored(colored bool) {
	d.state.Colored = colored
	d.update()
}

func (d *Dashboard) State() GaugeState {
	return d.state
}

func (d *Dashboard) update() {
	d.state.Fill = BatteryColor(d.state.Level, d.state.Colored, d.state.LowPowerMode)
	d.drawn = true
	if d.redraw != nil {
		d.redraw(d.state)
	}
}
