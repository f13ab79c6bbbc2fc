package panel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatteryColor(t *testing.T) {
	tests := []struct {
		name     string
		level    float64
		colored  bool
		lowPower bool
		want     FillColor
	}{
		{"low power mode", 0.9, true, true, FillYellow},
		{"low power mode, monochrome", 0.1, false, true, FillYellow},
		{"critical", 0.1, true, false, FillRed},
		{"critical, monochrome", 0.1, false, false, FillRed},
		{"low", 0.3, true, false, FillOrange},
		{"low, monochrome", 0.3, false, false, FillMonochrome},
		{"good", 0.4, true, false, FillGreen},
		{"good, monochrome", 0.8, false, false, FillMonochrome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BatteryColor(tt.level, tt.colored, tt.lowPower))
		})
	}
}

func TestDashboardSetValue(t *testing.T) {
	var redraws []GaugeState
	d := NewDashboard(true, func(g GaugeState) { redraws = append(redraws, g) })

	d.SetValue(-0.5, false)
	d.SetValue(0.5, false)
	assert.Len(t, redraws, 1)
	assert.Equal(t, GaugeState{Level: 0.5, Colored: true, Fill: FillGreen}, d.State())

	d.SetValue(0.5, true)
	assert.Len(t, redraws, 2)
	assert.Equal(t, FillYellow, redraws[1].Fill)

	d.SetColored(true)
	assert.Len(t, redraws, 3)
}

func TestDashboardFirstValueDraws(t *testing.T) {
	redraws := 0
	d := NewDashboard(false, func(GaugeState) { redraws++ })
	d.SetValue(0, false)
	d.SetValue(0, false)
	assert.Equal(t, 1, redraws)
}
