package panel

import (
	"github.com/charlie0129/battpanel/pkg/format"
	"github.com/charlie0129/battpanel/pkg/powerinfo"
)

// Portal is the compact summary shown in menus and one-line status output.
type Portal struct {
	Level    string `json:"level"`
	Time     string `json:"time"`
	Charging string `json:"charging"`
}

// Summarize builds the compact summary of s. Time is empty when no estimate
// is available and Charging is empty on battery power.
func Summarize(s powerinfo.Snapshot, env Env) Portal {
	p := Portal{Level: format.Percent(s.Level)}

	if m := relevantMinutes(s); m > 0 && !s.IsCharged {
		p.Time = format.Duration(float64(m*60), env.Preferences.ShortTime())
	}

	if !s.IsBatteryPowered {
		p.Charging = env.tr("Connected")
		if s.IsCharging {
			p.Charging = env.tr("Charging")
		}
	}

	return p
}
