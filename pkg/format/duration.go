package format

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout renders a medium date with a short time.
const TimestampLayout = "Jan 2, 2006 at 3:04 PM"

// Duration renders seconds as hours and minutes. The short style yields
// "2h 5min", the long style "2 hours 5 minutes". The hour part is omitted
// when it is zero.
func Duration(seconds float64, short bool) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60

	if short {
		if h == 0 {
			return fmt.Sprintf("%dmin", m)
		}
		return fmt.Sprintf("%dh %dmin", h, m)
	}

	if h == 0 {
		return plural(m, "minute")
	}
	return plural(h, "hour") + " " + plural(m, "minute")
}

// Elapsed renders the time passed between from and to using at most two
// adjacent units among days, hours and minutes, e.g. "1 day, 3 hours".
// Smaller units are dropped, not rounded, and a zero second unit is
// omitted. ok is false when to is before from.
func Elapsed(from, to time.Time) (text string, ok bool) {
	d := to.Sub(from)
	if d < 0 {
		return "", false
	}

	minutes := int(d / time.Minute)
	units := []struct {
		n    int
		name string
	}{
		{minutes / (24 * 60), "day"},
		{(minutes % (24 * 60)) / 60, "hour"},
		{minutes % 60, "minute"},
	}

	lead := len(units) - 1
	for i, u := range units {
		if u.n != 0 {
			lead = i
			break
		}
	}

	parts := []string{plural(units[lead].n, units[lead].name)}
	if next := lead + 1; next < len(units) && units[next].n != 0 {
		parts = append(parts, plural(units[next].n, units[next].name))
	}
	return strings.Join(parts, ", "), true
}

// Timestamp renders t as a medium date and short time in t's location.
func Timestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
