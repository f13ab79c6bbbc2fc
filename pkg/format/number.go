package format

import (
	"fmt"
	"math"
	"strconv"
)

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// Number renders v with the shortest representation that round-trips,
// so 6.17 stays "6.17" and 12 is "12".
func Number(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Percent renders a [0,1] ratio as a whole percentage, e.g. 0.736 -> "74%".
func Percent(ratio float64) string {
	return fmt.Sprintf("%d%%", int(math.Round(math.Abs(ratio)*100)))
}

// Temperature units accepted by Temperature.
const (
	Celsius    = "celsius"
	Fahrenheit = "fahrenheit"
)

// Temperature renders a sensor reading in degrees Celsius in the
// requested unit, rounded to a whole degree.
func Temperature(celsius float64, unit string) string {
	if unit == Fahrenheit {
		return fmt.Sprintf("%d°F", int(math.Round(celsius*9/5+32)))
	}
	return fmt.Sprintf("%d°C", int(math.Round(celsius)))
}
