// Package estimate derives a combined remaining runtime from instantaneous
// battery energy and power readings.
package estimate

import (
	"fmt"
	"math"
	"time"
)

// Unknown is rendered when no meaningful runtime can be derived.
const Unknown = "unknown"

// Reading is a single battery's instantaneous energy (µWh) and power (µW).
type Reading struct {
	EnergyUWh float64
	PowerUW   float64
}

// Estimate holds the summed readings of all batteries.
type Estimate struct {
	EnergyUWh float64
	PowerUW   float64
}

// Combine sums energy and power across readings. The batteries are assumed
// to be charging or discharging together.
func Combine(readings []Reading) Estimate {
	var e Estimate
	for _, r := range readings {
		e.EnergyUWh += r.EnergyUWh
		e.PowerUW += r.PowerUW
	}
	return e
}

// Hours returns total energy over total power. It may be NaN or ±Inf.
func (e Estimate) Hours() float64 {
	return e.EnergyUWh / e.PowerUW
}

// Duration converts the estimate to a duration truncated toward zero. ok is
// false for NaN (no batteries), infinite (no draw), negative, or
// unrepresentably long estimates.
func (e Estimate) Duration() (d time.Duration, ok bool) {
	ns := e.EnergyUWh * float64(time.Hour) / e.PowerUW
	if math.IsNaN(ns) || math.IsInf(ns, 0) || ns < 0 || ns >= math.MaxInt64 {
		return 0, false
	}
	return time.Duration(ns), true
}

// String renders the estimate as <H>h<M>m, or Unknown.
func (e Estimate) String() string {
	d, ok := e.Duration()
	if !ok {
		return Unknown
	}
	return Format(d)
}

// Format renders d as <H>h<M>m. Leftover seconds are dropped, not rounded.
func Format(d time.Duration) string {
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	return fmt.Sprintf("%dh%dm", h, m)
}
