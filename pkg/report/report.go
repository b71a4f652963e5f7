package report

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/powerstat/powerstat/pkg/estimate"
	"github.com/powerstat/powerstat/pkg/powersupply"
)

// ErrOverflow is returned when the summed readings do not fit a float64.
var ErrOverflow = errors.New("combined battery readings overflow")

// RuntimeLabel prefixes the summary line.
const RuntimeLabel = "Estimated runtime (all batteries)"

// Battery is one battery's readings at collection time.
type Battery struct {
	Name            string  `json:"name"`
	CapacityPercent int8    `json:"capacityPercent"`
	Status          string  `json:"status"`
	EnergyNowUWh    float64 `json:"energyNowUWh"`
	PowerNowUW      float64 `json:"powerNowUW"`
}

// Runtime summarizes the combined estimate. Hours is nil when unknown.
type Runtime struct {
	TotalEnergyUWh float64  `json:"totalEnergyUWh"`
	TotalPowerUW   float64  `json:"totalPowerUW"`
	Known          bool     `json:"known"`
	Hours          *float64 `json:"hours"`
	Formatted      string   `json:"formatted"`
}

// Report is a full snapshot of all batteries.
type Report struct {
	Batteries []Battery `json:"batteries"`
	Runtime   Runtime   `json:"runtime"`
}

// Collect reads every battery under root. The first failed read aborts
// collection, so a returned Report is always complete.
func Collect(root string, opts powersupply.Options) (*Report, error) {
	supplies, err := powersupply.Batteries(root, opts)
	if err != nil {
		return nil, err
	}

	r := &Report{Batteries: make([]Battery, 0, len(supplies))}
	readings := make([]estimate.Reading, 0, len(supplies))
	for _, s := range supplies {
		b, err := readBattery(s)
		if err != nil {
			return nil, err
		}
		r.Batteries = append(r.Batteries, b)
		readings = append(readings, estimate.Reading{
			EnergyUWh: b.EnergyNowUWh,
			PowerUW:   b.PowerNowUW,
		})
	}

	e := estimate.Combine(readings)
	if math.IsInf(e.EnergyUWh, 0) || math.IsInf(e.PowerUW, 0) {
		return nil, ErrOverflow
	}
	r.Runtime = newRuntime(e)

	logrus.WithFields(logrus.Fields{
		"root":      root,
		"batteries": len(r.Batteries),
		"runtime":   r.Runtime.Formatted,
	}).Debug("collected battery report")

	return r, nil
}

func readBattery(s powersupply.Supply) (Battery, error) {
	b := Battery{Name: s.Name()}

	var err error
	if b.CapacityPercent, err = s.Capacity(); err != nil {
		return b, err
	}
	if b.Status, err = s.Status(); err != nil {
		return b, err
	}
	if b.EnergyNowUWh, err = s.EnergyNow(); err != nil {
		return b, err
	}
	if b.PowerNowUW, err = s.PowerNow(); err != nil {
		return b, err
	}

	return b, nil
}

func newRuntime(e estimate.Estimate) Runtime {
	rt := Runtime{
		TotalEnergyUWh: e.EnergyUWh,
		TotalPowerUW:   e.PowerUW,
		Formatted:      e.String(),
	}
	if _, ok := e.Duration(); ok {
		h := e.Hours()
		rt.Known = true
		rt.Hours = &h
	}
	return rt
}

// Estimate rebuilds the combined estimate from the totals.
func (r *Report) Estimate() estimate.Estimate {
	return estimate.Estimate{
		EnergyUWh: r.Runtime.TotalEnergyUWh,
		PowerUW:   r.Runtime.TotalPowerUW,
	}
}

// Render writes one line per battery followed by the runtime summary.
func (r *Report) Render(w io.Writer) error {
	if err := RenderBatteries(w, r.Batteries); err != nil {
		return err
	}
	return renderRuntime(w, r.Estimate().String())
}

// RenderBatteries writes one line per battery.
func RenderBatteries(w io.Writer, bats []Battery) error {
	for _, b := range bats {
		if _, err := fmt.Fprintf(w, "%s: %d%% (%s)\n", b.Name, b.CapacityPercent, b.Status); err != nil {
			return err
		}
	}
	return nil
}

// Render writes the runtime summary line.
func (rt Runtime) Render(w io.Writer) error {
	return renderRuntime(w, rt.Formatted)
}

func renderRuntime(w io.Writer, formatted string) error {
	_, err := fmt.Fprintf(w, "%s: %s\n", RuntimeLabel, formatted)
	return err
}
