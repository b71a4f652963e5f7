// Package health reports battery wear using the platform battery library.
package health

import (
	"fmt"
	"io"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
)

// Health is the wear summary of one battery.
type Health struct {
	Index int
	State battery.State
	// FullPercent is full charge capacity as a percentage of design
	// capacity. Valid only when Known is set.
	FullPercent   float64
	ChargePercent float64
	Known         bool
}

// GetterFunc matches battery.GetAll.
type GetterFunc func() ([]*battery.Battery, error)

// Collect queries get and summarizes every battery it returns. Batteries the
// library could not read at all are skipped with a warning.
func Collect(get GetterFunc) ([]Health, error) {
	bats, err := get()
	if err != nil {
		if len(bats) == 0 {
			return nil, fmt.Errorf("failed to get batteries: %w", err)
		}
		logrus.Warnf("some battery values could not be read: %v", err)
	}

	hs := make([]Health, 0, len(bats))
	for i, b := range bats {
		if b == nil {
			logrus.WithField("index", i).Warn("skipping unreadable battery")
			continue
		}
		hs = append(hs, FromBattery(i, b))
	}
	return hs, nil
}

// FromBattery computes wear for b.
func FromBattery(index int, b *battery.Battery) Health {
	h := Health{Index: index, State: b.State}
	if b.Design > 0 {
		h.FullPercent = b.Full / b.Design * 100
		h.Known = true
	}
	if b.Full > 0 {
		h.ChargePercent = b.Current / b.Full * 100
	}
	return h
}

// Render writes one line per battery.
func Render(w io.Writer, hs []Health) error {
	for _, h := range hs {
		wear := "unknown"
		if h.Known {
			wear = fmt.Sprintf("%.1f%%", h.FullPercent)
		}
		if _, err := fmt.Fprintf(w, "battery %d: health %s, charge %.1f%% (%s)\n", h.Index, wear, h.ChargePercent, h.State); err != nil {
			return err
		}
	}
	return nil
}
