// Package powersupplytest builds fake power supply trees for tests.
package powersupplytest

import (
	"os"
	"path/filepath"
	"testing"
)

// Battery holds the raw attribute contents of a fake battery. Values are
// written verbatim, so callers control trailing newlines.
type Battery struct {
	Name      string
	Type      string
	Capacity  string
	Status    string
	EnergyNow string
	PowerNow  string
}

// WriteFile writes contents to path, creating parent directories.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// Write creates b under root. Empty attributes are not written, which lets
// tests simulate missing files.
func Write(t testing.TB, root string, b Battery) {
	t.Helper()

	dir := filepath.Join(root, b.Name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}

	attrs := map[string]string{
		"type":       b.Type,
		"capacity":   b.Capacity,
		"status":     b.Status,
		"energy_now": b.EnergyNow,
		"power_now":  b.PowerNow,
	}
	for name, v := range attrs {
		if v == "" {
			continue
		}
		WriteFile(t, filepath.Join(dir, name), v)
	}
}

// TwoBatteries writes BAT0, BAT1 and a mains adapter AC under a new
// temporary root and returns it. Combined runtime is 2h48m.
func TwoBatteries(t testing.TB) string {
	t.Helper()

	root := t.TempDir()
	Write(t, root, Battery{
		Name:      "BAT0",
		Type:      "Battery\n",
		Capacity:  "50\n",
		Status:    "Discharging\n",
		EnergyNow: "30000000\n",
		PowerNow:  "15000000\n",
	})
	Write(t, root, Battery{
		Name:      "BAT1",
		Type:      "Battery\n",
		Capacity:  "80\n",
		Status:    "Discharging\n",
		EnergyNow: "40000000\n",
		PowerNow:  "10000000\n",
	})
	Write(t, root, Battery{
		Name: "AC",
		Type: "Mains\n",
	})
	return root
}

// Expected is the report rendered for TwoBatteries.
const Expected = `BAT0: 50% (Discharging)
BAT1: 80% (Discharging)
Estimated runtime (all batteries): 2h48m
`
