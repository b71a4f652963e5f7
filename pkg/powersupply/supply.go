package powersupply

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/sirupsen/logrus"
)

// DefaultRoot is where Linux exposes power supplies.
const DefaultRoot = "/sys/class/power_supply"

// Attribute file names.
const (
	AttrType      = "type"
	AttrCapacity  = "capacity"
	AttrStatus    = "status"
	AttrEnergyNow = "energy_now"
	AttrPowerNow  = "power_now"
)

// TypeBattery is the value of the type attribute for batteries.
const TypeBattery = "Battery"

// Supply is one entry under the power supply root. Every read goes to the
// filesystem; nothing is cached.
type Supply struct {
	Path string
}

// New returns a Supply rooted at path.
func New(path string) Supply {
	return Supply{Path: path}
}

// Name returns the last path segment, e.g. BAT0.
func (s Supply) Name() string {
	return filepath.Base(s.Path)
}

// ReadString reads a text attribute.
func (s Supply) ReadString(attr string) (string, error) {
	return readAttr(s, attr, func(v string) (string, error) {
		return v, nil
	})
}

// ReadInt8 reads a small integer attribute such as capacity.
func (s Supply) ReadInt8(attr string) (int8, error) {
	return readAttr(s, attr, func(v string) (int8, error) {
		i, err := strconv.ParseInt(v, 10, 8)
		return int8(i), err
	})
}

// ReadFloat reads a numeric attribute such as energy_now. NaN and infinities
// are parse failures.
func (s Supply) ReadFloat(attr string) (float64, error) {
	return readAttr(s, attr, func(v string) (float64, error) {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, err
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("non-finite value %q", v)
		}
		return f, nil
	})
}

// IsBattery reports whether the type attribute is exactly "Battery".
func (s Supply) IsBattery() (bool, error) {
	t, err := s.ReadString(AttrType)
	if err != nil {
		return false, err
	}
	return t == TypeBattery, nil
}

// Capacity returns the charge in percent. It is not range checked.
func (s Supply) Capacity() (int8, error) {
	return s.ReadInt8(AttrCapacity)
}

// Status returns the charging status, e.g. Discharging.
func (s Supply) Status() (string, error) {
	return s.ReadString(AttrStatus)
}

// EnergyNow returns the stored energy in µWh.
func (s Supply) EnergyNow() (float64, error) {
	return s.ReadFloat(AttrEnergyNow)
}

// PowerNow returns the instantaneous draw or charge rate in µW.
func (s Supply) PowerNow() (float64, error) {
	return s.ReadFloat(AttrPowerNow)
}

// readAttr reads <path>/<attr>, trims trailing whitespace and hands the
// remainder to parse.
func readAttr[T any](s Supply, attr string, parse func(string) (T, error)) (T, error) {
	var zero T
	p := filepath.Join(s.Path, attr)

	logrus.WithFields(logrus.Fields{
		"supply": s.Name(),
		"attr":   attr,
	}).Trace("reading power supply attribute")

	b, err := os.ReadFile(p)
	if err != nil {
		kind := KindIO
		if errors.Is(err, fs.ErrNotExist) {
			kind = KindNotFound
		}
		return zero, &Error{Kind: kind, Attr: attr, Path: p, Err: err}
	}

	raw := strings.TrimRightFunc(string(b), unicode.IsSpace)
	v, err := parse(raw)
	if err != nil {
		return zero, &Error{Kind: KindParse, Attr: attr, Path: p, Err: err}
	}

	logrus.WithFields(logrus.Fields{
		"supply": s.Name(),
		"attr":   attr,
		"val":    raw,
	}).Trace("read power supply attribute")

	return v, nil
}
