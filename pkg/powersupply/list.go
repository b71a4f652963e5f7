package powersupply

import (
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Options controls how Batteries filters entries.
type Options struct {
	// SkipUnreadable excludes entries whose type cannot be read instead of
	// failing the whole listing.
	SkipUnreadable bool
}

// List returns every direct child of root, ordered by name.
func List(root string) ([]Supply, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to list power supplies in %s", root)
	}

	supplies := make([]Supply, 0, len(entries))
	for _, e := range entries {
		supplies = append(supplies, New(filepath.Join(root, e.Name())))
	}

	return supplies, nil
}

// Batteries lists root and keeps the entries whose type is Battery.
func Batteries(root string, opts Options) ([]Supply, error) {
	supplies, err := List(root)
	if err != nil {
		return nil, err
	}

	var batteries []Supply
	for _, s := range supplies {
		ok, err := s.IsBattery()
		if err != nil {
			if !opts.SkipUnreadable {
				return nil, err
			}
			logrus.WithField("supply", s.Name()).Warnf("skipping unreadable power supply: %v", err)
			continue
		}
		if !ok {
			logrus.WithField("supply", s.Name()).Debug("not a battery")
			continue
		}
		batteries = append(batteries, s)
	}

	return batteries, nil
}
