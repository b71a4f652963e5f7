package config

import "github.com/sirupsen/logrus"

type Config interface {
	PowerSupplyRoot() string
	SkipUnreadable() bool
	WatchSchedule() string
	DaemonSocket() string

	SetPowerSupplyRoot(string)
	SetSkipUnreadable(bool)
	SetWatchSchedule(string)
	SetDaemonSocket(string)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error

	LogrusFields() logrus.Fields
}
