package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/powerstat/powerstat/pkg/config"
	"github.com/powerstat/powerstat/pkg/powersupply"
)

// loadConfig reads the config file and applies flags the user set
// explicitly on top of it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	conf, err := config.NewFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	applyFlags(cmd, conf)
	logrus.WithFields(conf.LogrusFields()).Debug("config loaded")

	return conf, nil
}

// reloadConfig returns a function that rereads the config file into conf and
// reapplies the explicit flags, so they keep precedence after a reload.
func reloadConfig(cmd *cobra.Command, conf config.Config) func() error {
	return func() error {
		if err := conf.Load(); err != nil {
			return err
		}
		applyFlags(cmd, conf)
		return nil
	}
}

func applyFlags(cmd *cobra.Command, conf config.Config) {
	flags := cmd.Flags()
	if flags.Changed("root") {
		conf.SetPowerSupplyRoot(rootPath)
	}
	if flags.Changed("skip-unreadable") {
		conf.SetSkipUnreadable(skipUnreadable)
	}
	if flags.Changed("daemon-socket") {
		conf.SetDaemonSocket(unixSocketPath)
	}
}

func collectOptions(conf config.Config) powersupply.Options {
	return powersupply.Options{SkipUnreadable: conf.SkipUnreadable()}
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
