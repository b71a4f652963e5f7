package main

import (
	"fmt"

	"github.com/distatus/battery"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/powerstat/powerstat/pkg/client"
	"github.com/powerstat/powerstat/pkg/daemon"
	"github.com/powerstat/powerstat/pkg/health"
	"github.com/powerstat/powerstat/pkg/version"
)

var (
	// allowNonRootAccess makes the daemon socket world accessible.
	allowNonRootAccess = false
)

func NewVersionCommand() *cobra.Command {
	remote := false

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", version.Version, version.GitCommit)
			if !remote {
				return nil
			}

			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			v, err := client.NewClient(conf.DaemonSocket()).GetVersion()
			if err != nil {
				return fmt.Errorf("failed to get daemon version: %w", err)
			}
			fmt.Fprintf(out, "daemon: %s\n", v)
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "also print the version of the running daemon")

	return cmd
}

func NewHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "health",
		GroupID: gBasic,
		Short:   "Print battery wear as reported by the OS battery library",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			hs, err := health.Collect(battery.GetAll)
			if err != nil {
				return err
			}
			if len(hs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No batteries found.")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), bold("Battery health:"))
			return health.Render(cmd.OutOrStdout(), hs)
		},
	}
}

func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		GroupID: gAdvanced,
		Short:   "Serve battery reports over a unix socket",
		Long: `Serve battery reports as JSON over HTTP on a unix socket.

Every request reads the power supply root afresh. Send SIGHUP to reload the
config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
			}).Info("powerstat daemon starting")

			if err := daemon.Run(conf, reloadConfig(cmd, conf), conf.DaemonSocket(), allowNonRootAccess); err != nil {
				return fmt.Errorf("daemon failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&allowNonRootAccess, "allow-non-root-access", false,
		"Allow non-root users to access the daemon socket.")

	return cmd
}
