package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/powerstat/powerstat/pkg/client"
	"github.com/powerstat/powerstat/pkg/powersupply"
)

var (
	logLevel       = "info"
	configPath     = "/etc/powerstat.json"
	rootPath       = powersupply.DefaultRoot
	skipUnreadable = false
	unixSocketPath = "/var/run/powerstat.sock"
)

var (
	gBasic        = "Basic:"
	gAdvanced     = "Advanced:"
	commandGroups = []string{
		gBasic,
		gAdvanced,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(w io.Writer, err error) {
	switch {
	case errors.Is(err, powersupply.ErrNotFound):
		fmt.Fprintln(w, "\nA power supply attribute is missing.")
		fmt.Fprintln(w, "  - Some batteries only report charge_now/current_now instead of energy_now/power_now")
		fmt.Fprintln(w, "  - Use --skip-unreadable to ignore entries without a readable type")
	case errors.Is(err, powersupply.ErrParse):
		fmt.Fprintln(w, "\nA power supply attribute has an unexpected value.")
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(w, "\nError: powerstat daemon is not running")
		fmt.Fprintln(w, "Start it with 'powerstat serve' or drop the --remote flag.")
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(w, "\nError: Permission Denied")
		fmt.Fprintln(w, "  - Try running the command again with 'sudo'")
		fmt.Fprintln(w, "  - Or restart the daemon with the '--allow-non-root-access' flag")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(os.Stderr, err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "powerstat",
		Short: "powerstat reports battery charge and estimated runtime",
		Long: `powerstat reports battery charge and estimated runtime.

Without a subcommand it lists every battery under the power supply root with
its charge and status, followed by the combined estimated runtime.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, false)
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "config", configPath, "config file path (.json or .toml)")
	globalFlags.StringVar(&rootPath, "root", powersupply.DefaultRoot, "power supply root directory")
	globalFlags.BoolVar(&skipUnreadable, "skip-unreadable", false, "ignore power supplies whose type cannot be read instead of failing")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "powerstat daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewStatusCommand(),
		NewHealthCommand(),
		NewWatchCommand(),
		NewServeCommand(),
		NewVersionCommand(),
	)

	return cmd
}
