package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/powerstat/powerstat/pkg/client"
	"github.com/powerstat/powerstat/pkg/report"
)

var (
	statusJSON      = false
	statusRemote    = false
	statusRuntime   = false
	statusBatteries = false
)

// fetchReport reads the report locally, or from the daemon when remote is set.
func fetchReport(cmd *cobra.Command, remote bool) (*report.Report, error) {
	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if remote {
		r, err := client.NewClient(conf.DaemonSocket()).GetReport()
		if err != nil {
			return nil, fmt.Errorf("failed to get report from daemon: %w", err)
		}
		return r, nil
	}

	return report.Collect(conf.PowerSupplyRoot(), collectOptions(conf))
}

// fetchRuntime reads only the runtime summary.
func fetchRuntime(cmd *cobra.Command, remote bool) (*report.Runtime, error) {
	if !remote {
		r, err := fetchReport(cmd, false)
		if err != nil {
			return nil, err
		}
		return &r.Runtime, nil
	}

	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	rt, err := client.NewClient(conf.DaemonSocket()).GetRuntime()
	if err != nil {
		return nil, fmt.Errorf("failed to get runtime from daemon: %w", err)
	}
	return rt, nil
}

// fetchBatteries reads only the per-battery readings.
func fetchBatteries(cmd *cobra.Command, remote bool) ([]report.Battery, error) {
	if !remote {
		r, err := fetchReport(cmd, false)
		if err != nil {
			return nil, err
		}
		return r.Batteries, nil
	}

	conf, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	bats, err := client.NewClient(conf.DaemonSocket()).GetBatteries()
	if err != nil {
		return nil, fmt.Errorf("failed to get batteries from daemon: %w", err)
	}
	return bats, nil
}

func runReport(cmd *cobra.Command, remote bool) error {
	r, err := fetchReport(cmd, remote)
	if err != nil {
		return err
	}
	return r.Render(cmd.OutOrStdout())
}

func runStatus(cmd *cobra.Command, out io.Writer) error {
	switch {
	case statusRuntime:
		rt, err := fetchRuntime(cmd, statusRemote)
		if err != nil {
			return err
		}
		if statusJSON {
			return report.WriteJSON(out, rt)
		}
		return rt.Render(out)
	case statusBatteries:
		bats, err := fetchBatteries(cmd, statusRemote)
		if err != nil {
			return err
		}
		if statusJSON {
			return report.WriteJSON(out, bats)
		}
		return report.RenderBatteries(out, bats)
	case statusJSON:
		r, err := fetchReport(cmd, statusRemote)
		if err != nil {
			return err
		}
		return r.EncodeJSON(out)
	default:
		return runReport(cmd, statusRemote)
	}
}

func NewStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		GroupID: gBasic,
		Short:   "Print battery charge and estimated runtime",
		Long: `Print one line per battery with its charge and status, followed by the
combined estimated runtime. The runtime is "unknown" when no battery is present
or the batteries report no power draw.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.BoolVar(&statusJSON, "json", false, "print the report as JSON")
	f.BoolVar(&statusRemote, "remote", false, "read the report from a running powerstat daemon")
	f.BoolVar(&statusRuntime, "runtime", false, "print only the estimated runtime")
	f.BoolVar(&statusBatteries, "batteries", false, "print only the battery lines")
	cmd.MarkFlagsMutuallyExclusive("runtime", "batteries")

	return cmd
}
