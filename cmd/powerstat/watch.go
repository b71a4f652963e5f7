package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/powerstat/powerstat/pkg/report"
	"github.com/powerstat/powerstat/pkg/scheduler"
)

var watchSchedule = ""

func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: gBasic,
		Short:   "Print the report repeatedly on a schedule",
		Long: `Print the report now and then again on every tick of a cron schedule.

The schedule accepts standard cron expressions (seconds optional) and
descriptors such as "@every 30s". The first failed read stops the watch.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("schedule") {
				conf.SetWatchSchedule(watchSchedule)
			}

			root := conf.PowerSupplyRoot()
			opts := collectOptions(conf)
			out := cmd.OutOrStdout()

			printReport := func(separate bool) error {
				r, err := report.Collect(root, opts)
				if err != nil {
					return err
				}
				if separate {
					fmt.Fprintln(out)
				}
				return r.Render(out)
			}

			if err := printReport(false); err != nil {
				return err
			}

			errCh := make(chan error, 1)
			s := scheduler.NewScheduler(func() error {
				return printReport(true)
			}, func(err error) {
				select {
				case errCh <- err:
				default:
				}
			})
			if err := s.Schedule(conf.WatchSchedule()); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			s.Start()
			defer s.Stop()

			next, _ := s.Status()
			logrus.WithFields(logrus.Fields{
				"schedule": conf.WatchSchedule(),
				"next":     next.Format(time.DateTime),
			}).Debug("watching batteries")

			select {
			case <-ctx.Done():
				return nil
			case err := <-errCh:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&watchSchedule, "schedule", "", `cron schedule, e.g. "@every 30s" (default from config)`)

	return cmd
}
