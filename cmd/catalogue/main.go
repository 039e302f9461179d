package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/Sokol111/device-catalogue-service/internal/device"
	"github.com/Sokol111/device-catalogue-service/internal/livepublisher"
	"github.com/Sokol111/device-catalogue-service/internal/outbox"
	"github.com/Sokol111/device-catalogue-service/internal/reconcile"
	"github.com/Sokol111/device-catalogue-service/pkg/core"
	"github.com/Sokol111/device-catalogue-service/pkg/modules"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "catalogue",
		Short:        "Device catalogue service",
		Version:      version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (defaults to CONFIG_FILE)")

	root.AddCommand(
		newServeCmd(&configPath),
		newDrainOnceCmd(&configPath),
		newEnsureIndexesCmd(&configPath),
	)
	return root
}

func coreModule(configPath string) fx.Option {
	if configPath == "" {
		return core.NewCoreModule()
	}
	return core.NewCoreModule(core.WithConfigPath(configPath))
}

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the catalogue with the outbox drain loop and event consumers",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			app := fx.New(
				coreModule(*configPath),
				modules.NewObservabilityModule(),
				modules.NewPersistenceModule(),
				modules.NewMessagingModule(),
				modules.NewHTTPModule(),
				livepublisher.NewLivePublisherModule(),
				outbox.NewOutboxModule(),
				device.NewDeviceModule(),
				reconcile.NewReconcileModule(),
			)
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func newDrainOnceCmd(configPath *string) *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "drain-once",
		Short: "Run a single outbox drain tick and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var drainer *outbox.Drainer
			app := fx.New(
				coreModule(*configPath),
				modules.NewObservabilityModule(),
				modules.NewPersistenceModule(),
				modules.NewMessagingModule(),
				livepublisher.NewLivePublisherModule(),
				outbox.NewOutboxModule(outbox.WithoutDrainLoop()),
				fx.Populate(&drainer),
			)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			if err := app.Start(ctx); err != nil {
				return err
			}
			defer func() {
				_ = app.Stop(context.Background())
			}()

			res, err := drainer.Tick(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fetched=%d published=%d failed=%d mark_failed=%d\n",
				res.Fetched, res.Published, res.Failed, res.MarkFailed)
			return nil
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall deadline for startup and the tick")
	return cmd
}

func newEnsureIndexesCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create the outbox and device collection indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app := fx.New(
				coreModule(*configPath),
				modules.NewObservabilityModule(),
				modules.NewPersistenceModule(),
				outbox.NewOutboxModule(outbox.WithoutDrainLoop()),
				device.NewDeviceModule(),
			)
			// indexes are created by the OnStart hooks
			if err := app.Start(cmd.Context()); err != nil {
				return err
			}
			return app.Stop(context.Background())
		},
	}
}
