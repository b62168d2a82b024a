package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"donorlink/config"
	"donorlink/di"
	"donorlink/shared/logger"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "worker",
		Short: "Background jobs for donation scheduling",
		PersistentPreRun: func(*cobra.Command, []string) {
			cfg := config.Get()

			logger.InitLogger()
			logger.Configure(cfg)
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(consumeCmd())
	rootCmd.AddCommand(reconcileCmd())
	rootCmd.AddCommand(dispatchCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func consumeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consume",
		Short: "Reconcile blood needs from the booking.written topic",
		RunE: func(*cobra.Command, []string) error {
			if !config.Get().Kafka.Enable {
				return errors.New("kafka is disabled, set KAFKA_ENABLE=true to consume booking events")
			}

			ctx, stop := signalContext()
			defer stop()

			consumer := di.InitializeConsumer()

			log.Info().Msg("Starting booking event consumer.")

			return consumer.Run(ctx)
		},
	}
}

func reconcileCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "reconcile [need-id...]",
		Short: "Recompute collected amounts from completed bookings",
		RunE: func(_ *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return errors.New("pass one or more need ids, or --all")
			}

			ctx, stop := signalContext()
			defer stop()

			reconciler := di.InitializeReconciler()

			if all {
				count, err := reconciler.ReconcileAll(ctx)
				log.Info().Int("reconciled", count).Msg("Reconciliation finished.")

				return err //nolint:wrapcheck
			}

			var errs []error

			for _, needID := range args {
				need, err := reconciler.Reconcile(ctx, needID)
				if err != nil {
					errs = append(errs, err)

					continue
				}

				log.Info().
					Str("need_id", need.ID).
					Int("collected_ml", need.CollectedAmountML).
					Int("target_ml", need.TargetAmountML).
					Str("status", string(need.Status)).
					Msg("Need reconciled.")
			}

			return errors.Join(errs...)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "reconcile every blood need")

	return cmd
}

func dispatchCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Deliver due push notifications",
		RunE: func(*cobra.Command, []string) error {
			ctx, stop := signalContext()
			defer stop()

			dispatcher := di.InitializeDispatcher()

			if once {
				sent, err := dispatcher.DispatchOnce(ctx)
				log.Info().Int("sent", sent).Msg("Dispatch finished.")

				return err //nolint:wrapcheck
			}

			log.Info().Msg("Starting notification dispatcher.")

			return dispatcher.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "dispatch a single batch and exit")

	return cmd
}
