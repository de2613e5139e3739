package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"fluxo/internal/amqp"
	"fluxo/internal/cli"
	"fluxo/internal/log"
	"fluxo/internal/services"
	"fluxo/internal/worker"
)

func eventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Ledger change events published over AMQP",
	}
	cmd.AddCommand(tailEventsCmd())
	return cmd
}

func tailEventsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tail",
		Short: "Print change events as they arrive until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.AMQPEnabled() {
				return errors.New("AMQP_URL is not set; change events are disabled")
			}

			repo, err := cli.InitSQLite(cmd.Context(), logger, cfg.DBPath)
			if err != nil {
				return err
			}
			// Read-only here: nothing to publish.
			ledger := services.NewLedgerService(repo, nil, logger.WithComponent(log.ComponentLedger))
			defer ledger.Close()

			client, err := cli.InitAMQP(cmd.Context(), logger, cfg)
			if err != nil {
				return err
			}

			ctx, cancel := cli.GracefulShutdown(cmd.Context(), logger, func() { _ = client.Close() })
			defer cancel()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, cli.InfoStyle.Render(fmt.Sprintf("Aguardando eventos em %q (Ctrl+C para sair)", cfg.AMQPQueue)))

			w := worker.NewChangeWorker(ledger, out)
			err = client.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
				return w.HandleChange(ctx, msg)
			})
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				// Interrupted; the shutdown hook already closed the client.
				return nil
			}
			_ = client.Close()
			return err
		},
	}
}
