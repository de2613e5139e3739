package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fluxo/internal/cli"
	"fluxo/internal/config"
	"fluxo/internal/log"
	"fluxo/internal/services"
)

var (
	envFile string
	version = "dev"

	// Set by PersistentPreRunE for every subcommand.
	cfg    *config.Config
	logger *log.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fluxo",
		Short: "Personal cash-flow tracker",
		Long: `fluxo records income and expense transactions in a local SQLite file,
organizes them in categories and reports monthly flow, expense
distribution and balance.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: initConfig,
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: .env)")
	root.PersistentFlags().String("db", "", "SQLite database path (env FLUXO_DB_PATH)")
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")
	root.PersistentFlags().String("log-format", "", "log format: text, json (env LOG_FORMAT)")

	root.AddCommand(categoriesCmd())
	root.AddCommand(transactionsCmd())
	root.AddCommand(reportCmd())
	root.AddCommand(importCmd())
	root.AddCommand(eventsCmd())

	return root
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render("Erro: "+err.Error()))
		os.Exit(1)
	}
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if envFile != "" {
		cli.LoadEnvFile(envFile)
	} else {
		cli.LoadEnvFile()
	}

	c, err := cli.LoadAndValidateConfig(flagOverrides(cmd))
	if err != nil {
		return err
	}

	l, err := cli.SetupLogger(c, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}

	cfg, logger = c, l
	return nil
}

// flagOverrides copies the persistent flags the user set over the
// environment values.
func flagOverrides(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(c *config.Config) {
		if flags.Changed("db") {
			c.DBPath, _ = flags.GetString("db")
		}
		if flags.Changed("log-level") {
			c.LogLevel, _ = flags.GetString("log-level")
		}
		if flags.Changed("log-format") {
			c.LogFormat, _ = flags.GetString("log-format")
		}
	}
}

// openLedger opens the database (creating and seeding it on first use).
func openLedger(ctx context.Context) (*services.LedgerService, error) {
	return cli.NewLedger(ctx, logger, cfg)
}
