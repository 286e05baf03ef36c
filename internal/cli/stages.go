package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/tripload/internal/config"
	"github.com/vvka-141/tripload/internal/db"
	"github.com/vvka-141/tripload/internal/logging"
	"github.com/vvka-141/tripload/internal/services"
	"github.com/vvka-141/tripload/pkg/tripload"
)

// runStages is the body shared by run, transform and load.
func runStages(cmd *cobra.Command, f *loadFlagValues, mode stageMode, getenv config.Getenv) error {
	if err := loadDotEnv(f.projectDir); err != nil {
		return err
	}

	cfg, err := buildLoadConfig(cmd, f, mode, getenv)
	if err != nil {
		return err
	}

	logger := logging.NewConsoleLogger(cfg.Verbose)
	if cfg.Connection != nil {
		logger.Verbose("Target: %s@%s:%d/%s (sslmode=%s, auth=%s)",
			cfg.Connection.Username, cfg.Connection.Host, cfg.Connection.Port,
			cfg.Connection.Database, cfg.Connection.SSLMode, cfg.Connection.AuthMethod)
	}

	pipeline := services.NewPipeline(db.NewConnectorFactory(logger), logger)

	ctx, cancel := runContext(cfg.Timeout)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received cancellation signal, stopping gracefully...")
			cancel()
		case <-ctx.Done():
		}
	}()

	summary, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s failed: %w", cmd.Name(), err)
	}

	printSummary(logger, summary)
	return nil
}

// runContext bounds a run by timeout. Zero means no deadline.
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout == 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func printSummary(logger tripload.Logger, summary *tripload.LoadSummary) {
	if t := summary.Transform; t != nil {
		logger.Verbose("Transform: %s rows, %d columns -> %s",
			logging.FormatCount(int64(t.Rows)), t.Columns, t.OutputPath)
	}
	for _, ref := range summary.References {
		logger.Verbose("%s: %s rows", ref.Table, logging.FormatCount(ref.Total))
	}
	if summary.FactsTotal > 0 || summary.FactsCopied > 0 {
		logger.Verbose("yellow_tripdata: %s copied, %s total",
			logging.FormatCount(summary.FactsCopied), logging.FormatCount(summary.FactsTotal))
	}
	logger.Info("✓ Completed in %s (run %s)", summary.Duration.Round(time.Millisecond), summary.RunID)
}
