package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/quayside/payengine/internal/adapter/csvio"
	httpAdapter "github.com/quayside/payengine/internal/adapter/http"
	"github.com/quayside/payengine/internal/adapter/http/handler"
	"github.com/quayside/payengine/internal/adapter/repository/memory"
	"github.com/quayside/payengine/internal/infrastructure/config"
	"github.com/quayside/payengine/internal/infrastructure/logger"
	"github.com/quayside/payengine/internal/infrastructure/metrics"
	"github.com/quayside/payengine/internal/usecase"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "payengine",
		Short: "Transaction batch processing engine",
		Long: `payengine ingests ordered batches of deposit, withdrawal, dispute,
resolve and chargeback records and produces a final account snapshot
per client.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newProcessCmd(), newServeCmd())
	return root
}

func newProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <input.csv>",
		Short: "Process one batch file and print the account snapshot CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

			// Snapshot goes to stdout; diagnostics go to stderr.
			return runProcess(args[0], os.Stdout, log)
		},
	}
}

// runProcess reads one batch from path, applies it against fresh
// ledger and account stores and writes the snapshot CSV to out.
// A structural rejection or unreadable input returns an error; per
// record semantic skips are logged and do not fail the run.
func runProcess(path string, out io.Writer, log zerolog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := csvio.ReadAll(f)
	if err != nil {
		return err
	}

	ledger := memory.NewLedgerRepository()
	accounts := memory.NewAccountRepository()
	engine := usecase.NewEngine(ledger, accounts, log, nil)
	batch := usecase.NewBatchUseCase(engine, accounts, memory.NewULIDGenerator(), log, nil)

	result, err := batch.Process(context.Background(), records)
	if err != nil {
		return err
	}

	return csvio.WriteAll(out, result.Accounts)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP batch ingestion server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	m := metrics.New()

	// Every submitted batch runs against fresh state.
	newService := func() handler.BatchService {
		ledger := memory.NewLedgerRepository()
		accounts := memory.NewAccountRepository()
		engine := usecase.NewEngine(ledger, accounts, log, m)
		return usecase.NewBatchUseCase(engine, accounts, memory.NewULIDGenerator(), log, m)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		BatchHandler:  handler.NewBatchHandler(newService, cfg.MaxBatchBytes, log),
		HealthHandler: handler.NewHealthHandler(),
		Logger:        log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
