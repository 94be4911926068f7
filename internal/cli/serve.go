package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AbdelazizMoustafa10m/wfm/internal/config"
	"github.com/AbdelazizMoustafa10m/wfm/internal/engine"
	"github.com/AbdelazizMoustafa10m/wfm/internal/httpapi"
	"github.com/AbdelazizMoustafa10m/wfm/internal/logging"
	"github.com/AbdelazizMoustafa10m/wfm/internal/registry"

	// Registers the compiled-in example workflows (LongRunningWorkflow,
	// CustomTimeoutWorkflow, ParallelWorkflow) so they are resolvable by
	// name out of the box.
	_ "github.com/AbdelazizMoustafa10m/wfm/internal/builtin"
)

var (
	serveListenAddr string
	serveCatalog    string
)

// serveCmd implements "wfm serve": it wires the engine, registry, and HTTP
// control surface together and blocks until SIGINT/SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the workflow engine and HTTP control surface",
	Long: `serve loads the workflow catalog (workflows.yml), starts the
dispatch engine, and serves the HTTP control surface described in the
design (list, inspect, start, stop, and clean up workflows) until it
receives SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveListenAddr, "listen-addr", "", "Address to listen on, e.g. :8080 (overrides config)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Path to workflows.yml (overrides config and default resolution)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	resolved, _, err := loadAndResolveConfig()
	if err != nil {
		return err
	}
	cfg := resolved.Config

	var overrides config.CLIOverrides
	if serveListenAddr != "" {
		overrides.ListenAddr = &serveListenAddr
	}
	resolved = config.Resolve(cfg, nil, lookupEnv, &overrides)
	cfg = resolved.Config

	logger := logging.New("serve")

	catalogPath := serveCatalog
	if catalogPath == "" {
		catalogPath = cfg.Registry.WorkflowsFile
	}
	reg, err := registry.Load(catalogPath, registry.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("loading workflow catalog: %w", err)
	}

	var opts []engine.EngineOption
	opts = append(opts, engine.WithLogger(logger))
	if cfg.Engine.DefaultStepTimeoutSeconds > 0 {
		opts = append(opts, engine.WithDefaultStepTimeout(time.Duration(cfg.Engine.DefaultStepTimeoutSeconds)*time.Second))
	}
	if cfg.Engine.MaxStepTimeoutSeconds > 0 {
		opts = append(opts, engine.WithMaxStepTimeout(time.Duration(cfg.Engine.MaxStepTimeoutSeconds)*time.Second))
	}
	if cfg.Engine.QueuePollIntervalMillis > 0 {
		opts = append(opts, engine.WithQueuePollInterval(time.Duration(cfg.Engine.QueuePollIntervalMillis)*time.Millisecond))
	}
	eng := engine.NewEngine(engine.NewMemoryStorage(), engine.NewQueue(), reg, opts...)

	srv := httpapi.New(eng, reg, httpapi.WithLogger(logger))

	listenAddr := cfg.Server.ListenAddr
	if listenAddr == "" {
		listenAddr = ":8080"
	}
	httpServer := &http.Server{
		Addr:    listenAddr,
		Handler: srv.Router(),
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", listenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		var errs []error
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
		if err := eng.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("engine shutdown: %w", err))
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}
