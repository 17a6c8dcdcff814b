package commands

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/plantops/plantquery/internal/apiserver"
	"github.com/plantops/plantquery/internal/config"
	"github.com/plantops/plantquery/internal/logging"
	"github.com/plantops/plantquery/internal/tracing"
)

var (
	apiPort            int
	tracingEnabled     bool
	tracingEndpoint    string
	tracingTLSCAPath   string
	tracingTLSInsecure bool
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the PlantQuery API server",
	Long: `Start the PlantQuery server which accepts natural-language queries over
HTTP, routes them through the agent workflow, and returns the synthesized
answer together with the per-agent execution trace.`,
	Run: runServer,
}

func init() {
	serverCmd.Flags().IntVar(&apiPort, "api-port", 0, "Port the API server listens on (overrides config)")
	serverCmd.Flags().BoolVar(&tracingEnabled, "tracing-enabled", false, "Enable OpenTelemetry tracing (default: false)")
	serverCmd.Flags().StringVar(&tracingEndpoint, "tracing-endpoint", "", "OTLP gRPC endpoint for traces (e.g., otel-collector:4317)")
	serverCmd.Flags().StringVar(&tracingTLSCAPath, "tracing-tls-ca", "", "Path to CA certificate for TLS verification (optional)")
	serverCmd.Flags().BoolVar(&tracingTLSInsecure, "tracing-tls-insecure", false, "Skip TLS certificate verification (insecure, use only for testing)")
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(configPath)
	HandleError(err, "Configuration error")

	if apiPort != 0 {
		cfg.APIPort = apiPort
	}
	if tracingEnabled {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Endpoint = tracingEndpoint
		cfg.Tracing.TLSCAPath = tracingTLSCAPath
	}
	HandleError(cfg.Validate(), "Configuration error")

	HandleError(setupLog(logLevelFlags), "Failed to setup logging")
	logger := logging.GetLogger("server")
	logger.Info("Starting PlantQuery v%s", Version)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tracingProvider, err := tracing.NewProvider(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		TLSCAPath:   cfg.Tracing.TLSCAPath,
		TLSInsecure: tracingTLSInsecure,
	})
	if err != nil {
		logger.Warn("Failed to initialize tracing (continuing without tracing): %v", err)
	}

	rt, err := buildRuntime(ctx, cfg)
	HandleError(err, "Startup error")
	defer rt.close()

	server := apiserver.New(cfg.APIPort, rt.coordinator, rt.graphClient)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx := context.Background()
		if tracingProvider != nil {
			_ = tracingProvider.Shutdown(shutdownCtx)
		}
		return server.Stop(shutdownCtx)
	})

	HandleError(g.Wait(), "Server error")
	logger.Info("Shut down cleanly")
}
