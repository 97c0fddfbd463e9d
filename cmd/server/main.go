/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the PlateLink network server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags (cobra)
  2. Load platelink.yaml over the defaults
  3. Initialize the inventory store (memory or SQLite)
  4. Load the configured seed scenario
  5. Start the expiry monitor and its Prometheus gauges
  6. Start the HTTP server with graceful shutdown

COMMAND-LINE FLAGS (serve):
  --config     Config file path (default: ./platelink.yaml if present)
  --port       HTTP server port (overrides server.port)
  --store      Store driver: memory or sqlite (overrides store.driver)
  --db         SQLite database path (overrides store.path)
  --scenario   Seed scenario loaded at startup (overrides network.scenario)
  --log-level  debug, info, warn, error

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the expiry monitor
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store

EXAMPLES:
  ./server serve
  ./server serve --store=sqlite --db=":memory:" --scenario=crisis
  ./server version
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/platelink/network-engine/api"
	"github.com/platelink/network-engine/config"
	"github.com/platelink/network-engine/network"
	"github.com/platelink/network-engine/platelet"
	"github.com/platelink/network-engine/platelet/store"
	"github.com/platelink/network-engine/store/sqlite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "platelink"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serveFlags struct {
	configPath string
	port       int
	driver     string
	dbPath     string
	scenario   string
	logLevel   string
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Platelet inventory network dashboard server",
		Long: `PlateLink serves a mocked blood-platelet inventory network:
summary analytics, an inventory list with search and filters,
and placeholder donor and logistics panels.

All data is fabricated and lives only for the process lifetime.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func serveCmd() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(f)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "HTTP server port")
	cmd.Flags().StringVar(&f.driver, "store", "", "Store driver (memory, sqlite)")
	cmd.Flags().StringVar(&f.dbPath, "db", "", "SQLite database path")
	cmd.Flags().StringVar(&f.scenario, "scenario", "", "Seed scenario loaded at startup")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

// resolveConfig layers command-line flags over the config file.
func resolveConfig(f serveFlags) (*config.Config, error) {
	cfg, err := config.NewLoader(nil).Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	cfg.Merge(&config.Config{
		Server:  config.ServerConfig{Port: f.port},
		Store:   config.StoreConfig{Driver: f.driver, Path: f.dbPath},
		Network: config.NetworkConfig{Scenario: f.scenario},
		Log:     config.LogConfig{Level: f.logLevel},
	})

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStore(cfg *config.Config) (platelet.Store, io.Closer, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		s, err := sqlite.New(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return s, s, nil
	default:
		return store.NewMemory(), closerFunc(func() error { return nil }), nil
	}
}

// homeFacility resolves the configured home facility. A name from the mock
// network catalog takes the catalog's coordinates; any other name keeps the
// configured ones.
func homeFacility(cfg *config.Config) platelet.Facility {
	if f, ok := network.FacilityByName(cfg.Network.HomeFacility); ok {
		return f
	}
	return platelet.Facility{Name: cfg.Network.HomeFacility, Lat: cfg.Network.HomeLat, Lon: cfg.Network.HomeLon}
}

func run(ctx context.Context, cfg *config.Config, logOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	// Initialize store
	st, closer, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer closer.Close()

	home := homeFacility(cfg)
	inventory := platelet.NewInventory(st, home, logger)

	// Initialize handler
	handler := api.NewHandler(inventory, logger)
	if cfg.Network.Scenario != "" {
		if err := handler.LoadScenarioByID(ctx, cfg.Network.Scenario); err != nil {
			logger.Warn("Failed to load startup scenario",
				slog.String("scenario", cfg.Network.Scenario),
				slog.String("error", err.Error()))
		}
	}

	metrics := api.NewMonitorMetrics(prometheus.NewRegistry())
	monitor := api.NewExpiryMonitor(inventory, logger)
	monitor.Metrics = metrics
	monitor.Enabled = cfg.Monitor.Enabled
	monitor.CheckInterval = cfg.Monitor.Interval
	monitor.Start()
	defer monitor.Stop()

	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		StaticDir:      cfg.Server.StaticDir,
		Monitor:        monitor,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting",
			slog.String("version", Version),
			slog.String("addr", fmt.Sprintf("http://localhost:%d", cfg.Server.Port)),
			slog.String("store", cfg.Store.Driver),
			slog.String("home_facility", home.Name))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped")
	return nil
}
