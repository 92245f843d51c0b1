package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"donationtracker/internal/adapter/repo"
	"donationtracker/internal/http/handlers"
	httpapi "donationtracker/internal/http/httpapi"
	"donationtracker/internal/infra"
	"donationtracker/internal/service"
)

var (
	flagPort   string
	flagEnv    string
	flagStore  string
	flagNoSeed bool
)

var rootCmd = &cobra.Command{
	Use:   "api",
	Short: "Run the donation tracker HTTP API",
	Long: `Runs the donation tracker HTTP API.

Configuration comes from the environment (optionally a .env file); flags
override the matching variables.

Examples:
  api
  api --port 8080 --store badger
  api --env production --no-seed`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (overrides PORT)")
	rootCmd.Flags().StringVar(&flagEnv, "env", "", "Runtime environment (overrides APP_ENV)")
	rootCmd.Flags().StringVar(&flagStore, "store", "", "Record store: memory or badger (overrides STORE_BACKEND)")
	rootCmd.Flags().BoolVar(&flagNoSeed, "no-seed", false, "Start with an empty store")
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := infra.LoadConfig()
	if err != nil {
		return err
	}
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagEnv != "" {
		cfg.AppEnv = flagEnv
	}
	if flagStore != "" {
		cfg.StoreBackend = flagStore
	}
	if flagNoSeed {
		cfg.SeedSampleData = false
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := infra.NewLogger(cfg.AppEnv, cfg.LogLevel)

	var opts []repo.Option
	if cfg.SeedSampleData {
		opts = append(opts, repo.WithSeed(repo.SampleDonations()))
	}
	store, err := repo.Open(cfg.StoreBackend, opts...)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreBackend, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	svc, err := service.New(service.Config{Repository: store, Logger: &logger})
	if err != nil {
		return err
	}

	exposeErrors := !cfg.IsProduction()
	app := handlers.NewApp(svc, handlers.Options{
		Env:          cfg.AppEnv,
		Logger:       logger,
		ExposeErrors: exposeErrors,
	})
	router := httpapi.NewRouter(app, httpapi.Config{
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimitPerMin:    cfg.RateLimitPerMin,
		ExposeErrors:       exposeErrors,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	})
	server := infra.NewHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Addr()).
			Str("store", cfg.StoreBackend).
			Bool("seeded", cfg.SeedSampleData).
			Msg("API listening")
		errCh <- server.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(stop)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server failed")
		}
		return err
	case sig := <-stop:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
