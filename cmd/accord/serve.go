package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/identropy/accord"
	"github.com/identropy/accord/internal/config"
	"github.com/identropy/accord/internal/logging"
	"github.com/identropy/accord/pkg/adapters/memory"
	"github.com/identropy/accord/pkg/adapters/redis"
	"github.com/identropy/accord/pkg/codec"
	"github.com/identropy/accord/pkg/keys"
	"github.com/identropy/accord/pkg/observability"
	"github.com/identropy/accord/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the orchestration engine with its ops endpoints",
	Long: `Serve wires the engine from the configuration file and exposes the
operational surface: /healthz for liveness and /metrics for Prometheus.

The identity provider and repository adapters are in-memory; production
deployments embed the accord package and supply their own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		return serve(cmd.Context(), path)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := logging.NewWithWriter(os.Stderr,
		logging.ParseLevel(cfg.Log.Level), cfg.Log.Format == "json")

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	// History store: redis when configured, in-memory otherwise.
	var store ports.HistoryStore = memory.NewStore()
	if cfg.Redis.Addr != "" {
		var opts []redis.Option
		if cfg.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(cfg.Redis.TTL))
		}
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redis.WithPrefix(cfg.Redis.Prefix))
		}
		store = redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...)
		logger.Info("using redis history store", "addr", cfg.Redis.Addr)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(reg)

	engineOpts := []accord.Option{
		accord.WithLogger(logger),
		accord.WithLifecycleHooks(metrics.Hooks()),
		accord.WithHistoryStore(store),
		accord.WithClientRole(cfg.Directory.ClientID, cfg.Directory.DefaultRole),
		accord.WithRetryPolicy(ports.RetryPolicy{
			MaxAttempts:    cfg.Retry.MaxAttempts,
			InitialBackoff: cfg.Retry.InitialBackoff,
			MaxBackoff:     cfg.Retry.MaxBackoff,
			BackoffFactor:  cfg.Retry.BackoffFactor,
			Timeout:        cfg.Retry.Timeout,
		}),
	}

	provider, err := buildKeyProvider(ctx, cfg.Encryption)
	if err != nil {
		return err
	}
	if provider != nil {
		provider.LogKeySet(logger)
		engineOpts = append(engineOpts,
			accord.WithCodec(codec.NewEncryption(provider, codec.WithLogger(logger))))
	} else {
		logger.Warn("history encryption disabled, records are stored in plaintext")
	}

	engine := accord.New(
		memory.NewDirectory(cfg.Directory.ClientID+"/"+cfg.Directory.DefaultRole),
		memory.NewRepository(),
		engineOpts...,
	)

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/runs", func(w http.ResponseWriter, r *http.Request) {
		runs, err := engine.Runs(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(runs); err != nil {
			logger.Error("failed to write runs response", "error", err)
		}
	})

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ops server listening", "addr", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("ops server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildKeyProvider resolves the configured key provider, nil when encryption
// is disabled. Vault keys are fetched once here; the provider never refreshes.
func buildKeyProvider(ctx context.Context, cfg config.EncryptionConfig) (*keys.Static, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case "static":
		return keys.NewStatic(cfg.CurrentKeyID, cfg.Keys)
	case "vault":
		return keys.NewVault(ctx, keys.VaultConfig{
			Address:    cfg.Vault.Address,
			Token:      cfg.Vault.Token,
			SecretPath: cfg.Vault.SecretPath,
		})
	default:
		return nil, fmt.Errorf("unknown encryption provider %q", cfg.Provider)
	}
}
