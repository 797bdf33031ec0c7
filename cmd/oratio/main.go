// Package main provides the oratio binary entry point.
// Oratio analyzes text for biased language using large language models,
// with automatic failover between providers.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	// Register LLM providers via init()
	_ "github.com/oratiolabs/oratio/llm/providers"

	"github.com/oratiolabs/oratio/analysis"
	"github.com/oratiolabs/oratio/config"
	"github.com/oratiolabs/oratio/llm"
	"github.com/oratiolabs/oratio/server"
	"github.com/oratiolabs/oratio/store"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "oratio"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "oratio",
		Short: "Bias analysis service",
		Long: `Oratio is an HTTP service that analyzes text for biased language.

Text is split into sentences, each sentence is analyzed by an LLM
provider, and the per-sentence findings are aggregated into a report
with an overall bias score. When the primary provider runs out of
quota, analysis fails over to the secondary provider for the rest of
the process lifetime.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, logLevel)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

func run(configPath, logLevel string) error {
	logger := newLogger(logLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	primary := llm.Endpoint{
		Provider: "gemini",
		URL:      cfg.Providers.Gemini.Endpoint,
		Model:    cfg.Providers.Gemini.Model,
		APIKey:   cfg.Providers.Gemini.APIKey,
	}
	secondary := llm.Endpoint{
		Provider: "openai",
		URL:      cfg.Providers.OpenAI.Endpoint,
		Model:    cfg.Providers.OpenAI.Model,
		APIKey:   cfg.Providers.OpenAI.APIKey,
	}

	client := llm.NewClient(llm.WithLogger(logger))
	orchestrator := analysis.NewOrchestrator(client, primary, secondary, analysis.WithLogger(logger))

	probeCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	orchestrator.Probe(probeCtx)
	cancel()

	handler := server.New(orchestrator, st, cfg.Auth.TokenTTL, logger)
	mux := http.NewServeMux()
	handler.Register(mux)

	chain := server.Chain(
		server.Recovery(logger),
		server.Logging(logger),
		server.CORS(cfg.Server.AllowedOrigins),
	)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      chain(mux),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("shutting down", "signal", sig)

		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()

		if err := srv.Shutdown(shutCtx); err != nil {
			logger.Error("shutdown error", "err", err)
		}
	}()

	logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"version", Version,
		"primary_configured", primary.Configured(),
		"secondary_configured", secondary.Configured(),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newLogger(logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
