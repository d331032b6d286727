package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"reviewd/internal/adapter/cli"
	githubadapter "reviewd/internal/adapter/github"
	"reviewd/internal/adapter/llm/gemini"
	llmhttp "reviewd/internal/adapter/llm/http"
	"reviewd/internal/adapter/llm/openai"
	"reviewd/internal/adapter/llm/static"
	"reviewd/internal/adapter/webhook"
	"reviewd/internal/config"
	"reviewd/internal/usecase/process"
	"reviewd/internal/usecase/workflow"
	"reviewd/internal/version"
)

func main() {
	if err := run(); err != nil {
		// Redact API keys from URLs in error messages before logging
		log.Println(llmhttp.RedactURLSecrets(err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "reviewd",
		EnvPrefix:   "REVIEWD",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Server:      &app{cfg: cfg},
		DefaultAddr: cfg.Server.Addr,
		Version:     version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "reviewd"))
	}
	return paths
}

// app assembles the daemon from configuration and runs it.
type app struct {
	cfg config.Config
}

// Serve builds the pipeline and blocks until the context is cancelled or the
// listener fails.
func (a *app) Serve(ctx context.Context, addr string) error {
	cfg := a.cfg

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config invalid: %w", err)
	}

	obs := buildObservability(cfg.Observability)

	generator, err := buildGenerator(cfg, obs)
	if err != nil {
		return err
	}

	ghClient := buildGitHubClient(cfg, obs)

	engine, err := workflow.NewEngine(workflow.EngineDeps{
		Generator:   generator,
		Poster:      ghClient,
		Logger:      obs.logger,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return fmt.Errorf("build workflow engine: %w", err)
	}

	processor, err := process.NewProcessor(ghClient, engine, obs.logger)
	if err != nil {
		return fmt.Errorf("build processor: %w", err)
	}

	dispatch := func(ctx context.Context, repo string, number int) {
		if err := processor.Process(ctx, repo, number); err != nil {
			log.Println(llmhttp.RedactURLSecrets(err.Error()))
		}
	}

	handler := webhook.NewHandler([]byte(cfg.Server.WebhookSecret), dispatch, obs.logger)
	handler.SetBaseContext(ctx)

	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownTimeout := 10 * time.Second
	if cfg.Server.ShutdownTimeout != "" {
		if parsed, err := time.ParseDuration(cfg.Server.ShutdownTimeout); err == nil && parsed > 0 {
			shutdownTimeout = parsed
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// observabilityComponents holds shared observability instances.
type observabilityComponents struct {
	logger  llmhttp.Logger
	metrics llmhttp.Metrics
}

// buildObservability creates observability components based on configuration.
func buildObservability(cfg config.ObservabilityConfig) observabilityComponents {
	var logger llmhttp.Logger
	var metrics llmhttp.Metrics

	if cfg.Logging.Enabled {
		logger = llmhttp.NewDefaultLogger(
			llmhttp.ParseLogLevel(cfg.Logging.Level),
			llmhttp.ParseLogFormat(cfg.Logging.Format),
			cfg.Logging.RedactAPIKeys,
		)
	}

	if cfg.Metrics.Enabled {
		metrics = llmhttp.NewDefaultMetrics()
	}

	return observabilityComponents{
		logger:  logger,
		metrics: metrics,
	}
}

// buildGitHubClient constructs the GitHub REST client with retry and
// observability wiring.
func buildGitHubClient(cfg config.Config, obs observabilityComponents) *githubadapter.Client {
	client := githubadapter.NewClient(cfg.GitHub.Token)

	if cfg.GitHub.BaseURL != "" {
		client.SetBaseURL(cfg.GitHub.BaseURL)
	}
	client.SetTimeout(llmhttp.ParseTimeout(nil, cfg.GitHub.Timeout, 30*time.Second))
	client.SetRetryConfig(llmhttp.BuildRetryConfig(config.ProviderConfig{}, cfg.HTTP))

	if obs.logger != nil {
		client.SetLogger(obs.logger)
	}
	if obs.metrics != nil {
		client.SetMetrics(obs.metrics)
	}

	return client
}

// buildGenerator constructs the configured LLM provider.
func buildGenerator(cfg config.Config, obs observabilityComponents) (workflow.Generator, error) {
	name := cfg.LLM.Provider
	providerCfg := cfg.Provider(name)

	switch name {
	case "gemini":
		if providerCfg.APIKey == "" {
			return nil, fmt.Errorf("gemini: missing API key (set REVIEWD_PROVIDERS_GEMINI_APIKEY or providers.gemini.apiKey)")
		}
		client := gemini.NewHTTPClient(providerCfg.APIKey, providerCfg.Model, providerCfg, cfg.HTTP)
		if obs.logger != nil {
			client.SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			client.SetMetrics(obs.metrics)
		}
		return gemini.NewProvider(client), nil

	case "openai":
		if providerCfg.APIKey == "" {
			return nil, fmt.Errorf("openai: missing API key (set REVIEWD_PROVIDERS_OPENAI_APIKEY or providers.openai.apiKey)")
		}
		client := openai.NewHTTPClient(providerCfg.APIKey, providerCfg.Model, providerCfg, cfg.HTTP)
		if obs.logger != nil {
			client.SetLogger(obs.logger)
		}
		if obs.metrics != nil {
			client.SetMetrics(obs.metrics)
		}
		return openai.NewProvider(client), nil

	case "static":
		return static.NewProvider(), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider %q (supported: gemini, openai, static)", name)
	}
}

// Compile-time interface compliance checks
var _ cli.Server = (*app)(nil)
var _ workflow.Generator = (*gemini.Provider)(nil)
var _ workflow.Generator = (*openai.Provider)(nil)
var _ workflow.Generator = (*static.Provider)(nil)
var _ workflow.CommentPoster = (*githubadapter.Client)(nil)
var _ process.DiffFetcher = (*githubadapter.Client)(nil)
var _ process.WorkflowRunner = (*workflow.Engine)(nil)
