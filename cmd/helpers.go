package cmd

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Xu-Jack11/aipartner/internal/config"
	"github.com/Xu-Jack11/aipartner/internal/knowledge"
	"github.com/Xu-Jack11/aipartner/internal/llm"
	"github.com/Xu-Jack11/aipartner/internal/logging"
	"github.com/Xu-Jack11/aipartner/internal/metrics"
	"github.com/Xu-Jack11/aipartner/internal/tooling"
	"github.com/Xu-Jack11/aipartner/internal/websearch"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `aipartner init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. --verbose forces debug level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := cfg.Log.Level
	if verbose {
		level = "debug"
	}
	return logging.New(logging.Config{Level: level, Pretty: cfg.Log.Pretty})
}

func providerOptions(cfg *config.Config) llm.Options {
	return llm.Options{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Mode:        string(cfg.ProviderMode),
		Model:       cfg.Model,
		Temperature: llm.Float64(cfg.Temperature),
		MaxTokens:   cfg.MaxTokens,
		Timeout:     cfg.RequestTimeout,
		MockDelay:   cfg.MockDelay,
	}
}

func newWebSearch(cfg *config.Config) *websearch.Client {
	return websearch.New(websearch.Options{
		BaseURL: cfg.Search.BaseURL,
		Timeout: cfg.Search.Timeout,
	})
}

// pipeline is everything needed to answer a completion request.
type pipeline struct {
	kb       *knowledge.Base
	web      *websearch.Client
	provider llm.Provider
}

// createPipeline wires the enrichment sources, the preparer and the provider
// selected by cfg. m may be nil.
func createPipeline(cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*pipeline, error) {
	kb := knowledge.Default()
	web := newWebSearch(cfg)

	var opts []tooling.Option
	if m != nil {
		opts = append(opts, tooling.WithRecorder(m))
	}
	preparer := tooling.New(
		tooling.KnowledgeSource(kb, cfg.Knowledge.Limit),
		tooling.WebSearchSource(web, cfg.Search.Limit),
		logger,
		opts...,
	)

	provider, err := llm.NewProvider(providerOptions(cfg), preparer, logger)
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	if cfg.RateLimitRPM > 0 {
		provider = llm.NewRateLimitedProvider(provider, cfg.RateLimitRPM)
	}
	if m != nil {
		provider = llm.NewInstrumentedProvider(provider, m)
	}

	logger.Debug().Str("provider", provider.Name()).Str("model", cfg.Model).Msg("provider selected")
	return &pipeline{kb: kb, web: web, provider: provider}, nil
}
