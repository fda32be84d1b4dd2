// Package main provides the CLI entrypoint for the URL discovery service.
// It wires subcommands (serve, discover, jwt), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"discovery/internal/config"
	"discovery/internal/discovery"
	"discovery/internal/search"
	"discovery/pkg/domain"
	"discovery/pkg/llmjudge"
	"discovery/pkg/llmjudge/cohere"
	"discovery/pkg/llmjudge/openai"
	"discovery/pkg/logger"
	"discovery/pkg/searchbackend"
	"discovery/pkg/searchbackend/brave"
	"discovery/pkg/searchbackend/googlecse"
	"discovery/pkg/searchbackend/siteprobe"
)

// buildDiscoverer wires the search backends, the LM provider chain and the
// pipeline from configuration values.
func buildDiscoverer(ctx context.Context, cfg *config.Config) discovery.Discoverer {
	httpClient := &http.Client{}

	var backends []searchbackend.Client
	if cfg.Search.GoogleAPIKey != "" && cfg.Search.GoogleCX != "" {
		backends = append(backends, googlecse.New(httpClient, cfg.Search.GoogleAPIKey, cfg.Search.GoogleCX))
	}
	if cfg.Search.BraveAPIKey != "" {
		backends = append(backends, brave.New(httpClient, cfg.Search.BraveAPIKey))
	}
	if cfg.Search.EnableSiteProbe {
		backends = append(backends, siteprobe.New(httpClient))
	}
	if len(backends) == 0 {
		logger.Fatal(ctx, "no search backend configured")
	}

	byName := map[string]llmjudge.Client{
		"openai": openai.New(httpClient, cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.BaseURL, cfg.LLM.OpenAI.Model),
		"cohere": cohere.New(httpClient, cfg.LLM.Cohere.APIKey, cfg.LLM.Cohere.BaseURL, cfg.LLM.Cohere.Model),
	}
	var providers []llmjudge.Client
	for _, name := range cfg.LLM.Order {
		p, ok := byName[name]
		if !ok {
			logger.Fatal(ctx, "unknown LM provider in llm.order", zap.String("provider", name))
		}
		providers = append(providers, p)
	}

	templates := make(map[domain.Category]string, len(cfg.Search.QueryTemplates))
	for name, tpl := range cfg.Search.QueryTemplates {
		category, err := domain.ParseCategory(name)
		if err != nil {
			logger.Fatal(ctx, "unknown category in search.queryTemplates", zap.String("category", name))
		}
		templates[category] = tpl
	}

	orchestrator := search.New(backends, search.Options{
		BackendTimeout: cfg.Search.BackendTimeout,
		QueryTemplates: templates,
	})
	router := discovery.NewRouter(providers, discovery.RouterOptions{
		CallTimeout:  cfg.LLM.CallTimeout,
		RetryBackoff: cfg.LLM.RetryBackoff,
	})

	return discovery.New(orchestrator, router, discovery.Options{
		CategoryConcurrency: cfg.Discovery.CategoryConcurrency,
	})
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "discovery",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		discoverCommand(cfg),
		JWTCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
