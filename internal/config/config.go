// Package config loads the application configuration from a yaml file and
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, authentication,
// search backends, LM providers and graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// Discovery requests fan out to search backends and LM providers, so this
		// sits well above typical API handler budgets.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"2m" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// JWT contains the RS256 key material for API authentication
	JWT struct {
		// PublicKey is the PEM-encoded RSA public key used to verify tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM-encoded RSA private key used by the jwt subcommand
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Search contains the search backend configurations
	Search struct {
		// GoogleAPIKey is the Google Custom Search API key
		GoogleAPIKey string `env:"SEARCH_GOOGLE_API_KEY" yaml:"googleApiKey"`
		// GoogleCX is the Google Custom Search engine identifier
		GoogleCX string `env:"SEARCH_GOOGLE_CX" yaml:"googleCx"`
		// BraveAPIKey is the Brave Search subscription token
		BraveAPIKey string `env:"SEARCH_BRAVE_API_KEY" yaml:"braveApiKey"`
		// EnableSiteProbe enables the HEAD-probe backend against the entity's own site
		EnableSiteProbe bool `env:"SEARCH_ENABLE_SITE_PROBE" env-default:"true" yaml:"enableSiteProbe"`
		// BackendTimeout bounds each individual backend call
		BackendTimeout time.Duration `env:"SEARCH_BACKEND_TIMEOUT" env-default:"15s" yaml:"backendTimeout"`
		// QueryTemplates overrides the built-in per-category query templates.
		// Keys are category names, values may use the {name}, {site} and
		// {category} placeholders.
		QueryTemplates map[string]string `yaml:"queryTemplates"`
	} `yaml:"search"`

	// LLM contains the LM provider configurations and the fallback order
	LLM struct {
		// Order lists provider names in fallback priority, e.g. "cohere,openai".
		// The deterministic pattern judge always terminates the chain and is
		// not listed here.
		Order []string `env:"LLM_ORDER" env-default:"openai,cohere" yaml:"order"`
		// CallTimeout bounds each individual provider call
		CallTimeout time.Duration `env:"LLM_CALL_TIMEOUT" env-default:"30s" yaml:"callTimeout"`
		// RetryBackoff is the pause before the single transport retry
		RetryBackoff time.Duration `env:"LLM_RETRY_BACKOFF" env-default:"500ms" yaml:"retryBackoff"`

		OpenAI struct {
			// APIKey authenticates against the OpenAI API
			APIKey string `env:"LLM_OPENAI_API_KEY" yaml:"apiKey"`
			// BaseURL overrides the API endpoint, e.g. for a proxy
			BaseURL string `env:"LLM_OPENAI_BASE_URL" yaml:"baseUrl"`
			// Model selects the chat model used for judgments
			Model string `env:"LLM_OPENAI_MODEL" yaml:"model"`
		} `yaml:"openai"`

		Cohere struct {
			// APIKey authenticates against the Cohere API
			APIKey string `env:"LLM_COHERE_API_KEY" yaml:"apiKey"`
			// BaseURL overrides the API endpoint
			BaseURL string `env:"LLM_COHERE_BASE_URL" yaml:"baseUrl"`
			// Model selects the chat model used for judgments
			Model string `env:"LLM_COHERE_MODEL" yaml:"model"`
		} `yaml:"cohere"`
	} `yaml:"llm"`

	// Discovery contains pipeline tuning knobs
	Discovery struct {
		// CategoryConcurrency bounds how many category pipelines run at once
		CategoryConcurrency int `env:"DISCOVERY_CATEGORY_CONCURRENCY" env-default:"4" yaml:"categoryConcurrency"`
	} `yaml:"discovery"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
