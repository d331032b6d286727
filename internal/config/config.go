package config

// Config represents the full application configuration.
type Config struct {
	Server        ServerConfig              `yaml:"server"`
	GitHub        GitHubConfig              `yaml:"github"`
	LLM           LLMConfig                 `yaml:"llm"`
	Providers     map[string]ProviderConfig `yaml:"providers"`
	HTTP          HTTPConfig                `yaml:"http"`
	Observability ObservabilityConfig       `yaml:"observability"`
}

// ServerConfig holds the webhook listener settings.
type ServerConfig struct {
	Addr            string `yaml:"addr"`
	WebhookSecret   string `yaml:"webhookSecret"`
	ShutdownTimeout string `yaml:"shutdownTimeout"`
}

// GitHubConfig holds the GitHub REST client settings.
type GitHubConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"baseURL"`
	Timeout string `yaml:"timeout"`
}

// LLMConfig selects the active generation provider and its call parameters.
type LLMConfig struct {
	Provider    string  `yaml:"provider"`
	MaxTokens   int     `yaml:"maxTokens"`
	Temperature float64 `yaml:"temperature"`
}

// ProviderConfig configures a single LLM provider.
type ProviderConfig struct {
	Model  string `yaml:"model"`
	APIKey string `yaml:"apiKey"`

	// HTTP overrides (optional, use global HTTP config if not set)
	Timeout        *string `yaml:"timeout,omitempty"`
	MaxRetries     *int    `yaml:"maxRetries,omitempty"`
	InitialBackoff *string `yaml:"initialBackoff,omitempty"`
	MaxBackoff     *string `yaml:"maxBackoff,omitempty"`
}

// HTTPConfig holds global HTTP client settings shared by the GitHub and LLM
// clients.
type HTTPConfig struct {
	Timeout           string  `yaml:"timeout"`
	MaxRetries        int     `yaml:"maxRetries"`
	InitialBackoff    string  `yaml:"initialBackoff"`
	MaxBackoff        string  `yaml:"maxBackoff"`
	BackoffMultiplier float64 `yaml:"backoffMultiplier"`
}

// ObservabilityConfig configures logging and metrics.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures request/response logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`  // debug, info, error
	Format        string `yaml:"format"` // json, human
	RedactAPIKeys bool   `yaml:"redactAPIKeys"`
}

// MetricsConfig configures the in-process metrics tracker.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Provider returns the configuration for a named provider, or a zero value
// when the provider was never configured.
func (c Config) Provider(name string) ProviderConfig {
	if c.Providers == nil {
		return ProviderConfig{}
	}
	return c.Providers[name]
}
