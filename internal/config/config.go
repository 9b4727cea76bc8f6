package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Supabase SupabaseConfig `mapstructure:"supabase"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Fitbit   ProviderConfig `mapstructure:"fitbit"`
	Google   ProviderConfig `mapstructure:"google"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Insights InsightsConfig `mapstructure:"insights"`
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string `mapstructure:"port"`
	Env  string `mapstructure:"env"`
	// AppScheme is the custom URL scheme the OAuth bridge redirects into.
	AppScheme string `mapstructure:"app_scheme"`
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level   string `mapstructure:"level"`
	Backend string `mapstructure:"backend"` // "slog" or "zap"
	Format  string `mapstructure:"format"`  // "json" or "text"
}

// SupabaseConfig holds Supabase-specific configuration
type SupabaseConfig struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

// RedisConfig holds the optional Redis connection used for insight run
// state. An empty Addr selects the in-memory store.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// ProviderConfig holds OAuth credentials for one external provider
type ProviderConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	BaseURL      string `mapstructure:"base_url"`
	TokenURL     string `mapstructure:"token_url"`
}

// WeatherConfig holds the daily weather API endpoint
type WeatherConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LLMConfig holds the chat-completion API configuration
type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
	// StrictParse rejects malformed insight arrays instead of substituting
	// the fallback recommendation.
	StrictParse bool `mapstructure:"strict_parse"`
}

// InsightsConfig holds the analysis scheduler configuration
type InsightsConfig struct {
	// Frequency is how often a fresh analysis run is due. One of
	// 5m, 15m, 30m, 1h, 2h.
	Frequency time.Duration `mapstructure:"frequency"`
}

// Load reads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set default values
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.env", "development")
	v.SetDefault("server.app_scheme", "lunahealth")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.backend", "slog")
	v.SetDefault("logger.format", "json")
	v.SetDefault("fitbit.base_url", "https://api.fitbit.com")
	v.SetDefault("fitbit.token_url", "https://api.fitbit.com/oauth2/token")
	v.SetDefault("google.base_url", "https://www.googleapis.com/calendar/v3")
	v.SetDefault("google.token_url", "https://oauth2.googleapis.com/token")
	v.SetDefault("weather.base_url", "https://api.open-meteo.com")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.strict_parse", false)
	v.SetDefault("insights.frequency", "30m")
	v.SetDefault("redis.db", 0)

	// Read from environment variables
	v.SetEnvPrefix("LUNA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Also bind to non-prefixed environment variables used in deployment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("supabase.url", "SUPABASE_URL")
	v.BindEnv("supabase.service_key", "SUPABASE_SERVICE_KEY")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("fitbit.client_id", "FITBIT_CLIENT_ID")
	v.BindEnv("fitbit.client_secret", "FITBIT_CLIENT_SECRET")
	v.BindEnv("google.client_id", "GOOGLE_CLIENT_ID")
	v.BindEnv("google.client_secret", "GOOGLE_CLIENT_SECRET")
	v.BindEnv("llm.api_key", "OPENAI_API_KEY")

	// Read from config file if it exists
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// It's okay if config file doesn't exist
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// allowedFrequencies are the refresh intervals a user may choose.
var allowedFrequencies = []time.Duration{
	5 * time.Minute,
	15 * time.Minute,
	30 * time.Minute,
	time.Hour,
	2 * time.Hour,
}

// Validate checks that all required configuration values are present
func (c *Config) Validate() error {
	if c.Supabase.URL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.Supabase.ServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}

	valid := false
	for _, f := range allowedFrequencies {
		if c.Insights.Frequency == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("insights.frequency must be one of 5m, 15m, 30m, 1h, 2h, got %s", c.Insights.Frequency)
	}

	return nil
}
