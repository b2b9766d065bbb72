// Package config loads application configuration from a YAML file,
// environment variables, and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App    App    `mapstructure:"app"`
	Search Search `mapstructure:"search"`
}

// App holds general application configuration.
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// Search holds meta-search orchestration configuration.
type Search struct {
	DefaultStrategy      string         `mapstructure:"default_strategy"`
	MaxResultsPerAdapter int            `mapstructure:"max_results_per_adapter"`
	MaxTotalResults      int            `mapstructure:"max_total_results"`
	Timeout              string         `mapstructure:"timeout"`
	MinSnippetLength     int            `mapstructure:"min_snippet_length"`
	EnableDeduplication  bool           `mapstructure:"enable_deduplication"`
	EnableRanking        bool           `mapstructure:"enable_ranking"`
	PreferredAdapters    []string       `mapstructure:"preferred_adapters"`
	FallbackAdapters     []string       `mapstructure:"fallback_adapters"`
	Adapters             SearchAdapters `mapstructure:"adapters"`
}

// SearchAdapters holds per-adapter configuration.
type SearchAdapters struct {
	Google GoogleConfig `mapstructure:"google"`
	Bing   BingConfig   `mapstructure:"bing"`
}

// GoogleConfig holds Google Custom Search credentials. When empty the
// adapter falls back to scraping.
type GoogleConfig struct {
	APIKey   string `mapstructure:"api_key"`
	SearchID string `mapstructure:"search_id"`
}

// BingConfig holds the Bing Web Search API key. When empty the adapter
// falls back to scraping.
type BingConfig struct {
	APIKey string `mapstructure:"api_key"`
}

var globalConfig *Config

// Load reads configuration from the given file (or the default search
// paths), layering .env and environment variables on top of defaults.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".osint-search")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary.
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Used by tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("search.default_strategy", "adaptive")
	viper.SetDefault("search.max_results_per_adapter", 10)
	viper.SetDefault("search.max_total_results", 50)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.min_snippet_length", 20)
	viper.SetDefault("search.enable_deduplication", true)
	viper.SetDefault("search.enable_ranking", true)
	viper.SetDefault("search.preferred_adapters", []string{"duckduckgo", "lynx", "curl"})
	viper.SetDefault("search.fallback_adapters", []string{"google", "bing"})
}

func bindEnvironmentVariables() {
	bindEnvKeys("app.log_level", []string{"OSINT_SEARCH_LOG_LEVEL"})
	bindEnvKeys("search.adapters.google.api_key", []string{"GOOGLE_API_KEY", "GOOGLE_CSE_API_KEY"})
	bindEnvKeys("search.adapters.google.search_id", []string{"GOOGLE_CSE_ID", "GOOGLE_SEARCH_ENGINE_ID"})
	bindEnvKeys("search.adapters.bing.api_key", []string{"BING_API_KEY"})
}

func bindEnvKeys(viperKey string, envKeys []string) {
	for _, envKey := range envKeys {
		if err := viper.BindEnv(viperKey, envKey); err != nil {
			fmt.Printf("Warning: Failed to bind env var %s: %v\n", envKey, err)
		}
	}
}

func validateConfig(config *Config) error {
	if config.Search.MaxResultsPerAdapter <= 0 {
		return fmt.Errorf("search.max_results_per_adapter must be positive, got %d", config.Search.MaxResultsPerAdapter)
	}
	if config.Search.MaxTotalResults <= 0 {
		return fmt.Errorf("search.max_total_results must be positive, got %d", config.Search.MaxTotalResults)
	}
	if _, err := time.ParseDuration(config.Search.Timeout); err != nil {
		return fmt.Errorf("search.timeout is not a valid duration: %w", err)
	}
	return nil
}

// TimeoutDuration returns the parsed per-adapter timeout.
func (s Search) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(s.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// GetApp returns the application section.
func GetApp() App { return Get().App }

// GetSearch returns the search section.
func GetSearch() Search { return Get().Search }
