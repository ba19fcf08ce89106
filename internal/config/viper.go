package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Budget struct {
		Token    string `mapstructure:"token" yaml:"-"` // never serialize the token
		BudgetID string `mapstructure:"budget_id" yaml:"budget_id"`
		Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	} `mapstructure:"budget" yaml:"budget"`

	Match struct {
		MinConfidence float64 `mapstructure:"min_confidence" yaml:"min_confidence"`
		Limit         int     `mapstructure:"limit" yaml:"limit"`
		SinceDate     string  `mapstructure:"since_date" yaml:"since_date"`
		HistorySince  string  `mapstructure:"history_since" yaml:"history_since"`
		OverridesFile string  `mapstructure:"overrides_file" yaml:"overrides_file"`
	} `mapstructure:"match" yaml:"match"`

	AI struct {
		Enabled         bool    `mapstructure:"enabled" yaml:"enabled"`
		Model           string  `mapstructure:"model" yaml:"model"`
		Temperature     float64 `mapstructure:"temperature" yaml:"temperature"`
		MaxOutputTokens int     `mapstructure:"max_output_tokens" yaml:"max_output_tokens"`
		TimeoutSeconds  int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Endpoint        string  `mapstructure:"endpoint" yaml:"endpoint"`
		APIKey          string  `mapstructure:"api_key" yaml:"-"` // never serialize the API key
	} `mapstructure:"ai" yaml:"ai"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ynab-autocat")
	v.AddConfigPath(".ynab-autocat")
	v.AddConfigPath(".")

	v.SetEnvPrefix("AUTOCAT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// config file not found is fine; an unreadable one is not
			return nil, fmt.Errorf("error reading config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// credentials always come from unprefixed environment variables
	if err := v.BindEnv("budget.token", "YNAB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind YNAB_TOKEN: %w", err)
	}
	if err := v.BindEnv("budget.budget_id", "YNAB_BUDGET_ID"); err != nil {
		return nil, fmt.Errorf("failed to bind YNAB_BUDGET_ID: %w", err)
	}
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind GEMINI_API_KEY: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks all configuration values. Commands re-run it after merging
// flag overrides into the loaded configuration.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("budget.endpoint", "")

	v.SetDefault("match.min_confidence", 0.6)
	v.SetDefault("match.limit", 0)
	v.SetDefault("match.since_date", "")
	v.SetDefault("match.history_since", "")
	v.SetDefault("match.overrides_file", "")

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.max_output_tokens", 512)
	v.SetDefault("ai.timeout_seconds", 30)
	v.SetDefault("ai.endpoint", "")
}

// validateConfig validates the configuration values. Any violation here is a
// fatal configuration error: it is reported once and the process exits before
// any matching work begins.
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Match.MinConfidence < 0.0 || config.Match.MinConfidence > 1.0 {
		return fmt.Errorf("match.min_confidence must be between 0.0 and 1.0, got: %v", config.Match.MinConfidence)
	}
	if config.Match.Limit < 0 {
		return fmt.Errorf("match.limit must be a positive integer or 0 to disable, got: %d", config.Match.Limit)
	}
	if err := validateDate("match.since_date", config.Match.SinceDate); err != nil {
		return err
	}
	if err := validateDate("match.history_since", config.Match.HistorySince); err != nil {
		return err
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI fallback is enabled")
		}
		if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
			return fmt.Errorf("ai.temperature must be between 0 and 2, got: %v", config.AI.Temperature)
		}
		if config.AI.MaxOutputTokens < 1 || config.AI.MaxOutputTokens > 2000 {
			return fmt.Errorf("ai.max_output_tokens must be between 1 and 2000, got: %d", config.AI.MaxOutputTokens)
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	return nil
}

// ValidateCredentials checks the settings required to talk to the budget
// service. Kept separate from validateConfig so commands that never touch the
// API (help, completion) do not demand credentials.
func (c *Config) ValidateCredentials() error {
	if c.Budget.Token == "" {
		return fmt.Errorf("YNAB_TOKEN is required")
	}
	if c.Budget.BudgetID == "" {
		return fmt.Errorf("YNAB_BUDGET_ID is required")
	}
	return nil
}

func validateDate(name, value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return fmt.Errorf("%s must be an ISO date (YYYY-MM-DD), got: %s", name, value)
	}
	return nil
}

// ConfigureLoggingFromConfig configures the global logrus logger based on the
// Config struct.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.StandardLogger()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
