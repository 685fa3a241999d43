// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Search    SearchConfig    `yaml:"search" mapstructure:"search"`
	Fetch     FetchConfig     `yaml:"fetch" mapstructure:"fetch"`
	Geocode   GeocodeConfig   `yaml:"geocode" mapstructure:"geocode"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Notion    NotionConfig    `yaml:"notion" mapstructure:"notion"`
	Email     EmailConfig     `yaml:"email" mapstructure:"email"`
	Output    OutputConfig    `yaml:"output" mapstructure:"output"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// SearchConfig configures default search parameters.
type SearchConfig struct {
	RadiusMiles int `yaml:"radius_miles" mapstructure:"radius_miles"`
	Limit       int `yaml:"limit" mapstructure:"limit"`
}

// FetchConfig configures the page fetcher.
type FetchConfig struct {
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	MaxPages     int    `yaml:"max_pages" mapstructure:"max_pages"`
	TimeoutSecs  int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MinDelayMS   int    `yaml:"min_delay_ms" mapstructure:"min_delay_ms"`
	MaxDelayMS   int    `yaml:"max_delay_ms" mapstructure:"max_delay_ms"`
	MaxAttempts  int    `yaml:"max_attempts" mapstructure:"max_attempts"`
	DebugDumpDir string `yaml:"debug_dump_dir" mapstructure:"debug_dump_dir"`
}

// Timeout returns the per-request fetch timeout.
func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// GeocodeConfig configures the Nominatim lookup and its disk cache.
type GeocodeConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	Contact     string `yaml:"contact" mapstructure:"contact"`
	CachePath   string `yaml:"cache_path" mapstructure:"cache_path"`
	MinDelayMS  int    `yaml:"min_delay_ms" mapstructure:"min_delay_ms"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnthropicConfig holds Anthropic API settings for listing scoring.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// NotionConfig holds Notion API credentials for the spreadsheet sync.
type NotionConfig struct {
	Token     string `yaml:"token" mapstructure:"token"`
	ListingDB string `yaml:"listing_db" mapstructure:"listing_db"`
}

// EmailConfig configures the summary notifier.
type EmailConfig struct {
	SMTPHost string   `yaml:"smtp_host" mapstructure:"smtp_host"`
	SMTPPort int      `yaml:"smtp_port" mapstructure:"smtp_port"`
	Username string   `yaml:"username" mapstructure:"username"`
	Password string   `yaml:"password" mapstructure:"password"`
	From     string   `yaml:"from" mapstructure:"from"`
	To       []string `yaml:"to" mapstructure:"to"`
	MinScore int      `yaml:"min_score" mapstructure:"min_score"`
}

// OutputConfig configures result file paths. XLSXPath is optional; when
// empty no spreadsheet file is written.
type OutputConfig struct {
	JSONPath string `yaml:"json_path" mapstructure:"json_path"`
	TextPath string `yaml:"text_path" mapstructure:"text_path"`
	XLSXPath string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SALESCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("search.radius_miles", 25)
	v.SetDefault("search.limit", 15)
	v.SetDefault("fetch.base_url", "https://www.estatesales.net")
	v.SetDefault("fetch.max_pages", 1)
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.min_delay_ms", 1000)
	v.SetDefault("fetch.max_delay_ms", 3000)
	v.SetDefault("fetch.max_attempts", 3)
	v.SetDefault("geocode.enabled", true)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.contact", "contact@example.com")
	v.SetDefault("geocode.cache_path", "data/geocode_cache.json")
	v.SetDefault("geocode.min_delay_ms", 1100)
	v.SetDefault("geocode.timeout_secs", 15)
	v.SetDefault("anthropic.key", "")
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("notion.token", "")
	v.SetDefault("notion.listing_db", "")
	v.SetDefault("email.smtp_host", "")
	v.SetDefault("email.smtp_port", 587)
	v.SetDefault("email.min_score", 4)
	v.SetDefault("output.json_path", "scraped_sales.json")
	v.SetDefault("output.text_path", "scraped_sales.txt")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
