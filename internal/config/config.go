// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Time     TimeConfig     `mapstructure:"time"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// FetchConfig governs the HTTP client and its retry policy.
type FetchConfig struct {
	UserAgent      string `mapstructure:"user_agent"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	RetryAttempts  int    `mapstructure:"retry_attempts"`
	RetryDelayMs   int    `mapstructure:"retry_delay_ms"`
}

// BatchConfig bounds concurrent fan-out work.
type BatchConfig struct {
	PoolSize int `mapstructure:"pool_size"`
}

// TimeConfig names the timezones used when normalizing upstream timestamps.
// SourceZone is the zone the livescore site renders times in; DisplayZone is
// the zone kickoff times are presented in.
type TimeConfig struct {
	SourceZone  string `mapstructure:"source_zone"`
	DisplayZone string `mapstructure:"display_zone"`
}

// UpstreamConfig holds the third-party endpoints the service scrapes.
type UpstreamConfig struct {
	LivescoreURL    string `mapstructure:"livescore_url"`
	SearchURL       string `mapstructure:"search_url"`
	NextMatchesBase string `mapstructure:"next_matches_base"`
	TrendingURL     string `mapstructure:"trending_url"`
	StandingsURL    string `mapstructure:"standings_url"`
	FIFARankingURL  string `mapstructure:"fifa_ranking_url"`
	ClubBaseURL     string `mapstructure:"club_base_url"`
}

// DatasetConfig locates the canonical entity snapshot.
type DatasetConfig struct {
	Path                string `mapstructure:"path"`
	HarvestDelaySeconds int    `mapstructure:"harvest_delay_seconds"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOOTFEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("fetch.user_agent",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/47.0.2526.106 Safari/537.36")
	v.SetDefault("fetch.timeout_seconds", 90)
	v.SetDefault("fetch.retry_attempts", 3)
	v.SetDefault("fetch.retry_delay_ms", 1000)
	v.SetDefault("batch.pool_size", 8)
	v.SetDefault("time.source_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("time.display_zone", "Asia/Ho_Chi_Minh")
	v.SetDefault("upstream.livescore_url", "https://bongda24h.vn/LiveScore/AjaxLivescore")
	v.SetDefault("upstream.search_url", "https://www.transfermarkt.com/schnellsuche/ergebnis/schnellsuche")
	v.SetDefault("upstream.next_matches_base", "https://www.transfermarkt.com/ceapi/nextMatches/")
	v.SetDefault("upstream.trending_url", "https://trends.google.com/trends/api/dailytrends")
	v.SetDefault("upstream.standings_url", "https://bongda24h.vn/bong-da-anh/bang-xep-hang-1.html")
	v.SetDefault("upstream.fifa_ranking_url", "https://bongda24h.vn/bang-xep-hang-fifa-nam.html")
	v.SetDefault("upstream.club_base_url", "https://bongda24h.vn/")
	v.SetDefault("dataset.path", "data/club_details.csv")
	v.SetDefault("dataset.harvest_delay_seconds", 10)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		return fmt.Errorf("fetch.timeout_seconds must be > 0")
	}
	if c.Fetch.RetryAttempts < 1 {
		return fmt.Errorf("fetch.retry_attempts must be >= 1")
	}
	if c.Batch.PoolSize <= 0 {
		return fmt.Errorf("batch.pool_size must be > 0")
	}
	if c.Time.SourceZone == "" || c.Time.DisplayZone == "" {
		return fmt.Errorf("time.source_zone and time.display_zone must be set")
	}
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path must be set")
	}
	return nil
}

// FetchTimeout returns the per-request timeout as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed wait between fetch attempts.
func (c Config) RetryDelay() time.Duration {
	return time.Duration(c.Fetch.RetryDelayMs) * time.Millisecond
}

// HarvestDelay returns the pause between league-page fetches.
func (c Config) HarvestDelay() time.Duration {
	return time.Duration(c.Dataset.HarvestDelaySeconds) * time.Second
}
