package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv    = "CURATORHUB_CONFIG"
	databasePathEnv  = "CURATORHUB_DB"
	geminiAPIKeyEnv  = "GEMINI_API_KEY"
	geminiModelEnv   = "GEMINI_MODEL"
	youtubeAPIKeyEnv = "YOUTUBE_API_KEY"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
	serverAddrEnv    = "CURATORHUB_ADDR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server        ServerConfig       `yaml:"server"`
	Database      DatabaseConfig     `yaml:"database"`
	Fetcher       FetcherConfig      `yaml:"fetcher"`
	Gemini        GeminiConfig       `yaml:"gemini"`
	YouTube       YouTubeConfig      `yaml:"youtube"`
	Notifications NotificationConfig `yaml:"notifications"`
	Janitor       JanitorConfig      `yaml:"janitor"`
	Submission    SubmissionConfig   `yaml:"submission"`
	Logging       LoggingConfig      `yaml:"logging"`
}

// ServerConfig describes the development HTTP server surface.
type ServerConfig struct {
	Addr     string `yaml:"addr"`
	BasePath string `yaml:"basePath"`
}

// DatabaseConfig describes the SQLite store location.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// FetcherConfig wires the relay endpoints used for cross-origin page loads.
type FetcherConfig struct {
	Proxies        []ProxyConfig `yaml:"proxies"`
	TimeoutSeconds int           `yaml:"timeoutSeconds"`
}

// ProxyConfig describes one relay endpoint. URL carries a %s placeholder
// for the encoded target; Format is "json" for wrapped responses or "raw".
type ProxyConfig struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Format string `yaml:"format"`
}

// Timeout resolves the per-proxy request deadline.
func (f FetcherConfig) Timeout() time.Duration {
	if f.TimeoutSeconds <= 0 {
		return 6 * time.Second
	}
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// GeminiConfig defines how to contact the Gemini generateContent API.
type GeminiConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// YouTubeConfig carries the optional Data API key used for video
// descriptions when scraping yields nothing.
type YouTubeConfig struct {
	APIKey string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// JanitorConfig controls the background purge of old trashed articles.
type JanitorConfig struct {
	Enabled         bool `yaml:"enabled"`
	IntervalMinutes int  `yaml:"intervalMinutes"`
	RetentionDays   int  `yaml:"retentionDays"`
}

// Interval resolves how often the janitor runs.
func (j JanitorConfig) Interval() time.Duration {
	if j.IntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.IntervalMinutes) * time.Minute
}

// Retention resolves how long trashed articles are kept before purge.
func (j JanitorConfig) Retention() time.Duration {
	if j.RetentionDays <= 0 {
		return 30 * 24 * time.Hour
	}
	return time.Duration(j.RetentionDays) * 24 * time.Hour
}

// SubmissionConfig tunes the interactive submission form.
type SubmissionConfig struct {
	DebounceMillis int `yaml:"debounceMillis"`
}

// Debounce resolves how long URL input must settle before enrichment runs.
func (s SubmissionConfig) Debounce() time.Duration {
	if s.DebounceMillis <= 0 {
		return 800 * time.Millisecond
	}
	return time.Duration(s.DebounceMillis) * time.Millisecond
}

// LoggingConfig picks the console log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	if len(cfg.Fetcher.Proxies) == 0 {
		cfg.Fetcher.Proxies = defaultConfig().Fetcher.Proxies
	}

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databasePathEnv); v != "" {
		c.Database.Path = v
	}

	if v := os.Getenv(serverAddrEnv); v != "" {
		c.Server.Addr = v
	}

	if v := os.Getenv(geminiAPIKeyEnv); v != "" {
		c.Gemini.APIKey = v
	}

	if v := os.Getenv(geminiModelEnv); v != "" {
		c.Gemini.Model = v
	}

	if v := os.Getenv(youtubeAPIKeyEnv); v != "" {
		c.YouTube.APIKey = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Server.BasePath != "" {
		base.Server.BasePath = override.Server.BasePath
	}

	if override.Database.Path != "" {
		base.Database = override.Database
	}

	if len(override.Fetcher.Proxies) > 0 {
		base.Fetcher.Proxies = override.Fetcher.Proxies
	}
	if override.Fetcher.TimeoutSeconds > 0 {
		base.Fetcher.TimeoutSeconds = override.Fetcher.TimeoutSeconds
	}

	if override.Gemini.Endpoint != "" {
		base.Gemini.Endpoint = override.Gemini.Endpoint
	}
	if override.Gemini.Model != "" {
		base.Gemini.Model = override.Gemini.Model
	}
	if override.Gemini.APIKey != "" {
		base.Gemini.APIKey = override.Gemini.APIKey
	}

	if override.YouTube.APIKey != "" {
		base.YouTube.APIKey = override.YouTube.APIKey
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Janitor.Enabled {
		base.Janitor.Enabled = true
	}
	if override.Janitor.IntervalMinutes > 0 {
		base.Janitor.IntervalMinutes = override.Janitor.IntervalMinutes
	}
	if override.Janitor.RetentionDays > 0 {
		base.Janitor.RetentionDays = override.Janitor.RetentionDays
	}

	if override.Submission.DebounceMillis > 0 {
		base.Submission.DebounceMillis = override.Submission.DebounceMillis
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Server:   ServerConfig{Addr: ":8080", BasePath: "/"},
		Database: DatabaseConfig{Path: "curatorhub.db"},
		Fetcher: FetcherConfig{
			TimeoutSeconds: 6,
			Proxies: []ProxyConfig{
				{Name: "allorigins", URL: "https://api.allorigins.win/get?url=%s", Format: "json"},
				{Name: "corsproxy", URL: "https://corsproxy.io/?url=%s", Format: "raw"},
				{Name: "codetabs", URL: "https://api.codetabs.com/v1/proxy?quest=%s", Format: "raw"},
			},
		},
		Gemini: GeminiConfig{
			Endpoint: "https://generativelanguage.googleapis.com/v1beta",
			Model:    "gemini-1.5-flash-latest",
			APIKey:   "",
		},
		Janitor:    JanitorConfig{Enabled: false, IntervalMinutes: 60, RetentionDays: 30},
		Submission: SubmissionConfig{DebounceMillis: 800},
		Logging:    LoggingConfig{Level: "info"},
	}
}
