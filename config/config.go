package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type GeminiConfig struct {
	APIKey          string  `toml:"api_key,omitempty"`
	Model           string  `toml:"model"`
	Temperature     float32 `toml:"temperature"`
	TopP            float32 `toml:"top_p"`
	MaxOutputTokens int32   `toml:"max_output_tokens,omitempty"`
	FileSearchStore string  `toml:"file_search_store,omitempty"`
}

// ProviderConfig selects the generation backend. Type "gemini" uses the
// [gemini] section; "openai", "anthropic" and "ollama" answer without
// retrieval.
type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	APIKey  string `toml:"api_key,omitempty"`
	Model   string `toml:"model,omitempty"`
}

type ServerConfig struct {
	Port           int      `toml:"port"`
	Prefix         string   `toml:"prefix"`
	AllowedOrigins []string `toml:"allowed_origins"`
	RateLimit      float64  `toml:"rate_limit"`
	RateBurst      int      `toml:"rate_burst"`
	MaxBodyBytes   int64    `toml:"max_body_bytes"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

type UIConfig struct {
	Theme           string `toml:"theme"`
	Split           string `toml:"split"`
	Overlap         string `toml:"overlap"`
	SkipIntro       bool   `toml:"skip_intro"`
	BackendURL      string `toml:"backend_url,omitempty"`
	TitleDelayMS    int    `toml:"title_delay_ms"`
	SubtitleDelayMS int    `toml:"subtitle_delay_ms"`
	RevealDelayMS   int    `toml:"reveal_delay_ms"`
}

type LoggingConfig struct {
	Transcripts bool `toml:"transcripts"`
}

type UserConfig struct {
	Gemini       GeminiConfig   `toml:"gemini"`
	Provider     ProviderConfig `toml:"provider"`
	Server       ServerConfig   `toml:"server"`
	UI           UIConfig       `toml:"ui"`
	Logging      LoggingConfig  `toml:"logging"`
	SystemPrompt string         `toml:"system_prompt,omitempty"`
}

// Config is the merged view of settings.toml, config.toml and the
// environment.
type Config struct {
	DataDirectory string

	Provider        string
	ProviderBaseURL string
	ProviderAPIKey  string
	ProviderModel   string

	GeminiAPIKey        string
	Model               string
	Temperature         float32
	TopP                float32
	MaxOutputTokens     int32
	FileSearchStoreName string
	SystemPrompt        string

	Port           int
	APIPrefix      string
	AllowedOrigins []string
	RateLimit      float64
	RateBurst      int
	MaxBodyBytes   int64
	RequestTimeout time.Duration

	Theme         string
	Split         string
	Overlap       string
	SkipIntro     bool
	BackendURL    string
	TitleDelay    time.Duration
	SubtitleDelay time.Duration
	RevealDelay   time.Duration

	LogTranscripts bool
}

var Debug = false
var DebugLog *log.Logger

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// HasFileSearchStore reports whether retrieval is configured.
func (c *Config) HasFileSearchStore() bool {
	return c.FileSearchStoreName != ""
}

// Prompt returns the persona prompt in effect.
func (c *Config) Prompt() string {
	if c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	return DefaultSystemPrompt
}

// ActiveModel is the model name of the selected provider.
func (c *Config) ActiveModel() string {
	if c.Provider == "" || c.Provider == "gemini" {
		return c.Model
	}
	return c.ProviderModel
}

func (c *Config) applyUserConfig(u *UserConfig) {
	c.Provider = u.Provider.Type
	c.ProviderBaseURL = u.Provider.BaseURL
	c.ProviderAPIKey = u.Provider.APIKey
	c.ProviderModel = u.Provider.Model

	c.GeminiAPIKey = u.Gemini.APIKey
	c.Model = u.Gemini.Model
	c.Temperature = u.Gemini.Temperature
	c.TopP = u.Gemini.TopP
	c.MaxOutputTokens = u.Gemini.MaxOutputTokens
	c.FileSearchStoreName = u.Gemini.FileSearchStore
	c.SystemPrompt = u.SystemPrompt

	c.Port = u.Server.Port
	c.APIPrefix = u.Server.Prefix
	c.AllowedOrigins = u.Server.AllowedOrigins
	c.RateLimit = u.Server.RateLimit
	c.RateBurst = u.Server.RateBurst
	c.MaxBodyBytes = u.Server.MaxBodyBytes
	c.RequestTimeout = time.Duration(u.Server.TimeoutSeconds) * time.Second

	c.Theme = u.UI.Theme
	c.Split = u.UI.Split
	c.Overlap = u.UI.Overlap
	c.SkipIntro = u.UI.SkipIntro
	c.BackendURL = u.UI.BackendURL
	c.TitleDelay = time.Duration(u.UI.TitleDelayMS) * time.Millisecond
	c.SubtitleDelay = time.Duration(u.UI.SubtitleDelayMS) * time.Millisecond
	c.RevealDelay = time.Duration(u.UI.RevealDelayMS) * time.Millisecond

	c.LogTranscripts = u.Logging.Transcripts
}

// fillDefaults restores defaults for values a hand-edited config.toml
// left out or zeroed.
func (c *Config) fillDefaults() {
	d := defaultConfig()
	if c.Provider == "" {
		c.Provider = d.Provider
	}
	if c.Model == "" {
		c.Model = d.Model
	}
	if c.Temperature == 0 {
		c.Temperature = d.Temperature
	}
	if c.TopP == 0 {
		c.TopP = d.TopP
	}
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.APIPrefix == "" {
		c.APIPrefix = d.APIPrefix
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = d.AllowedOrigins
	}
	if c.RateLimit == 0 {
		c.RateLimit = d.RateLimit
	}
	if c.RateBurst == 0 {
		c.RateBurst = d.RateBurst
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = d.MaxBodyBytes
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = d.RequestTimeout
	}
	if c.Theme == "" {
		c.Theme = d.Theme
	}
	if c.Split == "" {
		c.Split = d.Split
	}
	if c.Overlap == "" {
		c.Overlap = d.Overlap
	}
	if c.TitleDelay == 0 {
		c.TitleDelay = d.TitleDelay
	}
	if c.SubtitleDelay == 0 {
		c.SubtitleDelay = d.SubtitleDelay
	}
	if c.RevealDelay == 0 {
		c.RevealDelay = d.RevealDelay
	}
}

func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.GeminiAPIKey = key
	}
	if store := os.Getenv("FILE_SEARCH_STORE_NAME"); store != "" {
		c.FileSearchStoreName = store
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			c.Port = n
		}
	}
	if dataDir := os.Getenv("PORTFOLIO_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if model := os.Getenv("PORTFOLIO_MODEL"); model != "" {
		if c.Provider == "gemini" {
			c.Model = model
		} else {
			c.ProviderModel = model
		}
	}
	if provider := os.Getenv("PORTFOLIO_PROVIDER"); provider != "" {
		c.Provider = provider
	}
	if backend := os.Getenv("PORTFOLIO_BACKEND"); backend != "" {
		c.BackendURL = backend
	}
}

func CheckDebug() bool {
	debug := os.Getenv("PORTFOLIO_DEBUG")
	return debug == "true" || debug == "1"
}

// InitDebugLog opens <dataDir>/debug.log when PORTFOLIO_DEBUG is set. The
// terminal chat owns stdout, so this is its only log sink.
func InitDebugLog(dataDir string) {
	if !CheckDebug() {
		return
	}

	Debug = true
	logPath := filepath.Join(dataDir, "debug.log")

	// Create debug log with secure permissions (0600 - may contain visitor questions)
	f, err := os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not open debug log at %s: %v\n", logPath, err)
		return
	}

	DebugLog = log.New(f, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	DebugLog.Printf("=== Debug logging started (PORTFOLIO_DEBUG=%s) ===", os.Getenv("PORTFOLIO_DEBUG"))
	DebugLog.Printf("Log path: %s", logPath)
}

// Load reads settings.toml and <data_dir>/config.toml (creating both from
// templates on first run), then applies environment overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	systemCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}
	if systemCfg.DataDirectory != "" {
		cfg.DataDirectory = systemCfg.DataDirectory
	}
	if dataDir := os.Getenv("PORTFOLIO_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := ensurePrivateDir(dataDir); err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	if err := cfg.reload(dataDir); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Reload re-reads config.toml from the data directory of c and returns a
// fresh Config; c itself is not modified.
func (c *Config) Reload() (*Config, error) {
	next := defaultConfig()
	next.DataDirectory = c.DataDirectory
	if err := next.reload(c.DataDir()); err != nil {
		return nil, err
	}
	return next, nil
}

func (c *Config) reload(dataDir string) error {
	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return fmt.Errorf("failed to load user config: %w", err)
	}

	dataDirectory := c.DataDirectory
	c.applyUserConfig(userCfg)
	c.fillDefaults()
	c.applyEnvOverrides()
	c.DataDirectory = dataDirectory
	return nil
}
