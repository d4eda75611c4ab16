package config

import "time"

const (
	DefaultModel       = "gemini-2.5-flash"
	DefaultTemperature = 0.7
	DefaultTopP        = 0.95
	DefaultPort        = 3001
	DefaultAPIPrefix   = "/api"
)

func defaultConfig() *Config {
	return &Config{
		DataDirectory:  "~/.local/share/vickie-portfolio",
		Provider:       "gemini",
		Model:          DefaultModel,
		Temperature:    DefaultTemperature,
		TopP:           DefaultTopP,
		Port:           DefaultPort,
		APIPrefix:      DefaultAPIPrefix,
		AllowedOrigins: []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		RateLimit:      1,
		RateBurst:      5,
		MaxBodyBytes:   64 << 10,
		RequestTimeout: 60 * time.Second,
		Theme:          "dark",
		Split:          "grapheme",
		Overlap:        "concurrent",
		TitleDelay:     60 * time.Millisecond,
		SubtitleDelay:  30 * time.Millisecond,
		RevealDelay:    15 * time.Millisecond,
	}
}

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/vickie-portfolio",
	}
}

func DefaultUserConfig() *UserConfig {
	d := defaultConfig()
	return &UserConfig{
		Gemini: GeminiConfig{
			Model:       d.Model,
			Temperature: d.Temperature,
			TopP:        d.TopP,
		},
		Provider: ProviderConfig{Type: d.Provider},
		Server: ServerConfig{
			Port:           d.Port,
			Prefix:         d.APIPrefix,
			AllowedOrigins: d.AllowedOrigins,
			RateLimit:      d.RateLimit,
			RateBurst:      d.RateBurst,
			MaxBodyBytes:   d.MaxBodyBytes,
			TimeoutSeconds: int(d.RequestTimeout / time.Second),
		},
		UI: UIConfig{
			Theme:           d.Theme,
			Split:           d.Split,
			Overlap:         d.Overlap,
			TitleDelayMS:    int(d.TitleDelay / time.Millisecond),
			SubtitleDelayMS: int(d.SubtitleDelay / time.Millisecond),
			RevealDelayMS:   int(d.RevealDelay / time.Millisecond),
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# Portfolio System Configuration
# Location: ~/.config/vickie-portfolio/settings.toml
# This file uses TOML format: https://toml.io

# Directory where config.toml, transcripts and logs are stored
data_directory = "~/.local/share/vickie-portfolio"
`
}

func GenerateUserConfigTemplate() string {
	return `# Portfolio User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io
# The server reloads this file when it changes.

# Persona prompt. Leave empty to use the built-in one.
system_prompt = ""

[gemini]
# Prefer the GEMINI_API_KEY environment variable over storing the key here
api_key = ""
model = "gemini-2.5-flash"
temperature = 0.7
top_p = 0.95
# Written by "portfolio setup-store"; overridden by FILE_SEARCH_STORE_NAME
file_search_store = ""

[provider]
# gemini (with retrieval), openai, anthropic or ollama (without retrieval)
type = "gemini"
base_url = ""
api_key = ""
model = ""

[server]
port = 3001
prefix = "/api"
allowed_origins = ["http://localhost:3000", "http://127.0.0.1:3000"]
# Requests per second per client, and burst size
rate_limit = 1.0
rate_burst = 5
max_body_bytes = 65536
timeout_seconds = 60

[ui]
# dark, light or auto (follows the terminal background)
theme = "dark"
# grapheme or rune
split = "grapheme"
# concurrent: every question is answered independently
# serial: questions queue behind the one being answered
overlap = "concurrent"
skip_intro = false
# Talk to a running "portfolio serve" instead of calling the model directly
backend_url = ""
title_delay_ms = 60
subtitle_delay_ms = 30
reveal_delay_ms = 15

[logging]
# Keep a local SQLite log of every question and answer
transcripts = false
`
}
