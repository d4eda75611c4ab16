package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, key := range []string{"GEMINI_API_KEY", "FILE_SEARCH_STORE_NAME", "PORT", "PORTFOLIO_DATA_DIR", "PORTFOLIO_MODEL", "PORTFOLIO_PROVIDER", "PORTFOLIO_BACKEND"} {
		t.Setenv(key, "")
	}
	return home
}

func TestLoadCreatesDefaults(t *testing.T) {
	home := setupHome(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !FileExists(filepath.Join(home, ".config", "vickie-portfolio", "settings.toml")) {
		t.Error("Load() should create settings.toml")
	}
	if !FileExists(UserConfigPath(cfg.DataDir())) {
		t.Error("Load() should create config.toml")
	}

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"provider", cfg.Provider, "gemini"},
		{"model", cfg.Model, "gemini-2.5-flash"},
		{"temperature", cfg.Temperature, float32(0.7)},
		{"top_p", cfg.TopP, float32(0.95)},
		{"port", cfg.Port, 3001},
		{"prefix", cfg.APIPrefix, "/api"},
		{"theme", cfg.Theme, "dark"},
		{"reveal delay", cfg.RevealDelay, 15 * time.Millisecond},
		{"title delay", cfg.TitleDelay, 60 * time.Millisecond},
		{"subtitle delay", cfg.SubtitleDelay, 30 * time.Millisecond},
		{"store configured", cfg.HasFileSearchStore(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %v, want %v", tt.got, tt.want)
			}
		})
	}

	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "http://localhost:3000" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
	if cfg.Prompt() != DefaultSystemPrompt {
		t.Error("Prompt() should fall back to the built-in persona")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	setupHome(t)
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("PORTFOLIO_DATA_DIR", dataDir)
	t.Setenv("GEMINI_API_KEY", "key-123")
	t.Setenv("FILE_SEARCH_STORE_NAME", "fileSearchStores/abc")
	t.Setenv("PORT", "8080")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir() != dataDir {
		t.Errorf("DataDir() = %q, want %q", cfg.DataDir(), dataDir)
	}
	if cfg.GeminiAPIKey != "key-123" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if !cfg.HasFileSearchStore() || cfg.FileSearchStoreName != "fileSearchStores/abc" {
		t.Errorf("FileSearchStoreName = %q", cfg.FileSearchStoreName)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}

	info, err := os.Stat(dataDir)
	if err != nil {
		t.Fatalf("data dir not created: %v", err)
	}
	if info.Mode().Perm() != 0700 {
		t.Errorf("data dir perms = %o, want 700", info.Mode().Perm())
	}
}

func TestLoadInvalidPortIgnored(t *testing.T) {
	setupHome(t)
	t.Setenv("PORT", "not-a-port")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
}

func TestUserConfigValuesApplied(t *testing.T) {
	setupHome(t)
	dataDir := t.TempDir()
	t.Setenv("PORTFOLIO_DATA_DIR", dataDir)

	content := `
system_prompt = "Be brief."

[gemini]
model = "gemini-2.5-pro"
temperature = 0.2

[provider]
type = "ollama"
model = "llama3.1:latest"

[ui]
theme = "light"
overlap = "serial"
reveal_delay_ms = 5
`
	if err := os.WriteFile(UserConfigPath(dataDir), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prompt() != "Be brief." {
		t.Errorf("Prompt() = %q", cfg.Prompt())
	}
	if cfg.Model != "gemini-2.5-pro" || cfg.Temperature != float32(0.2) {
		t.Errorf("gemini section = %q/%v", cfg.Model, cfg.Temperature)
	}
	if cfg.TopP != float32(DefaultTopP) {
		t.Errorf("TopP = %v, want default", cfg.TopP)
	}
	if cfg.ActiveModel() != "llama3.1:latest" {
		t.Errorf("ActiveModel() = %q", cfg.ActiveModel())
	}
	if cfg.Theme != "light" || cfg.Overlap != "serial" {
		t.Errorf("ui section = %q/%q", cfg.Theme, cfg.Overlap)
	}
	if cfg.RevealDelay != 5*time.Millisecond {
		t.Errorf("RevealDelay = %v", cfg.RevealDelay)
	}
}

func TestSaveStoreName(t *testing.T) {
	setupHome(t)
	dataDir := t.TempDir()
	t.Setenv("PORTFOLIO_DATA_DIR", dataDir)

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := SaveStoreName(dataDir, "fileSearchStores/vickie-portfolio-1"); err != nil {
		t.Fatalf("SaveStoreName() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FileSearchStoreName != "fileSearchStores/vickie-portfolio-1" {
		t.Errorf("FileSearchStoreName = %q", cfg.FileSearchStoreName)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("saving the store should keep other values, Model = %q", cfg.Model)
	}
}

func TestReloadDoesNotMutateReceiver(t *testing.T) {
	setupHome(t)
	dataDir := t.TempDir()
	t.Setenv("PORTFOLIO_DATA_DIR", dataDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := SaveStoreName(dataDir, "fileSearchStores/new"); err != nil {
		t.Fatal(err)
	}

	next, err := cfg.Reload()
	if err != nil {
		t.Fatalf("Reload() error = %v", err)
	}
	if cfg.HasFileSearchStore() {
		t.Error("Reload() must not modify the receiver")
	}
	if next.FileSearchStoreName != "fileSearchStores/new" {
		t.Errorf("next.FileSearchStoreName = %q", next.FileSearchStoreName)
	}
}

func TestWatchReloadsOnChange(t *testing.T) {
	setupHome(t)
	dataDir := t.TempDir()
	t.Setenv("PORTFOLIO_DATA_DIR", dataDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan *Config, 1)
	watchErr := make(chan error, 1)
	go func() {
		watchErr <- Watch(ctx, cfg, 20*time.Millisecond, func(c *Config) {
			select {
			case changed <- c:
			default:
			}
		}, nil)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	if err := SaveStoreName(dataDir, "fileSearchStores/watched"); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changed:
		if c.FileSearchStoreName != "fileSearchStores/watched" {
			t.Errorf("reloaded store = %q", c.FileSearchStoreName)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch() did not report the change")
	}

	cancel()
	if err := <-watchErr; err != nil {
		t.Errorf("Watch() error = %v", err)
	}
}

func TestKeybindings(t *testing.T) {
	kb := DefaultKeybindings()

	tests := []struct {
		action  string
		key     string
		display string
	}{
		{"toggle_theme", "alt+t", "Alt+T"},
		{"half_page_down", "alt+J", "Alt+Shift+J"},
		{"page_down", "pgdown", "Pgdown"},
		{"unknown", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			if got := kb.GetActionKey(tt.action); got != tt.key {
				t.Errorf("GetActionKey(%q) = %q, want %q", tt.action, got, tt.key)
			}
			if got := kb.DisplayActionKey(tt.action); got != tt.display {
				t.Errorf("DisplayActionKey(%q) = %q, want %q", tt.action, got, tt.display)
			}
		})
	}

	kb.Actions = map[string]string{"toggle_theme": "ctrl+t"}
	if got := kb.GetActionKey("toggle_theme"); got != "ctrl+t" {
		t.Errorf("override ignored, got %q", got)
	}

	kb.Modifiers.Primary = "shift"
	if ok, _ := kb.Validate(); ok {
		t.Error("Validate() should reject shift as primary modifier")
	}
}

func TestLoadKeybindingsCreatesTemplate(t *testing.T) {
	dataDir := t.TempDir()

	kb, err := LoadKeybindings(dataDir)
	if err != nil {
		t.Fatalf("LoadKeybindings() error = %v", err)
	}
	if kb.Primary() != "alt" {
		t.Errorf("Primary() = %q", kb.Primary())
	}
	if !FileExists(filepath.Join(dataDir, "keybindings.toml")) {
		t.Error("template not written")
	}

	kb, err = LoadKeybindings(dataDir)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if kb.Secondary() != "alt+shift" {
		t.Errorf("Secondary() = %q", kb.Secondary())
	}
	if len(Actions()) == 0 {
		t.Error("Actions() is empty")
	}
}
