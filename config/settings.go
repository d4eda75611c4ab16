package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// loadOrCreate decodes the TOML file at path into dst. A missing file is
// first written from template, and dst keeps the defaults it came with.
func loadOrCreate(path string, dst any, template func() string) error {
	if !FileExists(path) {
		return writePrivateFile(path, []byte(template()))
	}
	if _, err := toml.DecodeFile(path, dst); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadSystemConfig reads settings.toml, which only locates the data
// directory.
func LoadSystemConfig() (*SystemConfig, error) {
	cfg := DefaultSystemConfig()
	if err := loadOrCreate(SettingsPath(), cfg, GenerateSystemConfigTemplate); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadUserConfig reads <dataDir>/config.toml.
func LoadUserConfig(dataDir string) (*UserConfig, error) {
	cfg := DefaultUserConfig()
	if err := loadOrCreate(UserConfigPath(dataDir), cfg, GenerateUserConfigTemplate); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveUserConfig rewrites config.toml from cfg. Comments from the template
// are not preserved.
func SaveUserConfig(cfg *UserConfig, dataDir string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode user config: %w", err)
	}
	return writePrivateFile(UserConfigPath(dataDir), buf.Bytes())
}

// SaveStoreName records the File Search store created by setup-store so
// later runs use it without FILE_SEARCH_STORE_NAME.
func SaveStoreName(dataDir, storeName string) error {
	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return err
	}
	cfg.Gemini.FileSearchStore = storeName
	return SaveUserConfig(cfg, dataDir)
}
