package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const appName = "vickie-portfolio"

// File names inside the data directory.
const (
	userConfigFile  = "config.toml"
	keybindingsFile = "keybindings.toml"
	documentsDir    = "documents"
)

// HomeDir is $HOME, or %USERPROFILE% on Windows.
func HomeDir() string {
	var home string
	if runtime.GOOS == "windows" {
		home = os.Getenv("USERPROFILE")
		if home == "" {
			home = os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		}
	} else {
		home = os.Getenv("HOME")
	}
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			return h
		}
		return string(filepath.Separator)
	}
	return home
}

// ConfigDir holds settings.toml: ~/.config/vickie-portfolio on every
// platform.
func ConfigDir() string {
	return filepath.Join(HomeDir(), ".config", appName)
}

func SettingsPath() string {
	return filepath.Join(ConfigDir(), "settings.toml")
}

// UserConfigPath returns the location of config.toml inside dataDir.
func UserConfigPath(dataDir string) string {
	return filepath.Join(dataDir, userConfigFile)
}

func KeybindingsPath(dataDir string) string {
	return filepath.Join(dataDir, keybindingsFile)
}

// DocumentsDir is where setup-store looks for the resume and project
// write-ups by default.
func DocumentsDir(dataDir string) string {
	return filepath.Join(dataDir, documentsDir)
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		path = filepath.Join(HomeDir(), path[2:])
	}
	return filepath.Clean(os.ExpandEnv(path))
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ensurePrivateDir creates dir as 0700 and tightens an existing one.
// The data directory may hold API keys and visitor questions.
func ensurePrivateDir(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if info.Mode().Perm() != 0700 {
		if err := os.Chmod(dir, 0700); err != nil {
			return fmt.Errorf("failed to set permissions on %s: %w", dir, err)
		}
	}
	return nil
}

// writePrivateFile writes data as a 0600 file, creating its directory.
func writePrivateFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
