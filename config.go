package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/joho/godotenv"
)

const (
	envCache      = "MONET_CACHE"
	envTarget     = "MONET_TARGET"
	envDataLayout = "MONET_DATALAYOUT"

	historyFile = "history"
)

// Config holds the settings read from the environment. Flags given on the
// command line override Target and DataLayout.
type Config struct {
	CacheDir   string
	Target     string
	DataLayout string
}

// loadConfig reads envFile into the environment, without replacing
// variables that are already set, and then builds a Config. A missing
// envFile is not an error.
func loadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	return Config{
		CacheDir:   defaultCacheDir(),
		Target:     os.Getenv(envTarget),
		DataLayout: os.Getenv(envDataLayout),
	}, nil
}

// defaultCacheDir returns MONET_CACHE if set, otherwise the per-user cache
// directory for the current OS.
func defaultCacheDir() string {
	if env := os.Getenv(envCache); env != "" {
		return env
	}

	homeDir, _ := os.UserHomeDir()
	switch runtime.GOOS {
	case "windows":
		if localAppData := os.Getenv("LocalAppData"); localAppData != "" {
			return filepath.Join(localAppData, "monet")
		}
		return filepath.Join(homeDir, "AppData", "Local", "monet")

	case "darwin":
		return filepath.Join(homeDir, "Library", "Caches", "monet")

	default: // Linux and others
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "monet")
		}
		return filepath.Join(homeDir, ".cache", "monet")
	}
}

// historyPath creates the cache directory if needed and returns the REPL
// history file inside it. It returns "" when the directory is unusable.
func (c Config) historyPath() string {
	if c.CacheDir == "" {
		return ""
	}
	if err := os.MkdirAll(c.CacheDir, 0o755); err != nil {
		return ""
	}
	return filepath.Join(c.CacheDir, historyFile)
}
