package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"linkbatch/internal/flags"

	"github.com/pelletier/go-toml/v2"
)

// FileConfig is the on-disk configuration. It only carries settings that
// make sense to persist between runs; per-run selection and action flags
// have no file equivalent.
type FileConfig struct {
	Backend struct {
		URL       string `toml:"url"`
		Token     string `toml:"token"`
		TokenFile string `toml:"token_file"`
	} `toml:"backend"`
	Runtime struct {
		Concurrency int `toml:"concurrency"`
		MaxRequests int `toml:"max_requests"`
	} `toml:"runtime"`
}

// DefaultFilePath returns the conventional config file location
// ($XDG_CONFIG_HOME/linkbatch/config.toml or ~/.config/linkbatch/config.toml).
func DefaultFilePath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "linkbatch", "config.toml")
}

// LoadFile parses the TOML config at path. A missing file is not an error
// when explicit is false (the default path simply may not exist yet).
func LoadFile(path string, explicit bool) (*FileConfig, error) {
	if path == "" {
		return &FileConfig{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return &FileConfig{}, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var fc FileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &fc, nil
}

// ApplyFile fills cfg from fc for every setting the user did not supply on
// the command line. flagChanged reports whether the named flag was set
// explicitly; flags always win over file values.
func (c *Config) ApplyFile(fc *FileConfig, flagChanged func(name string) bool) {
	if fc == nil {
		return
	}
	if flagChanged == nil {
		flagChanged = func(string) bool { return false }
	}
	if c.Backend.URL == "" {
		c.Backend.URL = fc.Backend.URL
	}
	// Backend.Token is deliberately not merged here: token precedence
	// (flag > env > file > token_file) lives in backend.ResolveAuthToken.
	if c.Backend.TokenFile == "" {
		c.Backend.TokenFile = fc.Backend.TokenFile
	}
	if fc.Runtime.Concurrency > 0 && !flagChanged(flags.FlagConcurrency) {
		c.Runtime.Concurrency = fc.Runtime.Concurrency
	}
	if fc.Runtime.MaxRequests > 0 && !flagChanged(flags.FlagMaxRequests) {
		c.Runtime.MaxRequests = fc.Runtime.MaxRequests
	}
}
