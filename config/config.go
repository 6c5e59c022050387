// Package config loads cuesheet's YAML configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/zenibako/cuesheet/cuesheet"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"

	DefaultQLabHost = "localhost"
	DefaultQLabPort = 53000
)

// QLabConfig is where `cuesheet push` sends cues.
type QLabConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Passcode string `yaml:"passcode,omitempty"`
}

type Config struct {
	DataDir  string            `yaml:"data_dir"`
	Backend  string            `yaml:"backend"`
	QLab     QLabConfig        `yaml:"qlab"`
	Settings cuesheet.Settings `yaml:"settings"`
}

// Defaults returns the configuration used when no file exists.
func Defaults() Config {
	return Config{
		DataDir:  defaultDataDir(),
		Backend:  BackendFile,
		QLab:     QLabConfig{Host: DefaultQLabHost, Port: DefaultQLabPort},
		Settings: cuesheet.DefaultSettings(),
	}
}

func home() string {
	if dir := os.Getenv("CUESHEET_HOME"); dir != "" {
		return dir
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "cuesheet")
	}
	return ".cuesheet"
}

func defaultDataDir() string {
	return filepath.Join(home(), "data")
}

// Path returns the config file location. CUESHEET_HOME overrides the directory.
func Path() string {
	return filepath.Join(home(), "config.yaml")
}

// Load reads the config at path over the defaults. A missing file is not an
// error. Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Defaults()
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Defaults(), fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.normalize(), nil
}

func (c Config) normalize() Config {
	d := Defaults()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.Backend != BackendFile && c.Backend != BackendSQLite {
		c.Backend = d.Backend
	}
	if c.QLab.Host == "" {
		c.QLab.Host = d.QLab.Host
	}
	if c.QLab.Port <= 0 || c.QLab.Port > 65535 {
		c.QLab.Port = d.QLab.Port
	}
	c.Settings = c.Settings.Normalize()
	return c
}

// Marshal renders the config as YAML.
func (c Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return b, nil
}

// Save writes the config to path, creating the directory if needed.
func Save(path string, c Config) error {
	b, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
