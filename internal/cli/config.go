package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults used when neither the config file, the environment nor a flag
// supplies a value.
const (
	defaultDataPath     = "data/listings.csv"
	defaultSidebarImage = "profile.png"
	defaultPort         = 8080
)

// Config holds settings persisted to disk.
type Config struct {
	DataPath     string `yaml:"data_path,omitempty"`
	DBPath       string `yaml:"db_path,omitempty"`
	SidebarImage string `yaml:"sidebar_image,omitempty"`
	Port         int    `yaml:"port,omitempty"`
	Dev          bool   `yaml:"dev,omitempty"`
}

// Settings are the effective values after layering config, environment and
// flags.
type Settings Config

// configPath returns the path to the config file.
func configPath() (string, error) {
	if flagConfig != "" {
		return flagConfig, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "lx", "config.yaml"), nil
}

// loadConfig reads the config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// saveConfig writes the config to disk.
func saveConfig(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// resolveSettings layers the config file, then LX_* environment variables,
// then global flags, and fills in defaults.
func resolveSettings() (Settings, error) {
	cfg, err := loadConfig()
	if err != nil {
		return Settings{}, err
	}
	s := Settings(cfg)

	if v := os.Getenv("LX_DATA"); v != "" {
		s.DataPath = v
	}
	if v := os.Getenv("LX_DB"); v != "" {
		s.DBPath = v
	}
	if v := os.Getenv("LX_SIDEBAR_IMAGE"); v != "" {
		s.SidebarImage = v
	}

	if flagData != "" {
		s.DataPath = flagData
	}
	if flagDB != "" {
		s.DBPath = flagDB
	}

	if s.DataPath == "" {
		s.DataPath = defaultDataPath
	}
	if s.SidebarImage == "" {
		s.SidebarImage = defaultSidebarImage
	}
	if s.Port == 0 {
		s.Port = defaultPort
	}
	return s, nil
}
