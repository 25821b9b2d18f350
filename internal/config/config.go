package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Simulator holds all configuration for the headless spawn simulator.
type Simulator struct {
	LogLevel string `yaml:"log_level"`

	// Sessions run concurrently, one spawner each.
	Sessions []Session `yaml:"sessions"`

	// Results storage (optional)
	StoreResults bool           `yaml:"store_results"`
	Database     DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultSimulator returns Simulator config with one session per preset.
func DefaultSimulator() Simulator {
	sessions := make([]Session, 0, len(presetNames))
	for _, name := range presetNames {
		s := DefaultSession()
		s.Name = name
		s.Preset = name
		s.Spawner, _ = Preset(name)
		sessions = append(sessions, s)
	}

	return Simulator{
		LogLevel: "info",
		Sessions: sessions,
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "beatspawn",
			Password: "beatspawn",
			DBName:   "beatspawn",
			SSLMode:  "disable",
		},
	}
}

// LoadSimulator loads simulator config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadSimulator(path string) (Simulator, error) {
	cfg := DefaultSimulator()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	for i := range cfg.Sessions {
		if err := cfg.Sessions[i].Spawner.Validate(); err != nil {
			return cfg, fmt.Errorf("session %q: %w", cfg.Sessions[i].Name, err)
		}
	}

	return cfg, nil
}

// ParseLogLevel maps a config log level to slog; unknown values mean info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
