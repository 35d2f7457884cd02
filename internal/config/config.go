package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/oilscope/oilscope/internal/core"
)

type APIConfig struct {
	BaseURL string `json:"base_url"`
	Token   string `json:"token"`
}

type UIConfig struct {
	RefreshIntervalSeconds int    `json:"refresh_interval_seconds"`
	Theme                  string `json:"theme"`
}

type Config struct {
	API                 APIConfig `json:"api"`
	LocationID          int       `json:"location_id"`
	TankCapacityGallons float64   `json:"tank_capacity_gallons"`
	ImportDir           string    `json:"import_dir"`
	UI                  UIConfig  `json:"ui"`
}

func DefaultConfig() Config {
	return Config{
		API:                 APIConfig{BaseURL: "http://localhost:8000"},
		LocationID:          1,
		TankCapacityGallons: core.DefaultTankCapacityGallons,
		UI: UIConfig{
			RefreshIntervalSeconds: 300,
			Theme:                  "Catppuccin Mocha",
		},
	}
}

func ConfigDir() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "oilscope")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "oilscope")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "settings.json")
}

// CachePath is the default location of the sqlite reading cache.
func CachePath() string {
	return filepath.Join(ConfigDir(), "cache.db")
}

func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.UI.RefreshIntervalSeconds <= 0 {
		cfg.UI.RefreshIntervalSeconds = 300
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = DefaultConfig().UI.Theme
	}
	if cfg.TankCapacityGallons <= 0 {
		cfg.TankCapacityGallons = core.DefaultTankCapacityGallons
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultConfig().API.BaseURL
	}

	return cfg, nil
}

func Save(cfg Config) error {
	return SaveTo(ConfigPath(), cfg)
}

func SaveTo(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
