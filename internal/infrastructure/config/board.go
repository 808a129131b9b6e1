// Package config loads board presentation settings from the .planera
// directory.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jalvemo/planera/pkg/storage"
)

// BoardConfig stores board presentation defaults outside domain logic.
type BoardConfig struct {
	// DayStartHour and DayEndHour bound the visible slot range.
	DayStartHour int `yaml:"day_start_hour"`
	DayEndHour   int `yaml:"day_end_hour"`
	// DefaultDurationMinutes applies to drops whose target does not
	// determine an end time.
	DefaultDurationMinutes int `yaml:"default_duration_minutes"`
	// Palette overrides the built-in resource color palette.
	Palette []string `yaml:"palette,omitempty"`
	// Webhooks receive schedule events from `planera serve`.
	Webhooks []WebhookEndpoint `yaml:"webhooks,omitempty"`
}

// WebhookEndpoint configures one outgoing webhook target.
type WebhookEndpoint struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret,omitempty"`
	Enabled bool   `yaml:"enabled"`
	// EventFilters restricts delivery to the listed event types. Empty
	// means every event.
	EventFilters []string `yaml:"event_filters,omitempty"`
	MaxRetries   int      `yaml:"max_retries,omitempty"`
}

// DefaultBoardConfig is the configuration written by `planera init`.
func DefaultBoardConfig() *BoardConfig {
	return &BoardConfig{
		DayStartHour:           7,
		DayEndHour:             18,
		DefaultDurationMinutes: 120,
	}
}

// LoadBoardConfig reads board.yaml. A missing file returns nil without
// error; callers fall back to defaults.
func LoadBoardConfig(root string) (*BoardConfig, error) {
	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.BoardConfigFile)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read board config: %w", err)
	}

	var cfg BoardConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal board config: %w", err)
	}
	return &cfg, nil
}

// SaveBoardConfig writes board.yaml.
func SaveBoardConfig(root string, cfg *BoardConfig) error {
	if cfg == nil {
		return fmt.Errorf("board config is nil")
	}

	repo := storage.NewFilesystemRepository(root)
	path, err := repo.ResolvePath(storage.BoardConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal board config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}
