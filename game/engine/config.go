package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Difficulty labels accepted in deal presets
var difficulties = map[string]bool{
	"easy":       true,
	"medium":     true,
	"hard":       true,
	"impossible": true,
}

// ValidateDealConfig validates a deal preset
func ValidateDealConfig(config *DealConfig) error {
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}
	if config.Seed < 0 || config.Seed > MaxSeed {
		return fmt.Errorf("config validation: seed must be between 0 and %d, got %d", MaxSeed, config.Seed)
	}
	if config.Difficulty != "" && !difficulties[config.Difficulty] {
		return fmt.Errorf("config validation: difficulty must be one of easy, medium, hard, impossible, got %q", config.Difficulty)
	}
	return nil
}

// SeedDeal returns an ad-hoc preset for a numbered deal
func SeedDeal(seed int64) *DealConfig {
	return &DealConfig{
		Name:        fmt.Sprintf("Deal #%d", seed),
		Description: fmt.Sprintf("Numbered deal %d", seed),
		Seed:        seed,
	}
}

// LoadDealConfig loads a deal preset from a JSON file
func LoadDealConfig(filename string) (*DealConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config DealConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse deal file '%s': %w", filepath.Base(filename), err)
	}

	if err := ValidateDealConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid deal '%s': %w", filepath.Base(filename), err)
	}

	return &config, nil
}

// LoadDealByName loads a deal preset by name from dir
func LoadDealByName(dir, name string) (*DealConfig, error) {
	if !strings.HasSuffix(name, ".json") {
		name = name + ".json"
	}

	path := filepath.Join(dir, name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("deal file '%s' not found", name)
	}

	return LoadDealConfig(path)
}
