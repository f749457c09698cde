package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"weekly-menu/internal/domain/entity"
)

// DefaultRulesPath is where the rules file lives relative to the working directory.
const DefaultRulesPath = "config/rules.yaml"

// Rules is the household rules file. Only default_settings is consumed.
type Rules struct {
	DefaultSettings entity.MenuSettings `yaml:"default_settings"`
}

// LoadRules reads and validates the rules file at path.
// A missing or unreadable file is a *ConfigError.
func LoadRules(path string) (*Rules, error) {
	// #nosec G304 -- path comes from RULES_PATH or the default, not from user input
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &ConfigError{Key: "RULES_PATH", Message: "rules file not found: " + path, Err: err}
		}
		return nil, &ConfigError{Key: "RULES_PATH", Message: "failed to read rules file", Err: err}
	}

	return ParseRules(data)
}

// ParseRules decodes rules YAML and checks the default settings.
func ParseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, &ConfigError{Key: "RULES_PATH", Message: "failed to parse rules file", Err: err}
	}
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

// Validate checks the default settings the generator relies on.
func (r *Rules) Validate() error {
	s := r.DefaultSettings
	if s.DaysNeeded < 1 || s.DaysNeeded > 7 {
		return &ConfigError{Key: "default_settings.days_needed", Message: fmt.Sprintf("must be between 1 and 7, got %d", s.DaysNeeded)}
	}
	if s.MaxCookingTime <= 0 {
		return &ConfigError{Key: "default_settings.max_cooking_time", Message: fmt.Sprintf("must be positive, got %d", s.MaxCookingTime)}
	}
	for _, d := range s.AwayDays {
		if d < 0 || d > 6 {
			return &ConfigError{Key: "default_settings.away_days", Message: fmt.Sprintf("day index out of range: %d", d)}
		}
	}
	return nil
}
