package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/aljab017/ill-router/pkg/core/model"
)

// Location source kinds
const (
	SourceFile     = "file"
	SourcePostgres = "postgres"
	SourceSheet    = "sheet"
)

// RouteOverride adjusts the location list on dates matching an RRule
// (e.g. a branch that is closed at weekends becomes last resort)
type RouteOverride struct {
	RRule      string                  `yaml:"rrule" validate:"required"`
	Exclude    []string                `yaml:"exclude,omitempty"`
	LastResort []string                `yaml:"lastResort,omitempty"`
	Weights    map[string]model.Weight `yaml:"weights,omitempty"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// LogConfig configures the rotating JSON log file
type LogConfig struct {
	Dir        string `yaml:"dir,omitempty"`
	MaxSizeMB  int    `yaml:"maxSizeMB,omitempty" validate:"omitempty,min=1"`
	MaxBackups int    `yaml:"maxBackups,omitempty" validate:"omitempty,min=0"`
	MaxAgeDays int    `yaml:"maxAgeDays,omitempty" validate:"omitempty,min=0"`
	Compress   bool   `yaml:"compress,omitempty"`
}

// Config represents the application configuration
type Config struct {
	Group1Size      int             `yaml:"group1Size" validate:"required,min=1"`
	Seed            string          `yaml:"seed,omitempty"`
	LocationSource  string          `yaml:"locationSource" validate:"required,oneof=file postgres sheet"`
	LocationsFile   string          `yaml:"locationsFile,omitempty" validate:"required_if=LocationSource file"`
	DatabaseURL     string          `yaml:"databaseURL,omitempty" validate:"required_if=LocationSource postgres"`
	LocationSheetID string          `yaml:"locationSheetID,omitempty" validate:"required_if=LocationSource sheet"`
	LocationsTab    string          `yaml:"locationsTab,omitempty" validate:"required_if=LocationSource sheet"`
	Overrides       []RouteOverride `yaml:"overrides,omitempty" validate:"dive"`
	Server          ServerConfig    `yaml:"server,omitempty"`
	Log             LogConfig       `yaml:"log,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from ill_router_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads the configuration for an environment
// For example, env="test" will look for "ill_router_config.test.yaml"
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(env)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct and checks rrule syntax
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	for i, override := range cfg.Overrides {
		if _, err := rrule.StrToRRule(override.RRule); err != nil {
			return fmt.Errorf("invalid rrule in overrides[%d]: %w", i, err)
		}
	}

	return nil
}

// ServerAddr returns the configured listen address or the default
func (c *Config) ServerAddr() string {
	if c.Server.Addr == "" {
		return ":8080"
	}
	return c.Server.Addr
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(env string) (string, error) {
	configFileName := "ill_router_config.yaml"
	if env != "" {
		configFileName = "ill_router_config." + env + ".yaml"
	}

	return findFile(configFileName)
}
