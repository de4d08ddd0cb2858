package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/binfill/pkg/core/allocator"
	"github.com/jakechorley/binfill/pkg/core/production"
)

const configFileName = "binfill_config.yaml"

// ThrowFactor positions the thresholds of the throw factor between the
// nearest container and the farthest plausible one
type ThrowFactor struct {
	Threshold1 float64 `yaml:"threshold1" validate:"gt=0,lt=1"`
	Threshold2 float64 `yaml:"threshold2" validate:"gt=0,lt=1,gtfield=Threshold1"`
}

// Cycle defines the production cycles of a run
type Cycle struct {
	RRule string `yaml:"rrule,omitempty"`
}

// Source defines where user and container records are read from
type Source struct {
	Driver         string `yaml:"driver" validate:"required,oneof=csv sqlite postgres sheets xlsx"`
	UsersFile      string `yaml:"usersFile,omitempty" validate:"required_if=Driver csv"`
	ContainersFile string `yaml:"containersFile,omitempty" validate:"required_if=Driver csv"`
	Delimiter      string `yaml:"delimiter,omitempty" validate:"omitempty,len=1"`
	DSN            string `yaml:"dsn,omitempty"`

	// Workbook driver
	Workbook        string `yaml:"workbook,omitempty" validate:"required_if=Driver xlsx"`
	UsersSheet      string `yaml:"usersSheet,omitempty"`
	ContainersSheet string `yaml:"containersSheet,omitempty"`

	// Sheets driver
	SpreadsheetID   string `yaml:"spreadsheetId,omitempty" validate:"required_if=Driver sheets"`
	UsersRange      string `yaml:"usersRange,omitempty"`
	ContainersRange string `yaml:"containersRange,omitempty"`
	OAuthClientFile string `yaml:"oauthClientFile,omitempty"`
}

// Config represents the application configuration
type Config struct {
	WillFactor         float64              `yaml:"willFactor" validate:"gt=1"`
	Fractions          []string             `yaml:"fractions" validate:"required,min=1,unique,dive,required"`
	ThrowFactor        ThrowFactor          `yaml:"throwFactor"`
	StandardProduction map[string][]float64 `yaml:"standardProduction" validate:"required,min=1"`
	ProductionUnit     string               `yaml:"productionUnit,omitempty"`
	Cycle              Cycle                `yaml:"cycle,omitempty"`
	Source             Source               `yaml:"source"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the configuration from binfill_config.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func Load() (*Config, error) {
	configPath, err := findConfigFile(configFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadWithEnv loads binfill_config.<env>.yaml, falling back to binfill_config.yaml
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(fmt.Sprintf("binfill_config.%s.yaml", env))
	if err != nil {
		return Load()
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

	if cfg.ProductionUnit == "" {
		cfg.ProductionUnit = "m3"
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the cycle rrule and the
// standard production table
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if (cfg.Source.Driver == "sqlite" || cfg.Source.Driver == "postgres") && cfg.Source.DSN == "" {
		return fmt.Errorf("source driver %s requires a dsn", cfg.Source.Driver)
	}

	if cfg.Cycle.RRule != "" {
		if _, err := rrule.StrToRRule(cfg.Cycle.RRule); err != nil {
			return fmt.Errorf("invalid rrule in cycle: %w", err)
		}
	}

	for userType := range cfg.StandardProduction {
		if userType == "" {
			return fmt.Errorf("standardProduction has an empty user type")
		}
	}
	if _, err := cfg.ProductionTable(); err != nil {
		return fmt.Errorf("invalid standardProduction: %w", err)
	}

	return nil
}

// AllocatorParams returns the allocator parameters of the configuration
func (c *Config) AllocatorParams() allocator.Params {
	return allocator.Params{
		WillFactor: c.WillFactor,
		Shape: allocator.Shape{
			Threshold1: c.ThrowFactor.Threshold1,
			Threshold2: c.ThrowFactor.Threshold2,
		},
	}
}

// ProductionTable returns the standard production table, one row per user type
func (c *Config) ProductionTable() (production.Table, error) {
	return production.NewTable(c.Fractions, c.StandardProduction)
}

// DelimiterRune returns the CSV field delimiter, or 0 for the default
func (s Source) DelimiterRune() rune {
	if s.Delimiter == "" {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.Delimiter)
	return r
}

// findConfigFile searches for the named config file in current directory and home directory
func findConfigFile(name string) (string, error) {
	// Check current directory
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("config file %s not found in current directory or home directory", name)
}
