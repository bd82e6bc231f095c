// Package config provides configuration management for tisch tables:
// display limits, preview sizes and selection strictness, loadable from
// JSON, YAML or the environment.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config represents the global configuration for table display and selection
type Config struct {
	// Display Configuration
	DisplayMaxRows  int `json:"display_max_rows" yaml:"display_max_rows"`   // Render every row up to this count
	DisplayHeadRows int `json:"display_head_rows" yaml:"display_head_rows"` // Leading rows shown when truncated
	DisplayTailRows int `json:"display_tail_rows" yaml:"display_tail_rows"` // Trailing rows shown when truncated
	FloatPrecision  int `json:"float_precision" yaml:"float_precision"`     // Digits after the point for float cells
	CellWidth       int `json:"cell_width" yaml:"cell_width"`               // Minimum cell width

	// Selection Configuration
	DefaultPreviewRows int  `json:"default_preview_rows" yaml:"default_preview_rows"` // Rows returned by Head/Tail without an argument
	StrictColumnList   bool `json:"strict_column_list" yaml:"strict_column_list"`     // Reject non-int/non-string entries in column lists

	// Logging Configuration
	VerboseLogging bool   `json:"verbose_logging" yaml:"verbose_logging"` // Enable debug-level logging
	SeqURL         string `json:"seq_url" yaml:"seq_url"`                 // Optional Seq ingestion endpoint
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultDisplayMaxRows     = 20
	DefaultDisplayHeadRows    = 10
	DefaultDisplayTailRows    = 10
	DefaultFloatPrecision     = 3
	DefaultCellWidth          = 10
	DefaultDefaultPreviewRows = 10
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		DisplayMaxRows:     DefaultDisplayMaxRows,
		DisplayHeadRows:    DefaultDisplayHeadRows,
		DisplayTailRows:    DefaultDisplayTailRows,
		FloatPrecision:     DefaultFloatPrecision,
		CellWidth:          DefaultCellWidth,
		DefaultPreviewRows: DefaultDefaultPreviewRows,
		StrictColumnList:   false,
		VerboseLogging:     false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.DisplayMaxRows <= 0 {
		return fmt.Errorf("DisplayMaxRows must be positive, got %d", c.DisplayMaxRows)
	}

	if c.DisplayHeadRows < 0 {
		return fmt.Errorf("DisplayHeadRows must be non-negative, got %d", c.DisplayHeadRows)
	}

	if c.DisplayTailRows < 0 {
		return fmt.Errorf("DisplayTailRows must be non-negative, got %d", c.DisplayTailRows)
	}

	if c.DisplayHeadRows+c.DisplayTailRows > c.DisplayMaxRows {
		return fmt.Errorf("DisplayHeadRows+DisplayTailRows (%d) must not exceed DisplayMaxRows (%d)",
			c.DisplayHeadRows+c.DisplayTailRows, c.DisplayMaxRows)
	}

	if c.FloatPrecision < 0 || c.FloatPrecision > 17 {
		return fmt.Errorf("FloatPrecision must be between 0 and 17, got %d", c.FloatPrecision)
	}

	if c.CellWidth < 0 {
		return fmt.Errorf("CellWidth must be non-negative, got %d", c.CellWidth)
	}

	if c.DefaultPreviewRows < 0 {
		return fmt.Errorf("DefaultPreviewRows must be non-negative, got %d", c.DefaultPreviewRows)
	}

	return nil
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.DisplayMaxRows == 0 {
		c.DisplayMaxRows = defaults.DisplayMaxRows
	}
	if c.DisplayHeadRows == 0 {
		c.DisplayHeadRows = defaults.DisplayHeadRows
	}
	if c.DisplayTailRows == 0 {
		c.DisplayTailRows = defaults.DisplayTailRows
	}
	if c.FloatPrecision == 0 {
		c.FloatPrecision = defaults.FloatPrecision
	}
	if c.CellWidth == 0 {
		c.CellWidth = defaults.CellWidth
	}
	if c.DefaultPreviewRows == 0 {
		c.DefaultPreviewRows = defaults.DefaultPreviewRows
	}

	// Boolean fields are left alone so an explicit false survives.
	return c
}

// Resolve fills zero values with defaults and validates the result.
func (c Config) Resolve() (Config, error) {
	c = c.WithDefaults()
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// SetGlobalConfig resolves config and installs it as the global
// configuration. An invalid config leaves the current one in place.
func SetGlobalConfig(config Config) error {
	resolved, err := config.Resolve()
	if err != nil {
		return err
	}
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = resolved
	return nil
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromYAML loads configuration from YAML data
func LoadFromYAML(data []byte) (Config, error) {
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing YAML configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a file (supports JSON and YAML)
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	var config Config
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		config, err = LoadFromJSON(data)
	case ".yaml", ".yml":
		config, err = LoadFromYAML(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config, nil
}

// LoadFromEnv loads configuration from TISCH_* environment variables.
// Unparseable values are ignored and the default kept.
func LoadFromEnv() Config {
	return NewConfig().MergeEnv()
}

// MergeEnv returns c with any TISCH_* environment variables applied on top.
func (c Config) MergeEnv() Config {
	envInt("TISCH_DISPLAY_MAX_ROWS", &c.DisplayMaxRows)
	envInt("TISCH_DISPLAY_HEAD_ROWS", &c.DisplayHeadRows)
	envInt("TISCH_DISPLAY_TAIL_ROWS", &c.DisplayTailRows)
	envInt("TISCH_FLOAT_PRECISION", &c.FloatPrecision)
	envInt("TISCH_CELL_WIDTH", &c.CellWidth)
	envInt("TISCH_DEFAULT_PREVIEW_ROWS", &c.DefaultPreviewRows)
	envBool("TISCH_STRICT_COLUMN_LIST", &c.StrictColumnList)
	envBool("TISCH_VERBOSE_LOGGING", &c.VerboseLogging)

	if val := os.Getenv("TISCH_SEQ_URL"); val != "" {
		c.SeqURL = val
	}

	return c
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			*dst = parsed
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			*dst = parsed
		}
	}
}
