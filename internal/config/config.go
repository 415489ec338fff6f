// Package config provides configuration management for cub display, ingestion
// and logging
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config represents the process-wide configuration
type Config struct {
	// Display Configuration
	MaxRows        int `json:"max_rows" yaml:"max_rows"`               // Tables longer than this are truncated
	HeadRows       int `json:"head_rows" yaml:"head_rows"`             // Rows shown before the ellipsis
	TailRows       int `json:"tail_rows" yaml:"tail_rows"`             // Rows shown after the ellipsis
	FloatPrecision int `json:"float_precision" yaml:"float_precision"` // Decimals printed for floats
	CellWidth      int `json:"cell_width" yaml:"cell_width"`           // Minimum text cell width

	// Ingestion Configuration
	CSVDelimiter string `json:"csv_delimiter" yaml:"csv_delimiter"` // Field separator for CSV input
	CSVHeader    bool   `json:"csv_header" yaml:"csv_header"`       // First CSV record holds column names

	// Logging Configuration
	LogLevel string `json:"log_level" yaml:"log_level"` // debug, info, warn or error
}

// Global configuration instance
var (
	globalConfig Config
	configMutex  sync.RWMutex
)

// Default configuration values
const (
	DefaultMaxRows        = 20
	DefaultHeadRows       = 10
	DefaultTailRows       = 10
	DefaultFloatPrecision = 3
	DefaultCellWidth      = 10
	DefaultCSVDelimiter   = ","
	DefaultLogLevel       = "info"
)

func init() {
	globalConfig = NewConfig()
}

// NewConfig creates a new configuration with default values
func NewConfig() Config {
	return Config{
		MaxRows:        DefaultMaxRows,
		HeadRows:       DefaultHeadRows,
		TailRows:       DefaultTailRows,
		FloatPrecision: DefaultFloatPrecision,
		CellWidth:      DefaultCellWidth,
		CSVDelimiter:   DefaultCSVDelimiter,
		CSVHeader:      true,
		LogLevel:       DefaultLogLevel,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c.MaxRows <= 0 {
		return fmt.Errorf("MaxRows must be positive, got %d", c.MaxRows)
	}

	if c.HeadRows < 0 {
		return fmt.Errorf("HeadRows must be non-negative, got %d", c.HeadRows)
	}

	if c.TailRows < 0 {
		return fmt.Errorf("TailRows must be non-negative, got %d", c.TailRows)
	}

	if c.FloatPrecision < 0 || c.FloatPrecision > 17 {
		return fmt.Errorf("FloatPrecision must be between 0 and 17, got %d", c.FloatPrecision)
	}

	if c.CellWidth <= 0 {
		return fmt.Errorf("CellWidth must be positive, got %d", c.CellWidth)
	}

	if utf8.RuneCountInString(c.CSVDelimiter) != 1 {
		return fmt.Errorf("CSVDelimiter must be a single character, got %q", c.CSVDelimiter)
	}

	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Warnings reports settings that are valid but probably unintended
func (c *Config) Warnings() []string {
	var warnings []string
	if c.HeadRows+c.TailRows > c.MaxRows {
		warnings = append(warnings,
			fmt.Sprintf("HeadRows + TailRows (%d) exceeds MaxRows (%d), truncated tables repeat rows",
				c.HeadRows+c.TailRows, c.MaxRows))
	}
	if c.HeadRows == 0 && c.TailRows == 0 {
		warnings = append(warnings, "HeadRows and TailRows are both 0, truncated tables show no rows")
	}
	return warnings
}

// WithDefaults returns a new configuration with default values filled in for zero values
func (c Config) WithDefaults() Config {
	defaults := NewConfig()

	if c.MaxRows == 0 {
		c.MaxRows = defaults.MaxRows
	}
	if c.HeadRows == 0 {
		c.HeadRows = defaults.HeadRows
	}
	if c.TailRows == 0 {
		c.TailRows = defaults.TailRows
	}
	if c.FloatPrecision == 0 {
		c.FloatPrecision = defaults.FloatPrecision
	}
	if c.CellWidth == 0 {
		c.CellWidth = defaults.CellWidth
	}
	if c.CSVDelimiter == "" {
		c.CSVDelimiter = defaults.CSVDelimiter
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}

	// Boolean fields keep their value: an explicit false cannot be told
	// apart from an unset one. Decode on top of NewConfig() to default them.

	return c
}

// Delimiter returns CSVDelimiter as a rune
func (c *Config) Delimiter() rune {
	r, _ := utf8.DecodeRuneInString(c.CSVDelimiter)
	return r
}

// Level returns the slog level named by LogLevel, or info when it is invalid
func (c *Config) Level() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// ParseLogLevel resolves a level name such as "debug" or "WARN"
func ParseLogLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", name)
	}
	return level, nil
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config Config) {
	configMutex.Lock()
	defer configMutex.Unlock()
	globalConfig = config
}

// GetGlobalConfig returns the current global configuration
func GetGlobalConfig() Config {
	configMutex.RLock()
	defer configMutex.RUnlock()
	return globalConfig
}

// LoadFromJSON loads configuration from JSON data
func LoadFromJSON(data []byte) (Config, error) {
	config := NewConfig()
	if err := json.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parsing JSON configuration: %w", err)
	}
	return config.WithDefaults(), nil
}

// LoadFromFile loads configuration from a JSON or YAML file
func LoadFromFile(filename string) (Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("reading config file %s: %w", filename, err)
	}

	config := NewConfig()
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".json":
		err = json.Unmarshal(data, &config)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		return Config{}, fmt.Errorf("unsupported config file format: %s", ext)
	}

	if err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", filename, err)
	}

	return config.WithDefaults(), nil
}

// LoadFromEnv loads configuration from CUB_* environment variables on top
// of the defaults. Unparsable values are ignored.
func LoadFromEnv() Config {
	return ApplyEnv(NewConfig())
}

// ApplyEnv overrides fields of config from CUB_* environment variables
func ApplyEnv(config Config) Config {
	ints := map[string]*int{
		"CUB_MAX_ROWS":        &config.MaxRows,
		"CUB_HEAD_ROWS":       &config.HeadRows,
		"CUB_TAIL_ROWS":       &config.TailRows,
		"CUB_FLOAT_PRECISION": &config.FloatPrecision,
		"CUB_CELL_WIDTH":      &config.CellWidth,
	}
	for name, field := range ints {
		if val := os.Getenv(name); val != "" {
			if parsed, err := strconv.Atoi(val); err == nil {
				*field = parsed
			}
		}
	}

	if val := os.Getenv("CUB_CSV_DELIMITER"); val != "" {
		config.CSVDelimiter = val
	}

	if val := os.Getenv("CUB_CSV_HEADER"); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			config.CSVHeader = parsed
		}
	}

	if val := os.Getenv("CUB_LOG_LEVEL"); val != "" {
		config.LogLevel = val
	}

	return config
}
