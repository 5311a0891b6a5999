//-------------------------------------------------------------------------
//
// pgEdge Superstore ETL
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-superstore.
// Configuration is loaded from a YAML file, then from the environment
// (optionally seeded from a .env file). CLI flags take precedence over both.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Dimension conflict policies.
const (
	ConflictAppend = "append"
	ConflictUpsert = "upsert"
)

// DefaultEnvFile is read by Load when present.
const DefaultEnvFile = ".env"

// Config holds all configuration for pgedge-superstore.
type Config struct {
	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Input describes the CSV file to extract.
	Input InputConfig `mapstructure:"input"`

	// OutputDir receives the CSV snapshots.
	OutputDir string `mapstructure:"output_dir"`

	// Warehouse is the PostgreSQL load target.
	Warehouse WarehouseConfig `mapstructure:"warehouse"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// InputConfig describes the source file.
type InputConfig struct {
	Path string `mapstructure:"path"`

	// Encoding is utf-8, windows-1252 or latin1.
	Encoding string `mapstructure:"encoding"`

	// Delimiter is the single field separator character.
	Delimiter string `mapstructure:"delimiter"`
}

// WarehouseConfig holds the PostgreSQL target and load options.
type WarehouseConfig struct {
	// Connection is a complete connection string. When set it takes
	// precedence over the individual fields below.
	Connection string `mapstructure:"connection"`

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`

	// DimensionConflict is "append" (plain inserts) or "upsert" (dim_customer
	// and dim_date update on key conflict). dim_product always upserts.
	DimensionConflict string `mapstructure:"dimension_conflict"`

	// BatchSize is the number of statements per upsert batch.
	BatchSize int `mapstructure:"batch_size"`
}

// GenerateConfig holds configuration for sample data generation.
type GenerateConfig struct {
	Rows   int    `mapstructure:"rows"`
	Seed   uint64 `mapstructure:"seed"`
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Input: InputConfig{
			Path:      filepath.Join("extracted", "Sample - Superstore.csv"),
			Encoding:  "utf-8",
			Delimiter: ",",
		},
		OutputDir: "cleaned",
		Warehouse: WarehouseConfig{
			Host:              "localhost",
			Port:              5432,
			Database:          "superstore",
			SSLMode:           "prefer",
			DimensionConflict: ConflictAppend,
			BatchSize:         1000,
		},
		Generate: GenerateConfig{
			Rows:   1000,
			Output: filepath.Join("extracted", "Sample - Superstore.csv"),
		},
	}
}

// envBindings maps config keys to environment variables, first match wins.
var envBindings = map[string][]string{
	"log_level":                    {"SUPERSTORE_LOG_LEVEL"},
	"input.path":                   {"SUPERSTORE_INPUT_PATH"},
	"input.encoding":               {"SUPERSTORE_INPUT_ENCODING"},
	"output_dir":                   {"SUPERSTORE_OUTPUT_DIR"},
	"warehouse.connection":         {"SUPERSTORE_WAREHOUSE_CONNECTION"},
	"warehouse.host":               {"SUPERSTORE_WAREHOUSE_HOST", "PG_HOST"},
	"warehouse.port":               {"SUPERSTORE_WAREHOUSE_PORT", "PG_PORT"},
	"warehouse.database":           {"SUPERSTORE_WAREHOUSE_DATABASE", "PG_DATABASE"},
	"warehouse.user":               {"SUPERSTORE_WAREHOUSE_USER", "PG_USER"},
	"warehouse.password":           {"SUPERSTORE_WAREHOUSE_PASSWORD", "PG_PASS"},
	"warehouse.sslmode":            {"SUPERSTORE_WAREHOUSE_SSLMODE", "PG_SSLMODE"},
	"warehouse.dimension_conflict": {"SUPERSTORE_WAREHOUSE_DIMENSION_CONFLICT"},
}

// LoadEnvFile loads variables from a .env file without overriding values
// already present in the environment. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-superstore.yaml
// 3. ~/.config/pgedge-superstore/config.yaml
func Load(configFile string) (*Config, error) {
	if err := LoadEnvFile(DefaultEnvFile); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("pgedge-superstore")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-superstore"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("error binding %s: %w", key, err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// ConnString returns the connection string for the warehouse.
func (w WarehouseConfig) ConnString() string {
	if w.Connection != "" {
		return w.Connection
	}

	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(w.Host, strconv.Itoa(w.Port)),
		Path:   "/" + w.Database,
	}
	switch {
	case w.User != "" && w.Password != "":
		u.User = url.UserPassword(w.User, w.Password)
	case w.User != "":
		u.User = url.User(w.User)
	}
	if w.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": {w.SSLMode}}.Encode()
	}
	return u.String()
}

// Comma returns the input delimiter as a rune, or zero for the default.
func (i InputConfig) Comma() rune {
	r := []rune(i.Delimiter)
	if len(r) != 1 {
		return 0
	}
	return r[0]
}

var encodings = map[string]bool{
	"": true, "utf-8": true, "utf8": true,
	"windows-1252": true, "cp1252": true,
	"latin1": true, "latin-1": true, "iso-8859-1": true,
}

// Validate checks settings common to every command.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug, info, warn, error")
	}
	return nil
}

// ValidateRun checks configuration required for the run command. The
// warehouse is only checked when the load is not skipped.
func (c *Config) ValidateRun(skipLoad bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Input.Path == "" {
		return fmt.Errorf("input path is required")
	}
	if !encodings[strings.ToLower(c.Input.Encoding)] {
		return fmt.Errorf("unsupported input encoding: %s", c.Input.Encoding)
	}
	if c.Input.Delimiter != "" && c.Input.Comma() == 0 {
		return fmt.Errorf("delimiter must be a single character")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if skipLoad {
		return nil
	}
	return c.ValidateWarehouse()
}

// ValidateWarehouse checks configuration required to connect and load.
func (c *Config) ValidateWarehouse() error {
	if err := c.Validate(); err != nil {
		return err
	}
	w := c.Warehouse
	if w.Connection == "" {
		if w.Host == "" {
			return fmt.Errorf("warehouse host is required")
		}
		if w.Database == "" {
			return fmt.Errorf("warehouse database is required")
		}
		if w.User == "" {
			return fmt.Errorf("warehouse user is required")
		}
		if w.Port < 1 || w.Port > 65535 {
			return fmt.Errorf("warehouse port must be between 1 and 65535")
		}
	}
	if w.DimensionConflict != ConflictAppend && w.DimensionConflict != ConflictUpsert {
		return fmt.Errorf("dimension_conflict must be 'append' or 'upsert'")
	}
	if w.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Generate.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Generate.Output == "" {
		return fmt.Errorf("generate output path is required")
	}
	return nil
}
