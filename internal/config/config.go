package config

import (
	"github.com/tbre-automation/partslist/internal/assembly"
	"github.com/tbre-automation/partslist/internal/logging"
	"github.com/tbre-automation/partslist/internal/projection"
	"github.com/tbre-automation/partslist/internal/report"
)

// Host drivers.
const (
	DriverCOM     = "com"
	DriverFixture = "fixture"
)

// Config represents the complete partslist configuration.
// It can be loaded from .partslist.yaml with environment variable overrides.
type Config struct {
	Host          HostConfig             `yaml:"host" mapstructure:"host"`
	Logging       LoggingConfig          `yaml:"logging" mapstructure:"logging"`
	Traversal     TraversalConfig        `yaml:"traversal" mapstructure:"traversal"`
	Cache         CacheConfig            `yaml:"cache" mapstructure:"cache"`
	Report        ReportConfig           `yaml:"report" mapstructure:"report"`
	ExportOptions []projection.OptionDef `yaml:"export_options" mapstructure:"export_options"`
}

// HostConfig selects and configures the CAD host connection.
type HostConfig struct {
	Driver  string `yaml:"driver" mapstructure:"driver"`   // "com" or "fixture"
	Fixture string `yaml:"fixture" mapstructure:"fixture"` // fixture YAML when driver is "fixture"
	Visible bool   `yaml:"visible" mapstructure:"visible"` // show the Inventor window
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"` // "console" or "json"
	Dir         string `yaml:"dir" mapstructure:"dir"`       // per-run log root, empty disables
	Development bool   `yaml:"development" mapstructure:"development"`
}

// TraversalConfig bounds and filters assembly traversal.
type TraversalConfig struct {
	MaxDepth int      `yaml:"max_depth" mapstructure:"max_depth"`
	Exclude  []string `yaml:"exclude" mapstructure:"exclude"` // glob patterns over document paths
}

// CacheConfig configures the per-session extraction cache.
type CacheConfig struct {
	Enabled  bool `yaml:"enabled" mapstructure:"enabled"`
	Capacity int  `yaml:"capacity" mapstructure:"capacity"`
}

// ReportConfig configures report output.
type ReportConfig struct {
	OutputDir        string `yaml:"output_dir" mapstructure:"output_dir"`
	FilePrefix       string `yaml:"file_prefix" mapstructure:"file_prefix"`
	PreviewPrecision int    `yaml:"preview_precision" mapstructure:"preview_precision"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Host: HostConfig{
			Driver:  DriverCOM,
			Visible: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
			Dir:    "logs",
		},
		Traversal: TraversalConfig{
			MaxDepth: assembly.DefaultMaxDepth,
			Exclude:  []string{},
		},
		Cache: CacheConfig{
			Enabled:  true,
			Capacity: 10000,
		},
		Report: ReportConfig{
			OutputDir:        "results",
			FilePrefix:       report.DefaultFilePrefix,
			PreviewPrecision: report.DefaultPreviewPrecision,
		},
		ExportOptions: projection.DefaultOptions(),
	}
}

// Schema compiles the export options.
func (c *Config) Schema() (*projection.Schema, error) {
	return projection.NewSchema(c.ExportOptions)
}

// Filter compiles the traversal exclusion patterns.
func (c *Config) Filter() (*assembly.Filter, error) {
	return assembly.NewFilter(c.Traversal.Exclude)
}

// LoggingOptions converts the logging section for logging.New.
func (c *Config) LoggingOptions(quiet bool) logging.Config {
	return logging.Config{
		Level:       c.Logging.Level,
		Format:      c.Logging.Format,
		Dir:         c.Logging.Dir,
		Development: c.Logging.Development,
		Quiet:       quiet,
	}
}
