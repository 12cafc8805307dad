package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. PARTSLIST_HOST_DRIVER.
const EnvPrefix = "PARTSLIST"

// FileName is the config file name searched for, without extension.
const FileName = ".partslist"

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir    string
	homeDir    string
	configFile string
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loader)

// WithConfigFile loads exactly the given file instead of searching.
func WithConfigFile(path string) LoaderOption {
	return func(l *loader) { l.configFile = path }
}

// WithHomeDir overrides the home directory searched after rootDir.
func WithHomeDir(dir string) LoaderOption {
	return func(l *loader) { l.homeDir = dir }
}

// NewLoader creates a configuration loader that searches rootDir, then the
// user's home directory, for .partslist.yaml.
func NewLoader(rootDir string, opts ...LoaderOption) Loader {
	l := &loader{rootDir: rootDir}
	if home, err := os.UserHomeDir(); err == nil {
		l.homeDir = home
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (PARTSLIST_*)
// 2. Config file (--config, or .partslist.yaml in rootDir, then $HOME)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	if l.configFile != "" {
		v.SetConfigFile(l.configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(l.rootDir)
		if l.homeDir != "" {
			v.AddConfigPath(l.homeDir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., PARTSLIST_HOST_DRIVER)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnv(v)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - we'll use defaults + env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func bindEnv(v *viper.Viper) {
	v.BindEnv("host.driver")
	v.BindEnv("host.fixture")
	v.BindEnv("host.visible")

	v.BindEnv("logging.level")
	v.BindEnv("logging.format")
	v.BindEnv("logging.dir")
	v.BindEnv("logging.development")

	v.BindEnv("traversal.max_depth")
	v.BindEnv("traversal.exclude")

	v.BindEnv("cache.enabled")
	v.BindEnv("cache.capacity")

	v.BindEnv("report.output_dir")
	v.BindEnv("report.file_prefix")
	v.BindEnv("report.preview_precision")
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("host.driver", defaults.Host.Driver)
	v.SetDefault("host.fixture", defaults.Host.Fixture)
	v.SetDefault("host.visible", defaults.Host.Visible)

	v.SetDefault("logging.level", defaults.Logging.Level)
	v.SetDefault("logging.format", defaults.Logging.Format)
	v.SetDefault("logging.dir", defaults.Logging.Dir)
	v.SetDefault("logging.development", defaults.Logging.Development)

	v.SetDefault("traversal.max_depth", defaults.Traversal.MaxDepth)
	v.SetDefault("traversal.exclude", defaults.Traversal.Exclude)

	v.SetDefault("cache.enabled", defaults.Cache.Enabled)
	v.SetDefault("cache.capacity", defaults.Cache.Capacity)

	v.SetDefault("report.output_dir", defaults.Report.OutputDir)
	v.SetDefault("report.file_prefix", defaults.Report.FilePrefix)
	v.SetDefault("report.preview_precision", defaults.Report.PreviewPrecision)

	v.SetDefault("export_options", exportOptionMaps(defaults))
}

// exportOptionMaps renders the default options in the shape a config file
// produces, so a file's export_options replaces them wholesale.
func exportOptionMaps(cfg *Config) []map[string]any {
	out := make([]map[string]any, len(cfg.ExportOptions))
	for i, def := range cfg.ExportOptions {
		out[i] = map[string]any{
			"option_name":    def.Name,
			"display_name":   def.DisplayNames,
			"attribute_name": def.Attributes,
		}
	}
	return out
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig(opts ...LoaderOption) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd, opts...).Load()
}
