package config

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

var (
	// ErrInvalidDriver indicates an unsupported host driver
	ErrInvalidDriver = errors.New("invalid host driver")

	// ErrMissingFixture indicates the fixture driver without a fixture file
	ErrMissingFixture = errors.New("missing fixture file")

	// ErrInvalidLogging indicates an unknown log level or format
	ErrInvalidLogging = errors.New("invalid logging settings")

	// ErrInvalidTraversal indicates a bad depth ceiling or exclusion pattern
	ErrInvalidTraversal = errors.New("invalid traversal settings")

	// ErrInvalidCacheSettings indicates invalid cache configuration
	ErrInvalidCacheSettings = errors.New("invalid cache settings")

	// ErrInvalidReport indicates invalid report settings
	ErrInvalidReport = errors.New("invalid report settings")

	// ErrInvalidExportOptions indicates malformed export_options
	ErrInvalidExportOptions = errors.New("invalid export options")
)

// MaxPreviewPrecision bounds report.preview_precision.
const MaxPreviewPrecision = 10

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	errs = append(errs, validateHost(&cfg.Host)...)
	errs = append(errs, validateLogging(&cfg.Logging)...)
	errs = append(errs, validateTraversal(cfg)...)
	errs = append(errs, validateCache(&cfg.Cache)...)
	errs = append(errs, validateReport(&cfg.Report)...)

	if _, err := cfg.Schema(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidExportOptions, err))
	}

	return joinErrors(errs)
}

func validateHost(cfg *HostConfig) []error {
	var errs []error

	switch strings.ToLower(cfg.Driver) {
	case DriverCOM:
	case DriverFixture:
		if strings.TrimSpace(cfg.Fixture) == "" {
			errs = append(errs, fmt.Errorf("%w: host.fixture is required when driver is '%s'", ErrMissingFixture, DriverFixture))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: must be '%s' or '%s', got '%s'", ErrInvalidDriver, DriverCOM, DriverFixture, cfg.Driver))
	}

	return errs
}

func validateLogging(cfg *LoggingConfig) []error {
	var errs []error

	if _, err := zapcore.ParseLevel(cfg.Level); err != nil {
		errs = append(errs, fmt.Errorf("%w: level %q", ErrInvalidLogging, cfg.Level))
	}
	if cfg.Format != "console" && cfg.Format != "json" {
		errs = append(errs, fmt.Errorf("%w: format must be 'console' or 'json', got '%s'", ErrInvalidLogging, cfg.Format))
	}

	return errs
}

func validateTraversal(cfg *Config) []error {
	var errs []error

	if cfg.Traversal.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_depth must be positive, got %d", ErrInvalidTraversal, cfg.Traversal.MaxDepth))
	}
	if _, err := cfg.Filter(); err != nil {
		errs = append(errs, fmt.Errorf("%w: %w", ErrInvalidTraversal, err))
	}

	return errs
}

func validateCache(cfg *CacheConfig) []error {
	// A disabled cache ignores capacity
	if cfg.Enabled && cfg.Capacity <= 0 {
		return []error{fmt.Errorf("%w: capacity must be positive when enabled, got %d", ErrInvalidCacheSettings, cfg.Capacity)}
	}
	return nil
}

func validateReport(cfg *ReportConfig) []error {
	var errs []error

	if strings.TrimSpace(cfg.OutputDir) == "" {
		errs = append(errs, fmt.Errorf("%w: output_dir is required", ErrInvalidReport))
	}
	if strings.ContainsAny(cfg.FilePrefix, `/\`) {
		errs = append(errs, fmt.Errorf("%w: file_prefix must not contain path separators, got '%s'", ErrInvalidReport, cfg.FilePrefix))
	}
	if cfg.PreviewPrecision < 0 || cfg.PreviewPrecision > MaxPreviewPrecision {
		errs = append(errs, fmt.Errorf("%w: preview_precision must be between 0 and %d, got %d", ErrInvalidReport, MaxPreviewPrecision, cfg.PreviewPrecision))
	}

	return errs
}

// validationError lists every problem found while keeping each one
// reachable through errors.Is.
type validationError struct {
	errs []error
}

func (e *validationError) Error() string {
	msgs := make([]string, len(e.errs))
	for i, err := range e.errs {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

func (e *validationError) Unwrap() []error { return e.errs }

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return &validationError{errs: errs}
	}
}
