package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mvp-joe/distill/internal/distiller"
	"github.com/mvp-joe/distill/internal/distiller/languages"
	"github.com/mvp-joe/distill/internal/distiller/parsers"
)

var (
	// ErrInvalidDepth indicates an unknown member depth
	ErrInvalidDepth = errors.New("invalid depth")

	// ErrInvalidFormat indicates an unknown result format
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidStyle indicates an unknown output style
	ErrInvalidStyle = errors.New("invalid output style")

	// ErrInvalidParser indicates an unknown parser variant
	ErrInvalidParser = errors.New("invalid parser")

	// ErrInvalidPattern indicates a path or name glob that does not compile
	ErrInvalidPattern = errors.New("invalid pattern")

	// ErrInvalidLimit indicates a negative or zero limit
	ErrInvalidLimit = errors.New("invalid limit")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(&cfg.Paths); err != nil {
		errs = append(errs, err)
	}

	if err := validateDistill(&cfg.Distill); err != nil {
		errs = append(errs, err)
	}

	if _, err := distiller.ParseStyle(cfg.Output.Style); err != nil {
		errs = append(errs, fmt.Errorf("%w: must be 'text', 'json' or 'bundle', got '%s'", ErrInvalidStyle, cfg.Output.Style))
	}

	if err := validateLimits(&cfg.Limits); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *PathsConfig) error {
	var errs []error
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			errs = append(errs, fmt.Errorf("%w: path pattern '%s'", ErrInvalidPattern, pattern))
		}
	}
	if len(errs) > 0 {
		return joinErrors(errs)
	}
	return nil
}

func validateDistill(cfg *DistillConfig) error {
	var errs []error

	if _, err := languages.ParseDepth(strings.ToLower(cfg.Depth)); err != nil {
		errs = append(errs, fmt.Errorf("%w: must be 'public', 'protected' or 'all', got '%s'", ErrInvalidDepth, cfg.Depth))
	}

	if _, err := distiller.ParseFormat(strings.ToLower(cfg.Format)); err != nil {
		errs = append(errs, fmt.Errorf("%w: must be 'distilled', 'compressed' or 'both', got '%s'", ErrInvalidFormat, cfg.Format))
	}

	switch parsers.Variant(strings.ToLower(cfg.Parser)) {
	case "", parsers.VariantHybrid, parsers.VariantGrammar, parsers.VariantFallback:
	default:
		errs = append(errs, fmt.Errorf("%w: must be 'hybrid', 'grammar' or 'fallback', got '%s'", ErrInvalidParser, cfg.Parser))
	}

	if _, err := languages.NewNameFilter(cfg.IncludeNames, cfg.ExcludeNames); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidPattern, err))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateLimits(cfg *LimitsConfig) error {
	var errs []error

	// Zero workers means one per CPU.
	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers cannot be negative, got %d", ErrInvalidLimit, cfg.Workers))
	}

	if cfg.MaxFileSizeKB <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size_kb must be positive, got %d", ErrInvalidLimit, cfg.MaxFileSizeKB))
	}

	if cfg.ParseTimeoutMS <= 0 {
		errs = append(errs, fmt.Errorf("%w: parse_timeout_ms must be positive, got %d", ErrInvalidLimit, cfg.ParseTimeoutMS))
	}

	if cfg.MaxNestingDepth <= 0 {
		errs = append(errs, fmt.Errorf("%w: max_nesting_depth must be positive, got %d", ErrInvalidLimit, cfg.MaxNestingDepth))
	}

	if cfg.BytesPerToken <= 0 {
		errs = append(errs, fmt.Errorf("%w: bytes_per_token must be positive, got %d", ErrInvalidLimit, cfg.BytesPerToken))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The sentinels stay reachable through errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return &validationError{msg: fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - ")), errs: errs}
}

type validationError struct {
	msg  string
	errs []error
}

func (e *validationError) Error() string   { return e.msg }
func (e *validationError) Unwrap() []error { return e.errs }
