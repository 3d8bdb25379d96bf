package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/absfs/staticcompress"
	"github.com/absfs/staticcompress/internal/logging"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails. Unknown compression
// methods are not errors here; the store skips them with a warning.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Root == "" {
		errs = append(errs, ValidationError{
			Field:   "root",
			Message: "must not be empty",
		})
	}

	if cfg.Source != "" && cfg.Root != "" && filepath.Clean(cfg.Source) == filepath.Clean(cfg.Root) {
		errs = append(errs, ValidationError{
			Field:   "source",
			Message: "must differ from root; leave it empty to publish in place",
		})
	}

	if cfg.MinSizeKB < 0 {
		errs = append(errs, ValidationError{
			Field:   "min_size_kb",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.MinSizeKB),
		})
	}

	known := staticcompress.Methods()
	if !slices.ContainsFunc(cfg.Methods, func(m string) bool { return slices.Contains(known, m) }) {
		errs = append(errs, ValidationError{
			Field:   "methods",
			Message: fmt.Sprintf("must name at least one of %s", strings.Join(known, ", ")),
		})
	}

	if _, ok := logging.ParseLevel(cfg.LogLevel); !ok {
		errs = append(errs, ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error, got %q", cfg.LogLevel),
		})
	}

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce",
			Message: fmt.Sprintf("must not be negative, got %s", cfg.Watch.Debounce),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
