// Package validation checks report output locations before any dataset is loaded.
package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// OutputValidator checks that export destinations can be written
type OutputValidator struct {
	logger *slog.Logger
}

// NewOutputValidator creates a new output validator
func NewOutputValidator(logger *slog.Logger) *OutputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &OutputValidator{
		logger: logger.With(slog.String("component", "output_validator")),
	}
}

// ValidateDirectory creates dir when missing and checks it is writable
func (v *OutputValidator) ValidateDirectory(dir string) error {
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		v.logger.Error("Output path is not a directory", slog.String("path", dir))
		return fmt.Errorf("%s is not a directory", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test_*")
	if err != nil {
		v.logger.Error("Output directory is not writable",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())

	v.logger.Debug("Output directory validated", slog.String("directory", dir))
	return nil
}

// ValidateFilePath checks that path names a file whose directory is writable.
// An existing file at path is overwritten later, so it is accepted.
func (v *OutputValidator) ValidateFilePath(path string) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		v.logger.Error("Output path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}
	return v.ValidateDirectory(filepath.Dir(path))
}
