package config

import (
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulecfg/internal/validator"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not 1.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidValue indicates a value has the wrong type or range.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownKey indicates a key that rulecfg does not recognize.
	ErrUnknownKey = errors.New("unknown config key")

	// ErrInvalidPath indicates a file name or rules path is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// maxIndentWidth bounds indent_width; wider indents are almost certainly typos.
const maxIndentWidth = 16

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != DefaultVersion {
		errs = append(errs, &KeyError{Key: KeyVersion, Err: errors.Wrapf(ErrUnsupportedVersion, "%d", cfg.Version)})
	}

	if cfg.IndentWidth < 0 || cfg.IndentWidth > maxIndentWidth {
		errs = append(errs, &KeyError{
			Key: KeyIndentWidth,
			Err: errors.Wrapf(ErrInvalidValue, "%d is outside 0..%d", cfg.IndentWidth, maxIndentWidth),
		})
	}

	if err := validateFileName(cfg.FileName); err != nil {
		errs = append(errs, &KeyError{Key: KeyFileName, Err: err})
	}

	if _, err := jsonedit.ParsePath(cfg.RulesPath); err != nil {
		errs = append(errs, &KeyError{Key: KeyRulesPath, Err: errors.Wrap(ErrInvalidPath, err.Error())})
	}

	if !validator.ValidLevel(cfg.DefaultLevel) {
		errs = append(errs, &KeyError{
			Key: KeyDefaultLevel,
			Err: errors.Wrapf(ErrInvalidValue, "%q is not one of %s", cfg.DefaultLevel, strings.Join(validator.Levels, ", ")),
		})
	}

	if cfg.Backup.Retention < 1 {
		errs = append(errs, &KeyError{
			Key: KeyBackupRetention,
			Err: errors.Wrapf(ErrInvalidValue, "%d must be at least 1", cfg.Backup.Retention),
		})
	}

	return errs
}

// validateFileName requires a bare file name: no directories, no null bytes.
func validateFileName(name string) error {
	if name == "" || strings.ContainsRune(name, '\x00') {
		return ErrInvalidPath
	}
	if filepath.Base(name) != name || name == "." || name == ".." {
		return errors.Wrapf(ErrInvalidPath, "%q must not contain directories", name)
	}
	return nil
}

// KeyError ties a validation failure to a config key.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return e.Key + ": " + e.Err.Error()
}

func (e *KeyError) Unwrap() error {
	return e.Err
}
