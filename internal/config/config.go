// Package config provides configuration management for rulecfg using Viper.
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/rulecfg/internal/paths"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "rulecfg"

// Keys recognized in the config file, in display order.
const (
	KeyVersion         = "version"
	KeyIndentWidth     = "indent_width"
	KeyFileName        = "file_name"
	KeyRulesPath       = "rules_path"
	KeyDefaultLevel    = "default_level"
	KeyBackupEnabled   = "backup.enabled"
	KeyBackupRetention = "backup.retention"
)

// Defaults for every key.
const (
	DefaultVersion         = 1
	DefaultIndentWidth     = 2
	DefaultFileName        = "rulecfg.json"
	DefaultRulesPath       = "analyzers.core.rules"
	DefaultLevel           = "warning"
	DefaultBackupRetention = 5
)

// Config represents the top-level configuration structure.
type Config struct {
	Version      int    `mapstructure:"version" yaml:"version"`
	IndentWidth  int    `mapstructure:"indent_width" yaml:"indent_width"`
	FileName     string `mapstructure:"file_name" yaml:"file_name"`
	RulesPath    string `mapstructure:"rules_path" yaml:"rules_path"`
	DefaultLevel string `mapstructure:"default_level" yaml:"default_level"`
	Backup       Backup `mapstructure:"backup" yaml:"backup"`
}

// Backup controls the pre-edit snapshots kept by internal/backup.
type Backup struct {
	Enabled   bool `mapstructure:"enabled" yaml:"enabled"`
	Retention int  `mapstructure:"retention" yaml:"retention"`
}

// Keys returns every supported key.
func Keys() []string {
	return []string{
		KeyVersion,
		KeyIndentWidth,
		KeyFileName,
		KeyRulesPath,
		KeyDefaultLevel,
		KeyBackupEnabled,
		KeyBackupRetention,
	}
}

// ValidKey reports whether key is a supported config key.
func ValidKey(key string) bool {
	return slices.Contains(Keys(), key)
}

// Default returns a configuration populated with default values.
func Default() *Config {
	return &Config{
		Version:      DefaultVersion,
		IndentWidth:  DefaultIndentWidth,
		FileName:     DefaultFileName,
		RulesPath:    DefaultRulesPath,
		DefaultLevel: DefaultLevel,
		Backup: Backup{
			Enabled:   true,
			Retention: DefaultBackupRetention,
		},
	}
}

// Dir returns the directory holding config.yaml.
// RULECFG_CONFIG_DIR overrides the XDG location.
func Dir() string {
	if dir := os.Getenv("RULECFG_CONFIG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(paths.ConfigHome(), AppName)
}

// File returns the path of the default config file.
func File() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
// Init resets any previous Viper state.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(Dir())

	// RULECFG_INDENT_WIDTH, RULECFG_BACKUP_ENABLED, ...
	viper.SetEnvPrefix("RULECFG")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	d := Default()
	viper.SetDefault(KeyVersion, d.Version)
	viper.SetDefault(KeyIndentWidth, d.IndentWidth)
	viper.SetDefault(KeyFileName, d.FileName)
	viper.SetDefault(KeyRulesPath, d.RulesPath)
	viper.SetDefault(KeyDefaultLevel, d.DefaultLevel)
	viper.SetDefault(KeyBackupEnabled, d.Backup.Enabled)
	viper.SetDefault(KeyBackupRetention, d.Backup.Retention)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		}
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errs[0], "validating config")
	}

	return &cfg, nil
}

// Set validates value for key and stores it in Viper with its proper type.
func Set(key, value string) error {
	if !ValidKey(key) {
		return &KeyError{Key: key, Err: ErrUnknownKey}
	}

	var typed any
	switch key {
	case KeyVersion, KeyIndentWidth, KeyBackupRetention:
		n, err := strconv.Atoi(value)
		if err != nil {
			return &KeyError{Key: key, Err: errors.Wrapf(ErrInvalidValue, "%q is not an integer", value)}
		}
		typed = n
	case KeyBackupEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return &KeyError{Key: key, Err: errors.Wrapf(ErrInvalidValue, "%q is not a boolean", value)}
		}
		typed = b
	default:
		typed = value
	}

	candidate := Current()
	apply(candidate, key, typed)
	if errs := Validate(candidate); len(errs) > 0 {
		return errs[0]
	}

	viper.Set(key, typed)
	return nil
}

// Current returns the configuration Viper holds right now.
func Current() *Config {
	return &Config{
		Version:      viper.GetInt(KeyVersion),
		IndentWidth:  viper.GetInt(KeyIndentWidth),
		FileName:     viper.GetString(KeyFileName),
		RulesPath:    viper.GetString(KeyRulesPath),
		DefaultLevel: viper.GetString(KeyDefaultLevel),
		Backup: Backup{
			Enabled:   viper.GetBool(KeyBackupEnabled),
			Retention: viper.GetInt(KeyBackupRetention),
		},
	}
}

// Save writes cfg to path atomically, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

func apply(cfg *Config, key string, v any) {
	switch key {
	case KeyVersion:
		cfg.Version = v.(int)
	case KeyIndentWidth:
		cfg.IndentWidth = v.(int)
	case KeyFileName:
		cfg.FileName = v.(string)
	case KeyRulesPath:
		cfg.RulesPath = v.(string)
	case KeyDefaultLevel:
		cfg.DefaultLevel = v.(string)
	case KeyBackupEnabled:
		cfg.Backup.Enabled = v.(bool)
	case KeyBackupRetention:
		cfg.Backup.Retention = v.(int)
	}
}
