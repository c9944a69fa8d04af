// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (backup).
package flags

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/rulecfg/internal/config"
	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/ruleconfig"
)

// fileFlag holds the value of the --file flag.
var fileFlag string

// GetFileFlag returns the current value of the --file flag.
func GetFileFlag() string {
	return fileFlag
}

// SetFileFlag sets the --file value. The root command binds the flag to it.
func SetFileFlag(file string) {
	fileFlag = file
}

// FileFlagVar returns the variable the --file flag is bound to.
func FileFlagVar() *string {
	return &fileFlag
}

// TargetFile returns the configuration file a command operates on: --file
// when given, otherwise the nearest file named by the file_name setting,
// otherwise where that file would be created in the working directory.
func TargetFile() (file string, exists bool, err error) {
	if fileFlag != "" {
		abs, err := filepath.Abs(fileFlag)
		if err != nil {
			return "", false, errors.Wrap(err, "resolving --file")
		}
		info, err := os.Stat(abs)
		switch {
		case err == nil && info.IsDir():
			return "", false, errors.NewUserError(errors.Newf("%s is a directory", abs), "Pass the configuration file itself to --file")
		case err == nil:
			return abs, true, nil
		case os.IsNotExist(err):
			return abs, false, nil
		default:
			return "", false, errors.Wrapf(err, "checking %s", abs)
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return "", false, errors.Wrap(err, "getting working directory")
	}
	return ruleconfig.Resolve(wd, config.Current().FileName)
}
