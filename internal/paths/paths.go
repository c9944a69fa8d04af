package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName names rulecfg's directories under the XDG homes.
const AppName = "rulecfg"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory, or "" if it cannot be determined.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// DataHome returns the XDG data home directory.
// On Linux: ~/.local/share
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func DataHome() string {
	return xdg.DataHome
}

// StateHome returns the XDG state home directory.
// On Linux: ~/.local/state
func StateHome() string {
	return xdg.StateHome
}

// BackupDir returns the directory holding pre-edit backups.
// Returns: <DataHome>/rulecfg/backups/
// RULECFG_BACKUP_DIR overrides it.
func BackupDir() string {
	if dir := os.Getenv("RULECFG_BACKUP_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(DataHome(), AppName, "backups")
}

// LogFile returns the default --log-file destination.
// Returns: <StateHome>/rulecfg/rulecfg.log
func LogFile() string {
	return filepath.Join(StateHome(), AppName, AppName+".log")
}

// FindUp looks for name in start and each of its parents, nearest first.
// It returns the first regular file found. A missing file is not an error.
func FindUp(start, name string) (string, bool, error) {
	if name == "" || filepath.Base(name) != name {
		return "", false, errors.Wrapf(ErrInvalidPath, "file name %q", name)
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false, errors.Wrap(err, "resolving start directory")
	}

	for {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && info.Mode().IsRegular():
			return candidate, true, nil
		case err != nil && !os.IsNotExist(err):
			return "", false, errors.Wrapf(err, "checking %s", candidate)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

// Ancestors lists start and its parents, nearest first, stopping at the
// first directory the user cannot both read and write. These are the places
// a new configuration file may be created.
func Ancestors(start string) ([]string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, errors.Wrap(err, "resolving start directory")
	}

	var dirs []string
	for readWritable(dir) {
		dirs = append(dirs, dir)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return dirs, nil
}
