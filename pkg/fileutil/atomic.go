// Package fileutil provides the file primitives rulecfg edits go through:
// bounded reads of configuration documents and atomic replacement on write.
package fileutil

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/rulecfg/internal/errors"
)

// DefaultPerm is used for files that do not exist yet.
const DefaultPerm fs.FileMode = 0o644

// tempPattern names the sibling file a write goes through before the rename.
const tempPattern = ".rulecfg-*.tmp"

// AtomicWriteFile replaces path with data through a sibling temp file and a
// rename, so readers see either the old document or the new one, never a mix.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFile(path string, data []byte, perm fs.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), tempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// ReplaceFile is AtomicWriteFile keeping the permissions of the file being
// replaced, or DefaultPerm when path does not exist yet.
func ReplaceFile(path string, data []byte) error {
	return AtomicWriteFile(path, data, PermOf(path))
}

// PermOf returns the permission bits of path, or DefaultPerm if it cannot be
// stat'ed.
func PermOf(path string) fs.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return DefaultPerm
	}
	return info.Mode().Perm()
}

// AtomicWriteJSON writes v as two-space indented JSON with a trailing newline.
// Backup manifests are stored this way.
func AtomicWriteJSON(path string, v any, perm fs.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), perm)
}

// AtomicWriteYAML writes v as YAML with DefaultPerm.
func AtomicWriteYAML(path string, v any) (err error) {
	// yaml.Marshal panics on unmarshalable types
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("marshaling YAML: %v", r)
		}
	}()

	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "marshaling YAML")
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	return AtomicWriteFile(path, data, DefaultPerm)
}
