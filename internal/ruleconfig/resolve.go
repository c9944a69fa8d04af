package ruleconfig

import (
	"path/filepath"

	"github.com/thoreinstein/rulecfg/internal/paths"
)

// Resolve finds the configuration file named name that governs startDir:
// the nearest one in startDir or a parent. When there is none, it returns
// the path in startDir where it would be created and exists is false.
func Resolve(startDir, name string) (file string, exists bool, err error) {
	found, ok, err := paths.FindUp(startDir, name)
	if err != nil {
		return "", false, err
	}
	if ok {
		return found, true, nil
	}
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, err
	}
	return filepath.Join(abs, name), false, nil
}
