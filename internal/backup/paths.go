package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// Scope names the directory holding every backup of one file:
// the file's base name plus a short hash of its absolute path, so two
// rulecfg.json files in different projects never share history.
func Scope(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = filepath.Clean(file)
	}
	sum := sha256.Sum256([]byte(abs))
	return sanitize(filepath.Base(abs)) + "-" + hex.EncodeToString(sum[:])[:12]
}

// sanitize keeps scope names portable.
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}
