// Package paths resolves the directories rulecfg reads from and writes to.
//
// It wraps github.com/adrg/xdg for the XDG Base Directory locations of
// rulecfg's own files (config, backups, logs), and walks the directory tree
// for configuration documents:
//
//	file, ok, err := paths.FindUp(cwd, "rulecfg.json") // nearest existing file
//	dirs, err := paths.Ancestors(cwd)                  // where a new one may go
package paths
