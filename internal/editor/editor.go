// Package editor launches the user's preferred text editor, optionally with
// the cursor placed on a specific setting.
package editor

import (
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// Open launches the user's preferred editor for the given path.
// Uses $EDITOR, falling back to $VISUAL, then nano, then vi.
func Open(path string) error {
	return OpenAt(path, nil)
}

// OpenAt opens path with the cursor at pos when the editor understands a
// line argument. A nil pos opens the file normally.
func OpenAt(path string, pos *jsonedit.Position) error {
	argv := Command(detectEditor(), path, pos)

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", argv[0])
	}
	return nil
}

// Command builds the argument vector for editor. The editor value may carry
// its own flags, as in EDITOR="code --wait".
func Command(editor, path string, pos *jsonedit.Position) []string {
	argv := strings.Fields(editor)
	if len(argv) == 0 {
		argv = []string{"vi"}
	}
	if pos == nil {
		return append(argv, path)
	}

	line, col := pos.Line+1, pos.Column+1
	switch filepath.Base(argv[0]) {
	case "vi", "vim", "nvim", "gvim", "mvim", "kak", "micro", "hx", "helix":
		return append(argv, "+"+strconv.Itoa(line), path)
	case "nano", "pico":
		return append(argv, "+"+strconv.Itoa(line)+","+strconv.Itoa(col), path)
	case "emacs", "emacsclient":
		return append(argv, "+"+strconv.Itoa(line)+":"+strconv.Itoa(col), path)
	case "code", "code-insiders", "codium", "cursor":
		return append(argv, "--goto", path+":"+strconv.Itoa(line)+":"+strconv.Itoa(col))
	case "subl", "zed":
		return append(argv, path+":"+strconv.Itoa(line)+":"+strconv.Itoa(col))
	default:
		return append(argv, path)
	}
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}
	return "vi"
}
