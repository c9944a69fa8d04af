// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/rulecfg/internal/errors"
)

// Sentinel errors for location selection.
var (
	ErrNoCandidates       = errors.New("no candidate directories to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Finder picks one item from a list. The fuzzy finder implements it for
// terminals; tests supply a mock.
type Finder interface {
	Find(items []string, preview func(i int) string) (int, error)
}

// Selector handles interactive location prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	finder Finder
}

// NewSelector creates a Selector using stdin and stdout. When fuzzy is true
// the fuzzy finder is used instead of a numbered list.
func NewSelector(fuzzy bool) *Selector {
	s := &Selector{reader: os.Stdin, writer: os.Stdout}
	if fuzzy {
		s.finder = fuzzyFinder{}
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom IO for testing. finder
// may be nil.
func NewSelectorWithIO(r io.Reader, w io.Writer, finder Finder) *Selector {
	return &Selector{reader: r, writer: w, finder: finder}
}

// SelectDirectory asks where the file named name should be created.
// Candidates are ordered nearest first; the first one is the default.
//
// Returns:
//   - ErrNoCandidates if the list is empty
//   - The directory if only one exists (auto-selects without prompting)
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled on EOF or when the finder is aborted
func (s *Selector) SelectDirectory(name string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoCandidates
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	if s.finder != nil {
		return s.find(name, candidates)
	}

	fmt.Fprintf(s.writer, "Where should %s be created?\n", name)
	for i, dir := range candidates {
		fmt.Fprintf(s.writer, "  [%d] %s\n", i+1, filepath.Join(dir, name))
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	input, err := bufio.NewReader(s.reader).ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrSelectionCancelled
		}
		return "", errors.Wrap(err, "reading selection")
	}

	input = strings.TrimSpace(input)
	if input == "" {
		return candidates[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return "", errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}
	if selection < 1 || selection > len(candidates) {
		return "", errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(candidates))
	}
	return candidates[selection-1], nil
}

func (s *Selector) find(name string, candidates []string) (string, error) {
	items := make([]string, len(candidates))
	for i, dir := range candidates {
		items[i] = filepath.Join(dir, name)
	}

	idx, err := s.finder.Find(items, func(i int) string {
		return fmt.Sprintf("Create %s\n\nin %s", name, candidates[i])
	})
	if err != nil {
		if errors.Is(err, ErrSelectionCancelled) {
			return "", err
		}
		return "", errors.Wrap(err, "interactive selection failed")
	}
	if idx < 0 || idx >= len(candidates) {
		return "", errors.Wrapf(ErrInvalidSelection, "index %d", idx)
	}
	return candidates[idx], nil
}

type fuzzyFinder struct{}

func (fuzzyFinder) Find(items []string, preview func(i int) string) (int, error) {
	idx, err := fuzzyfinder.Find(
		items,
		func(i int) string { return items[i] },
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(i)
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return -1, ErrSelectionCancelled
	}
	return idx, err
}
