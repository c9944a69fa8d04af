// Package ruleconfig edits rule configuration files on disk. It wraps the
// pure planner in pkg/jsonedit with file I/O: reading a snapshot, backing up
// the original, and writing atomically only if the file did not change
// while the edit was prepared.
package ruleconfig

import (
	"context"
	"crypto/sha256"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/rulecfg/internal/errors"
	"github.com/thoreinstein/rulecfg/internal/logging"
	"github.com/thoreinstein/rulecfg/internal/template"
	"github.com/thoreinstein/rulecfg/internal/validator"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
	"github.com/thoreinstein/rulecfg/pkg/jsonedit"
)

// DefaultMaxAttempts bounds how often an edit is recomputed when the file
// keeps changing underneath it.
const DefaultMaxAttempts = 3

// Backuper saves a copy of a file before its first modification.
type Backuper interface {
	EnsureBackedUp(file string) error
}

// Editor applies insert-if-missing edits to configuration files.
type Editor struct {
	// IndentWidth is the number of spaces per nesting level in inserted text.
	IndentWidth int

	// RulesPath locates the rules object inside the document.
	RulesPath jsonedit.Path

	// DefaultLevel is used by ConfigureRule when no level is given.
	DefaultLevel string

	// Backup, when set, is called before an existing file is rewritten.
	Backup Backuper

	// DryRun computes results without touching the file system.
	DryRun bool

	// Bare starts missing files from an empty document instead of the
	// default template.
	Bare bool

	// MaxAttempts bounds recomputation after concurrent changes.
	MaxAttempts int

	// beforeWrite runs between planning and the snapshot check. Tests use
	// it to simulate a concurrent writer.
	beforeWrite func(file string)
}

// Result describes the outcome of an edit.
type Result struct {
	// File is the edited file.
	File string `json:"file"`

	// Path is the property path that was ensured.
	Path string `json:"path"`

	// Created reports that the file did not exist before.
	Created bool `json:"created"`

	// Changed reports that new text was (or, for a dry run, would be) written.
	Changed bool `json:"changed"`

	// Plan is the insertion, nil when the path already existed.
	Plan *jsonedit.Plan `json:"plan,omitempty"`

	// Selection is the span of the value at Path in After.
	Selection jsonedit.Range `json:"selection"`

	// Before and After are the document text around the edit. Before is
	// the template for a file that did not exist.
	Before string `json:"-"`
	After  string `json:"-"`

	// DryRun reports that nothing was written.
	DryRun bool `json:"dry_run,omitempty"`
}

// Value is an existing setting.
type Value struct {
	Raw   string         `json:"value"`
	Range jsonedit.Range `json:"range"`
}

func (e *Editor) indent() int {
	if e.IndentWidth <= 0 {
		return 2
	}
	return e.IndentWidth
}

func (e *Editor) attempts() int {
	if e.MaxAttempts <= 0 {
		return DefaultMaxAttempts
	}
	return e.MaxAttempts
}

// Ensure inserts value at path in file unless something is already there.
// An existing value is never overwritten; its location is returned instead.
func (e *Editor) Ensure(ctx context.Context, file string, path jsonedit.Path, value any) (*Result, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	logger := logging.FromContext(ctx).With("file", file, "path", path.String())

	for attempt := 1; attempt <= e.attempts(); attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, snapshot, err := e.prepare(file, path, value)
		if err != nil {
			return nil, err
		}
		if e.DryRun || (!res.Changed && !res.Created) {
			res.DryRun = e.DryRun
			return res, nil
		}

		err = e.commit(file, res, snapshot, logger)
		if errors.Is(err, errSnapshotChanged) {
			logger.Debug("file changed while editing, recomputing", "attempt", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.Info("updated configuration", "created", res.Created, "changed", res.Changed)
		return res, nil
	}
	return nil, errors.Wrapf(errors.ErrConcurrentModification, "%s: gave up after %d attempts", file, e.attempts())
}

// snapshot records what the file looked like when an edit was planned.
type snapshot struct {
	exists bool
	sum    [sha256.Size]byte
}

func (e *Editor) prepare(file string, path jsonedit.Path, value any) (*Result, snapshot, error) {
	text, exists, err := fileutil.ReadText(file)
	if err != nil {
		return nil, snapshot{}, errors.Wrapf(err, "reading %s", file)
	}
	snap := snapshot{exists: exists, sum: sha256.Sum256([]byte(text))}

	res := &Result{File: file, Path: path.String(), Created: !exists}
	if !exists && !e.Bare {
		text, err = template.Render(e.indent())
		if err != nil {
			return nil, snap, err
		}
	}
	res.Before = text

	plan, ok, err := jsonedit.InsertIfNotExists(text, path, value, jsonedit.WithIndent(e.indent()))
	if err != nil {
		return nil, snap, wrapEdit(err, file)
	}
	res.After = text
	if ok {
		res.After, err = jsonedit.ApplyInsertion(text, plan)
		if err != nil {
			return nil, snap, err
		}
		res.Plan = &plan
		res.Changed = true
	}

	sel, found, err := jsonedit.Locate(res.After, path)
	if err != nil {
		return nil, snap, wrapEdit(err, file)
	}
	if !found {
		return nil, snap, errors.Newf("%s: value at %s missing after edit", file, path)
	}
	res.Selection = sel
	return res, snap, nil
}

var errSnapshotChanged = errors.New("snapshot changed")

func (e *Editor) commit(file string, res *Result, snap snapshot, logger *slog.Logger) error {
	if e.beforeWrite != nil {
		e.beforeWrite(file)
	}
	if snap.exists && e.Backup != nil {
		if err := e.Backup.EnsureBackedUp(file); err != nil {
			return errors.Wrap(err, "backing up before edit")
		}
	}

	current, exists, err := fileutil.ReadText(file)
	if err != nil {
		return errors.Wrapf(err, "re-reading %s", file)
	}
	if exists != snap.exists || sha256.Sum256([]byte(current)) != snap.sum {
		return errSnapshotChanged
	}

	logger.Debug("writing", "bytes", len(res.After))
	if !exists {
		if err := fileutil.AtomicWriteFile(file, []byte(res.After), fileutil.DefaultPerm); err != nil {
			return errors.Wrapf(err, "creating %s", file)
		}
		return nil
	}
	if err := fileutil.ReplaceFile(file, []byte(res.After)); err != nil {
		return errors.Wrapf(err, "writing %s", file)
	}
	return nil
}

// ConfigureRule makes sure rule code has a level. An existing level is left
// alone and its location returned so it can be selected in an editor. An
// empty level means DefaultLevel.
func (e *Editor) ConfigureRule(ctx context.Context, file, code, level string) (*Result, error) {
	if !validator.ValidRuleCode(code) {
		return nil, errors.Wrapf(errors.ErrInvalidRule, "%q", code)
	}
	if level == "" {
		level = e.DefaultLevel
	}
	if !validator.ValidLevel(level) {
		return nil, errors.Wrapf(errors.ErrInvalidLevel, "%q (want one of %v)", level, validator.Levels)
	}
	if len(e.RulesPath) == 0 {
		return nil, errors.Wrap(jsonedit.ErrInvalidArgument, "rules path is not configured")
	}
	return e.Ensure(ctx, file, e.RulesPath.Append(code, "level"), level)
}

// Get returns the raw value at path. A missing file or value yields
// ErrNotFound.
func (e *Editor) Get(ctx context.Context, file string, path jsonedit.Path) (*Value, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text, exists, err := fileutil.ReadText(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	if !exists {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s", file)
	}

	r, ok, err := jsonedit.Locate(text, path)
	if err != nil {
		return nil, wrapEdit(err, file)
	}
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "%s in %s", path, file)
	}
	raw, _, err := jsonedit.Lookup(text, path)
	if err != nil {
		return nil, wrapEdit(err, file)
	}
	return &Value{Raw: raw, Range: r}, nil
}

// Create writes a new configuration file from the default template with
// overrides applied. An existing file is an error unless force is set, in
// which case it is backed up first.
func (e *Editor) Create(ctx context.Context, file string, force bool, overrides ...template.Override) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	before, exists, err := fileutil.ReadText(file)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file)
	}
	if exists && !force {
		return nil, errors.WithHint(
			errors.Newf("%s already exists", file),
			"use --force to replace it; a backup is kept")
	}

	var text string
	if !e.Bare || len(overrides) > 0 {
		text, err = template.Render(e.indent(), overrides...)
		if err != nil {
			return nil, err
		}
	}
	if _, err := jsonedit.Parse(text); err != nil {
		return nil, errors.Wrap(err, "rendered template")
	}

	res := &Result{
		File:    file,
		Created: !exists,
		Changed: before != text || !exists,
		Before:  before,
		After:   text,
		DryRun:  e.DryRun,
	}
	if e.DryRun || !res.Changed {
		return res, nil
	}

	if dir := filepath.Dir(file); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.Wrapf(err, "creating %s", dir)
		}
	}
	if exists {
		if e.Backup != nil {
			if err := e.Backup.EnsureBackedUp(file); err != nil {
				return nil, errors.Wrap(err, "backing up before replace")
			}
		}
		err = fileutil.ReplaceFile(file, []byte(text))
	} else {
		err = fileutil.AtomicWriteFile(file, []byte(text), fileutil.DefaultPerm)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "writing %s", file)
	}
	logging.FromContext(ctx).Info("created configuration", "file", file, "replaced", exists)
	return res, nil
}

// wrapEdit marks parse failures as ErrInvalidFile and names the file.
func wrapEdit(err error, file string) error {
	if errors.Is(err, jsonedit.ErrParse) {
		return errors.Wrapf(errors.Mark(err, errors.ErrInvalidFile), "%s", file)
	}
	return errors.Wrapf(err, "%s", file)
}
