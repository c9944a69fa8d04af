package backup

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/thoreinstein/rulecfg/internal/paths"
	"github.com/thoreinstein/rulecfg/pkg/fileutil"
)

// Version is set at build time via ldflags.
var Version = "dev"

const (
	manifestName = "manifest.json"
	idLayout     = "20060102T150405"
)

// Manager handles backup creation, restoration, and management.
type Manager struct {
	rootDir        string
	retentionCount int
	now            func() time.Time

	mu   sync.Mutex
	once map[string]*sync.Once
}

// Option configures a Manager.
type Option func(*Manager)

// WithBackupDir sets the root backup directory.
func WithBackupDir(dir string) Option {
	return func(m *Manager) {
		m.rootDir = dir
	}
}

// WithRetentionCount sets the number of backups to retain per file.
func WithRetentionCount(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.retentionCount = n
		}
	}
}

// NewManager creates a new backup Manager with the given options.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		rootDir:        paths.BackupDir(),
		retentionCount: DefaultRetentionCount,
		now:            time.Now,
		once:           make(map[string]*sync.Once),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Backup copies file into a new timestamped backup and prunes the file's
// history down to the retention count.
// Returns ErrNothingToBackUp if the file does not exist.
func (m *Manager) Backup(file string) (*Manifest, error) {
	src, err := filepath.Abs(file)
	if err != nil {
		return nil, errors.Wrap(err, "resolving file path")
	}
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNothingToBackUp, "%s does not exist", src)
		}
		return nil, errors.Wrapf(err, "stat %s", src)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.Newf("%s is not a regular file", src)
	}

	scopeDir := filepath.Join(m.rootDir, Scope(src))
	if err := paths.EnsureDir(scopeDir, 0); err != nil {
		return nil, errors.Wrap(err, "creating backup directory")
	}

	created := m.now()
	id, dir, err := reserve(scopeDir, created.Format(idLayout))
	if err != nil {
		return nil, err
	}

	hash, size, err := copyFile(src, filepath.Join(dir, filepath.Base(src)), 0o600)
	if err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrapf(err, "backing up %s", src)
	}

	manifest := &Manifest{
		Version:      ManifestVersion,
		CreatedAt:    created.UTC(),
		OriginalPath: src,
		SHA256Hash:   hash,
		Size:         size,
		Mode:         info.Mode().Perm(),
		ToolVersion:  Version,
		ID:           id,
	}
	if err := fileutil.AtomicWriteJSON(filepath.Join(dir, manifestName), manifest, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	if _, err := m.Prune(src, m.retentionCount); err != nil {
		return manifest, errors.Wrap(err, "pruning old backups")
	}
	return manifest, nil
}

// reserve creates a fresh backup directory named after base, adding a
// numeric suffix when two backups land in the same second.
func reserve(scopeDir, base string) (string, string, error) {
	for i := 0; i < 100; i++ {
		id := base
		if i > 0 {
			id = base + "-" + strconv.Itoa(i)
		}
		dir := filepath.Join(scopeDir, id)
		err := os.Mkdir(dir, paths.DefaultDirPerm)
		if err == nil {
			return id, dir, nil
		}
		if !os.IsExist(err) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups at %s", base)
}

// Restore writes a backup back over file after verifying its hash.
// The current contents are backed up first, so a restore can be undone.
// It returns the manifest of that safety backup, or nil when file did not
// exist or already matched the backup.
func (m *Manager) Restore(file, backupID string) (*Manifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}
	manifest, err := m.Get(file, backupID)
	if err != nil {
		return nil, err
	}

	stored := filepath.Join(m.rootDir, Scope(file), backupID, filepath.Base(manifest.OriginalPath))
	data, err := os.ReadFile(stored)
	if err != nil {
		return nil, errors.Wrapf(err, "reading backup %s", backupID)
	}
	if hashBytes(data) != manifest.SHA256Hash {
		return nil, errors.Wrapf(ErrBackupCorrupted, "backup %s hash mismatch", backupID)
	}

	var safety *Manifest
	if current, err := os.ReadFile(manifest.OriginalPath); err != nil || hashBytes(current) != manifest.SHA256Hash {
		safety, err = m.Backup(manifest.OriginalPath)
		if err != nil && !errors.Is(err, ErrNothingToBackUp) {
			return nil, errors.Wrap(err, "backing up current file before restore")
		}
	}

	if err := fileutil.AtomicWriteFile(manifest.OriginalPath, data, manifest.Mode); err != nil {
		return safety, errors.Wrapf(err, "restoring %s", manifest.OriginalPath)
	}
	return safety, nil
}

// List returns the backups of file, newest first.
func (m *Manager) List(file string) ([]Manifest, error) {
	scope := Scope(file)
	entries, err := os.ReadDir(filepath.Join(m.rootDir, scope))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoBackupsFound
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifest, err := m.load(scope, entry.Name())
		if err != nil {
			// Skip invalid backup directories
			continue
		}
		manifests = append(manifests, *manifest)
	}
	if len(manifests) == 0 {
		return nil, ErrNoBackupsFound
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	return manifests, nil
}

// compareIDs orders same-second IDs by their numeric suffix.
func compareIDs(a, b string) int {
	if len(a) != len(b) {
		return len(a) - len(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Prune removes backups of file beyond the newest keep.
// It returns how many were removed.
func (m *Manager) Prune(file string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}
	manifests, err := m.List(file)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, old := range manifests[min(keep, len(manifests)):] {
		if err := os.RemoveAll(filepath.Join(m.rootDir, Scope(file), old.ID)); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", old.ID)
		}
		removed++
	}
	return removed, nil
}

// Get returns the manifest for a specific backup of file.
func (m *Manager) Get(file, backupID string) (*Manifest, error) {
	if backupID == "" {
		return nil, errors.New("backup ID is required")
	}
	return m.load(Scope(file), backupID)
}

func (m *Manager) load(scope, backupID string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(m.rootDir, scope, backupID, manifestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s not found", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Wrap(err, "parsing manifest")
	}
	manifest.ID = backupID
	return &manifest, nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// copyFile copies src to dst with perm, returning the SHA256 hash and size
// of what was copied.
func copyFile(src, dst string, perm fs.FileMode) (string, int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	n, err := io.Copy(io.MultiWriter(out, h), in)
	if err != nil {
		out.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}
	if err := out.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}
