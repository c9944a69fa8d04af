package backup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, string) {
	t.Helper()
	m := NewManager(append([]Option{WithBackupDir(t.TempDir())}, opts...)...)
	file := filepath.Join(t.TempDir(), "rulecfg.json")
	if err := os.WriteFile(file, []byte("{\n  \"a\": 1\n}\n"), 0o640); err != nil {
		t.Fatal(err)
	}
	return m, file
}

func TestBackup(t *testing.T) {
	m, file := newTestManager(t)

	manifest, err := m.Backup(file)
	if err != nil {
		t.Fatalf("Backup() error: %v", err)
	}
	if manifest.OriginalPath != file {
		t.Errorf("OriginalPath = %q, want %q", manifest.OriginalPath, file)
	}
	if manifest.Size != int64(len("{\n  \"a\": 1\n}\n")) {
		t.Errorf("Size = %d", manifest.Size)
	}
	if manifest.Mode != 0o640 {
		t.Errorf("Mode = %o, want 640", manifest.Mode)
	}

	got, err := m.Get(file, manifest.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got.SHA256Hash != manifest.SHA256Hash || got.ID != manifest.ID {
		t.Errorf("Get() = %+v, want %+v", got, manifest)
	}
}

func TestBackup_Missing(t *testing.T) {
	m, file := newTestManager(t)
	_, err := m.Backup(file + ".nope")
	if !errors.Is(err, ErrNothingToBackUp) {
		t.Errorf("Backup(missing) error = %v, want ErrNothingToBackUp", err)
	}
}

func TestBackup_Collision(t *testing.T) {
	m, file := newTestManager(t)
	fixed := time.Date(2026, 10, 18, 10, 7, 12, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	first, err := m.Backup(file)
	if err != nil {
		t.Fatalf("first Backup() error: %v", err)
	}
	second, err := m.Backup(file)
	if err != nil {
		t.Fatalf("second Backup() error: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("backup IDs collided: %s", first.ID)
	}
	if second.ID != first.ID+"-1" {
		t.Errorf("second ID = %q, want %q", second.ID, first.ID+"-1")
	}

	list, err := m.List(file)
	if err != nil {
		t.Fatal(err)
	}
	if list[0].ID != second.ID {
		t.Errorf("List()[0] = %q, want newest %q", list[0].ID, second.ID)
	}
}

func TestBackup_Retention(t *testing.T) {
	m, file := newTestManager(t, WithRetentionCount(2))
	base := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := range 4 {
		m.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		manifest, err := m.Backup(file)
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, manifest.ID)
	}

	list, err := m.List(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Fatalf("List() returned %d backups, want 2", len(list))
	}
	if list[0].ID != ids[3] || list[1].ID != ids[2] {
		t.Errorf("kept %s, %s; want %s, %s", list[0].ID, list[1].ID, ids[3], ids[2])
	}
}

func TestList_NoBackups(t *testing.T) {
	m, file := newTestManager(t)
	if _, err := m.List(file); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("List() error = %v, want ErrNoBackupsFound", err)
	}
}

func TestRestore(t *testing.T) {
	m, file := newTestManager(t)
	original, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	manifest, err := m.Backup(file)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(file, []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return time.Now().Add(time.Hour) }

	safety, err := m.Restore(file, manifest.ID)
	if err != nil {
		t.Fatalf("Restore() error: %v", err)
	}
	got, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(original) {
		t.Errorf("restored content = %q, want %q", got, original)
	}
	info, _ := os.Stat(file)
	if info.Mode().Perm() != 0o640 {
		t.Errorf("restored mode = %o, want 640", info.Mode().Perm())
	}
	if safety == nil || safety.ID == manifest.ID {
		t.Fatalf("Restore() did not back up the current file: %+v", safety)
	}

	// Restoring again is a no-op backup-wise: the file already matches.
	again, err := m.Restore(file, manifest.ID)
	if err != nil {
		t.Fatal(err)
	}
	if again != nil {
		t.Errorf("second Restore() made a safety backup %s", again.ID)
	}
}

func TestRestore_Corrupted(t *testing.T) {
	m, file := newTestManager(t)
	manifest, err := m.Backup(file)
	if err != nil {
		t.Fatal(err)
	}
	stored := filepath.Join(m.rootDir, Scope(file), manifest.ID, "rulecfg.json")
	if err := os.Chmod(stored, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stored, []byte("tampered"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Restore(file, manifest.ID); !errors.Is(err, ErrBackupCorrupted) {
		t.Errorf("Restore() error = %v, want ErrBackupCorrupted", err)
	}
}

func TestRestore_UnknownID(t *testing.T) {
	m, file := newTestManager(t)
	if _, err := m.Restore(file, "20000101T000000"); !errors.Is(err, ErrNoBackupsFound) {
		t.Errorf("Restore() error = %v, want ErrNoBackupsFound", err)
	}
	if _, err := m.Restore(file, ""); err == nil {
		t.Error("Restore() with empty ID should error")
	}
}

func TestPrune(t *testing.T) {
	m, file := newTestManager(t)
	base := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		m.now = func() time.Time { return base.Add(time.Duration(i) * time.Second) }
		if _, err := m.Backup(file); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := m.Prune(file, 1)
	if err != nil {
		t.Fatalf("Prune() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("Prune() removed %d, want 2", removed)
	}
	if removed, _ := m.Prune(file+".other", 0); removed != 0 {
		t.Errorf("Prune() of a file without backups removed %d", removed)
	}
	if _, err := m.Prune(file, -1); err == nil {
		t.Error("Prune() with negative keep should error")
	}
}

func TestEnsureBackedUp(t *testing.T) {
	m, file := newTestManager(t)
	base := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	calls := 0
	m.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Second)
	}

	for range 3 {
		if err := m.EnsureBackedUp(file); err != nil {
			t.Fatalf("EnsureBackedUp() error: %v", err)
		}
	}
	list, err := m.List(file)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Errorf("EnsureBackedUp() created %d backups, want 1", len(list))
	}

	if err := m.EnsureBackedUp(file + ".missing"); err != nil {
		t.Errorf("EnsureBackedUp(missing) error = %v, want nil", err)
	}
}

func TestScope(t *testing.T) {
	a := Scope("/work/one/rulecfg.json")
	b := Scope("/work/two/rulecfg.json")
	if a == b {
		t.Errorf("Scope() collided for different directories: %s", a)
	}
	if !strings.HasPrefix(a, "rulecfg.json-") {
		t.Errorf("Scope() = %q, want base name prefix", a)
	}
	if Scope("/work/one/rulecfg.json") != a {
		t.Error("Scope() is not stable")
	}
	if s := Scope(`/tmp/we:ird.json`); strings.Contains(s, ":") {
		t.Errorf("Scope() = %q contains a colon", s)
	}
}
