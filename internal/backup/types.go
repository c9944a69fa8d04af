package backup

import (
	"io/fs"
	"time"

	"github.com/cockroachdb/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultRetentionCount is the default number of backups kept per file.
const DefaultRetentionCount = 5

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the file or ID.
	ErrNoBackupsFound = errors.New("no backups found")

	// ErrBackupCorrupted indicates the stored copy no longer matches the
	// SHA256 hash recorded in its manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")

	// ErrNothingToBackUp indicates the file does not exist yet.
	ErrNothingToBackUp = errors.New("nothing to back up")
)

// Manifest describes one backup of one configuration file.
// It is stored as manifest.json next to the copy.
type Manifest struct {
	// Version is the manifest format version for forward compatibility.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// OriginalPath is the absolute path of the backed up file.
	OriginalPath string `json:"original_path"`

	// SHA256Hash is the hex-encoded SHA256 hash of the copy.
	SHA256Hash string `json:"sha256_hash"`

	// Size is the file size in bytes.
	Size int64 `json:"size"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`

	// ToolVersion is the rulecfg version that created the backup.
	ToolVersion string `json:"tool_version"`

	// ID is the backup identifier (timestamp format: 20261018T100712).
	// It is the directory name and is not stored in JSON.
	ID string `json:"-"`
}
