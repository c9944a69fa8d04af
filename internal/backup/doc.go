// Package backup keeps copies of configuration files from before rulecfg
// modified them.
//
// Every backed up file gets its own scope directory, named by [Scope], under
// the backup root ($XDG_DATA_HOME/rulecfg/backups by default):
//
//	backups/
//	└── rulecfg.json-3f2a9c01b7de/
//	    └── 20261018T100712/
//	        ├── manifest.json
//	        └── rulecfg.json
//
// The manifest records the original path, permissions and a SHA256 hash of
// the copy. [Manager.Restore] refuses a copy whose hash no longer matches
// ([ErrBackupCorrupted]) and backs up the current file before overwriting it.
//
// Edits call [Manager.EnsureBackedUp], which backs a file up once per
// Manager. Each new backup prunes the file's history to the retention count.
package backup
