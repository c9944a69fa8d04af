//go:build !unix

package paths

import "os"

// readWritable falls back to checking the owner permission bits.
func readWritable(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir() && info.Mode().Perm()&0o600 == 0o600
}
