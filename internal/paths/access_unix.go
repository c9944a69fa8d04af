//go:build unix

package paths

import "golang.org/x/sys/unix"

func readWritable(dir string) bool {
	return unix.Access(dir, unix.R_OK|unix.W_OK) == nil
}
