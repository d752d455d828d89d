//go:build linux || darwin

package config

import "golang.org/x/sys/unix"

// freeDiskSpace reports the bytes available to unprivileged processes on
// the filesystem containing path.
func freeDiskSpace(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Bavail) * uint64(st.Bsize), nil
}
