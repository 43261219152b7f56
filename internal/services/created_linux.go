//go:build linux

package services

import (
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// createdAt prefers the statx birth time and falls back to the inode change
// time on filesystems that do not record one.
func createdAt(path string, info os.FileInfo) time.Time {
	var statx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &statx)
	if err == nil && statx.Mask&unix.STATX_BTIME != 0 {
		return time.Unix(statx.Btime.Sec, int64(statx.Btime.Nsec))
	}
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Ctim.Unix())
	}
	return info.ModTime()
}
