//go:build darwin

package services

import (
	"os"
	"syscall"
	"time"
)

func createdAt(_ string, info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Birthtimespec.Unix())
	}
	return info.ModTime()
}
