//go:build !linux && !darwin && !windows

package services

import (
	"os"
	"time"
)

func createdAt(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
