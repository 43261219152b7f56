//go:build windows

package services

import (
	"os"

	"golang.org/x/sys/windows"
)

const markerAttributesSupported = true

const markerAttributes = windows.FILE_ATTRIBUTE_HIDDEN | windows.FILE_ATTRIBUTE_SYSTEM

func setMarkerAttributes(path string) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(name)
	if err != nil {
		return err
	}
	return windows.SetFileAttributes(name, attrs|markerAttributes)
}

// clearMarkerAttributes drops hidden, system and read-only so an existing
// marker can be truncated or removed. A missing file is fine.
func clearMarkerAttributes(path string) error {
	name, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	attrs, err := windows.GetFileAttributes(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	cleared := attrs &^ (markerAttributes | windows.FILE_ATTRIBUTE_READONLY)
	if cleared == 0 {
		cleared = windows.FILE_ATTRIBUTE_NORMAL
	}
	if cleared == attrs {
		return nil
	}
	return windows.SetFileAttributes(name, cleared)
}
