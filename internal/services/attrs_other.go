//go:build !windows

package services

const markerAttributesSupported = false

func setMarkerAttributes(string) error {
	return nil
}

func clearMarkerAttributes(string) error {
	return nil
}
