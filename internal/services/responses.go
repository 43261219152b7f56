package services

import "time"

type ApplyResult struct {
	Folder        string
	MarkerPath    string
	Removed       bool
	AttributesSet bool
	Duration      time.Duration
	Message       string
}

type MarkerStatus struct {
	Applied bool
	Note    string
}
