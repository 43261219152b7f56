package ui

import (
	"filefusion/internal/domain"
	"filefusion/internal/services"
)

type openFolderMsg struct {
	path string
}

type inspectResultMsg struct {
	gen   int
	path  string
	stats domain.FolderStats
	err   error
}

type applyResultMsg struct {
	result services.ApplyResult
	reset  bool
	err    error
}

type markerStatusMsg struct {
	path   string
	status services.MarkerStatus
	err    error
}

type folderChangedMsg struct {
	path string
}

type copyResultMsg struct {
	path string
	err  error
}
