package domain

import "time"

// FolderStats is recomputed on every inspect and never persisted.
type FolderStats struct {
	Path           string
	FolderCount    int
	FileCount      int
	TotalSizeBytes int64
	CreatedAt      time.Time
	ModifiedAt     time.Time
	Skipped        int
	TopExtension   string
	TopExtBytes    int64
}

func (stats FolderStats) AverageFilesPerFolder() float64 {
	folders := stats.FolderCount
	if folders < 1 {
		folders = 1
	}
	return float64(stats.FileCount) / float64(folders)
}

type Customization struct {
	Name   string
	Color  string
	Icon   string
	Effect Effect
	Note   string
}

const DefaultNote = "Customized with FileFusion Pro"

// MarkerNote is the InfoTip text written for the customization.
func (custom Customization) MarkerNote() string {
	if custom.Note != "" {
		return custom.Note
	}
	return DefaultNote
}
