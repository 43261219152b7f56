package services

import (
	"context"
	"sync"
	"time"

	"filefusion/internal/domain"
)

// MockInspector returns canned stats after a short delay.
type MockInspector struct {
	Stats domain.FolderStats
	Err   error
	Delay time.Duration
}

func NewMockInspector(stats domain.FolderStats) *MockInspector {
	return &MockInspector{Stats: stats}
}

func (inspector *MockInspector) Inspect(ctx context.Context, req InspectRequest) (domain.FolderStats, error) {
	select {
	case <-ctx.Done():
		return domain.FolderStats{}, ctx.Err()
	case <-time.After(inspector.Delay):
	}
	if inspector.Err != nil {
		return domain.FolderStats{}, inspector.Err
	}
	stats := inspector.Stats
	stats.Path = req.Path
	return stats, nil
}

// MockCustomizer records requests and keeps marker state in memory.
type MockCustomizer struct {
	mu      sync.Mutex
	Applied []ApplyRequest
	Resets  []string
	Err     error
	notes   map[string]string
}

func NewMockCustomizer() *MockCustomizer {
	return &MockCustomizer{notes: make(map[string]string)}
}

func (customizer *MockCustomizer) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return ApplyResult{}, err
	}
	customizer.mu.Lock()
	defer customizer.mu.Unlock()
	customizer.Applied = append(customizer.Applied, req)
	if customizer.Err != nil {
		return ApplyResult{Folder: req.Folder}, customizer.Err
	}
	customizer.notes[req.Folder] = singleLine(req.Note)
	return ApplyResult{
		Folder:     req.Folder,
		MarkerPath: MarkerPath(req.Folder),
		Message:    "customization applied",
	}, nil
}

func (customizer *MockCustomizer) Reset(ctx context.Context, folder string) (ApplyResult, error) {
	if err := ctx.Err(); err != nil {
		return ApplyResult{}, err
	}
	customizer.mu.Lock()
	defer customizer.mu.Unlock()
	customizer.Resets = append(customizer.Resets, folder)
	if customizer.Err != nil {
		return ApplyResult{Folder: folder}, customizer.Err
	}
	_, removed := customizer.notes[folder]
	delete(customizer.notes, folder)
	return ApplyResult{Folder: folder, MarkerPath: MarkerPath(folder), Removed: removed, Message: "customization reset"}, nil
}

func (customizer *MockCustomizer) Status(folder string) (MarkerStatus, error) {
	customizer.mu.Lock()
	defer customizer.mu.Unlock()
	note, ok := customizer.notes[folder]
	return MarkerStatus{Applied: ok, Note: note}, nil
}
