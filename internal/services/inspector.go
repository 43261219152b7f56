package services

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"filefusion/internal/domain"
	fferrors "filefusion/internal/errors"
)

const noExtension = "(none)"

type FSInspector struct {
	logger *slog.Logger
}

func NewFSInspector(logger *slog.Logger) *FSInspector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FSInspector{logger: logger.With("component", "inspector")}
}

// Inspect walks the tree under req.Path once. Only a missing or non-directory
// root is an error; entries that cannot be read are counted in Skipped and
// left out of the totals.
func (inspector *FSInspector) Inspect(ctx context.Context, req InspectRequest) (domain.FolderStats, error) {
	root := cleanPath(req.Path)
	if root == "" {
		return domain.FolderStats{}, fferrors.Newf(fferrors.ErrNotFound, "no folder given")
	}
	info, err := os.Stat(root)
	if err != nil {
		return domain.FolderStats{}, fferrors.Wrapf(err, fferrors.ErrNotFound, "inspecting %s", root)
	}
	if !info.IsDir() {
		return domain.FolderStats{}, fferrors.Newf(fferrors.ErrNotFound, "%s is not a folder", root)
	}

	// WalkDir does not descend into a symlinked root.
	walkRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return domain.FolderStats{}, fferrors.Wrapf(err, fferrors.ErrNotFound, "resolving %s", root)
	}

	stats := domain.FolderStats{
		Path:       root,
		ModifiedAt: info.ModTime(),
		CreatedAt:  createdAt(root, info),
	}
	extBytes := make(map[string]int64)

	walkErr := filepath.WalkDir(walkRoot, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			stats.Skipped++
			inspector.logger.Debug("walk entry skipped", "path", path, "error", err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if path == walkRoot {
			return nil
		}

		switch {
		case entry.IsDir():
			stats.FolderCount++
		case entry.Type()&fs.ModeSymlink != 0:
			inspector.countSymlink(&stats, extBytes, path)
		default:
			stats.FileCount++
			fileInfo, err := entry.Info()
			if err != nil {
				stats.Skipped++
				inspector.logger.Debug("file size unreadable", "path", path, "error", err)
				return nil
			}
			addFile(&stats, extBytes, path, fileInfo.Size())
		}
		return nil
	})
	if walkErr != nil {
		return stats, walkErr
	}

	stats.TopExtension, stats.TopExtBytes = topExtension(extBytes)
	inspector.logger.Debug("inspect complete",
		"path", root,
		"folders", stats.FolderCount,
		"files", stats.FileCount,
		"bytes", stats.TotalSizeBytes,
		"skipped", stats.Skipped)
	return stats, nil
}

// countSymlink classifies a link by its target without following it into
// the walk. Broken links count as files with no size.
func (inspector *FSInspector) countSymlink(stats *domain.FolderStats, extBytes map[string]int64, path string) {
	target, err := os.Stat(path)
	if err != nil {
		stats.FileCount++
		stats.Skipped++
		inspector.logger.Debug("broken symlink", "path", path, "error", err)
		return
	}
	if target.IsDir() {
		stats.FolderCount++
		return
	}
	stats.FileCount++
	addFile(stats, extBytes, path, target.Size())
}

func addFile(stats *domain.FolderStats, extBytes map[string]int64, path string, size int64) {
	stats.TotalSizeBytes += size
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		ext = noExtension
	}
	extBytes[ext] += size
}

func topExtension(extBytes map[string]int64) (string, int64) {
	if len(extBytes) == 0 {
		return "", 0
	}
	exts := make([]string, 0, len(extBytes))
	for ext := range extBytes {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if extBytes[exts[i]] != extBytes[exts[j]] {
			return extBytes[exts[i]] > extBytes[exts[j]]
		}
		return exts[i] < exts[j]
	})
	return exts[0], extBytes[exts[0]]
}

func cleanPath(path string) string {
	if path == "" {
		return path
	}
	clean := filepath.Clean(path)
	abs, err := filepath.Abs(clean)
	if err != nil {
		return clean
	}
	return abs
}
