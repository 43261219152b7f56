package services

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	fferrors "filefusion/internal/errors"
)

const (
	MarkerFileName = "desktop.ini"
	markerSection  = "[.ShellClassInfo]"
	infoTipKey     = "InfoTip="
)

type FSCustomizer struct {
	logger *slog.Logger
}

func NewFSCustomizer(logger *slog.Logger) *FSCustomizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &FSCustomizer{logger: logger.With("component", "customizer")}
}

func MarkerPath(folder string) string {
	return filepath.Join(folder, MarkerFileName)
}

// MarkerContent is the exact marker body written for note.
func MarkerContent(note string) []byte {
	var buf bytes.Buffer
	buf.WriteString(markerSection)
	buf.WriteString("\r\n")
	buf.WriteString(infoTipKey)
	buf.WriteString(singleLine(note))
	buf.WriteString("\r\n")
	return buf.Bytes()
}

// Apply rewrites the marker file and then flags it hidden and system where
// the platform has those attributes. A failure between the two steps
// leaves a plain marker behind; calling Apply again converges.
func (customizer *FSCustomizer) Apply(ctx context.Context, req ApplyRequest) (ApplyResult, error) {
	start := time.Now()
	folder := cleanPath(req.Folder)
	result := ApplyResult{Folder: folder, MarkerPath: MarkerPath(folder)}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := requireFolder(folder); err != nil {
		return result, err
	}

	if err := clearMarkerAttributes(result.MarkerPath); err != nil {
		return result, fferrors.Wrapf(err, fferrors.ErrWrite, "clearing attributes on %s", result.MarkerPath)
	}
	if err := os.WriteFile(result.MarkerPath, MarkerContent(req.Note), 0o644); err != nil {
		return result, fferrors.Wrapf(err, fferrors.ErrWrite, "writing %s", result.MarkerPath)
	}
	if err := setMarkerAttributes(result.MarkerPath); err != nil {
		return result, fferrors.Wrapf(err, fferrors.ErrWrite, "setting attributes on %s", result.MarkerPath)
	}

	result.AttributesSet = markerAttributesSupported
	result.Duration = time.Since(start)
	result.Message = "customization applied"
	customizer.logger.Info("customization applied", "folder", folder, "attributes", result.AttributesSet)
	return result, nil
}

// Reset removes the marker file. A folder without one is left as is.
func (customizer *FSCustomizer) Reset(ctx context.Context, folder string) (ApplyResult, error) {
	start := time.Now()
	folder = cleanPath(folder)
	result := ApplyResult{Folder: folder, MarkerPath: MarkerPath(folder)}
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if err := requireFolder(folder); err != nil {
		return result, err
	}

	if err := clearMarkerAttributes(result.MarkerPath); err != nil {
		return result, fferrors.Wrapf(err, fferrors.ErrWrite, "clearing attributes on %s", result.MarkerPath)
	}
	err := os.Remove(result.MarkerPath)
	switch {
	case err == nil:
		result.Removed = true
		result.Message = "customization reset"
	case os.IsNotExist(err):
		result.Message = "nothing to reset"
	default:
		return result, fferrors.Wrapf(err, fferrors.ErrWrite, "removing %s", result.MarkerPath)
	}
	result.Duration = time.Since(start)
	customizer.logger.Info("customization reset", "folder", folder, "removed", result.Removed)
	return result, nil
}

// Status reports whether folder carries a marker and the note inside it.
func (customizer *FSCustomizer) Status(folder string) (MarkerStatus, error) {
	data, err := os.ReadFile(MarkerPath(cleanPath(folder)))
	if err != nil {
		if os.IsNotExist(err) {
			return MarkerStatus{}, nil
		}
		return MarkerStatus{}, fferrors.Wrapf(err, fferrors.ErrNotFound, "reading marker in %s", folder)
	}
	status := MarkerStatus{Applied: true}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, infoTipKey) {
			status.Note = strings.TrimPrefix(line, infoTipKey)
			break
		}
	}
	return status, nil
}

func requireFolder(folder string) error {
	if folder == "" {
		return fferrors.Newf(fferrors.ErrWrite, "no folder given")
	}
	info, err := os.Stat(folder)
	if err != nil {
		return fferrors.Wrapf(err, fferrors.ErrWrite, "customizing %s", folder)
	}
	if !info.IsDir() {
		return fferrors.Newf(fferrors.ErrWrite, "%s is not a folder", folder)
	}
	return nil
}

// singleLine keeps the note on the InfoTip line.
func singleLine(note string) string {
	return strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(note)
}
