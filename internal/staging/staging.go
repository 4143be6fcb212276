package staging

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"droneset/internal/logging"
)

const (
	downloadPrefix  = "yt_audio_"
	convertedSuffix = "_16k.wav"
)

// DownloadBase returns the path, without extension, a remote recording is
// downloaded to. The downloader appends the container extension.
func DownloadBase(workDir, stem string) string {
	return filepath.Join(workDir, fmt.Sprintf("%s%s_%s", downloadPrefix, stem, shortID()))
}

// ConvertedPath returns a fresh path for a converted recording.
func ConvertedPath(workDir, stem string) string {
	return filepath.Join(workDir, fmt.Sprintf("%s_%s%s", stem, shortID(), convertedSuffix))
}

// IsTemporary reports whether name was produced by DownloadBase or
// ConvertedPath.
func IsTemporary(name string) bool {
	return strings.HasPrefix(name, downloadPrefix) || strings.HasSuffix(name, convertedSuffix)
}

func shortID() string {
	return uuid.NewString()[:8]
}

// FileInfo describes a temporary file in the work directory.
type FileInfo struct {
	Name    string
	Path    string
	ModTime time.Time
	Size    int64
}

// List returns the temporary files in workDir. A missing directory yields no
// files.
func List(workDir string) ([]FileInfo, error) {
	workDir = strings.TrimSpace(workDir)
	if workDir == "" {
		return nil, nil
	}

	entries, err := os.ReadDir(workDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() || !IsTemporary(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:    entry.Name(),
			Path:    filepath.Join(workDir, entry.Name()),
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}
	return files, nil
}

// CleanResult contains the outcome of a stale file cleanup.
type CleanResult struct {
	Removed []string
	Errors  []CleanupError
}

// CleanupError pairs a path with its cleanup error.
type CleanupError struct {
	Path  string
	Error error
}

// CleanStale removes temporary files in workDir older than maxAge. Files the
// work directory holds for other reasons are never touched.
func CleanStale(ctx context.Context, workDir string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	result := CleanResult{}
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "staging"))

	files, err := List(workDir)
	if err != nil {
		result.Errors = append(result.Errors, CleanupError{Path: workDir, Error: err})
		return result
	}

	cutoff := time.Now().Add(-maxAge)
	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		if !file.ModTime.Before(cutoff) {
			continue
		}
		if err := os.Remove(file.Path); err != nil && !os.IsNotExist(err) {
			result.Errors = append(result.Errors, CleanupError{Path: file.Path, Error: err})
			logging.WarnWithContext(logger, "failed to remove stale temporary audio", "staging_cleanup_failed",
				logging.String("path", file.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check work_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"))
			continue
		}
		result.Removed = append(result.Removed, file.Path)
		logger.Info("removed stale temporary audio",
			logging.String("path", file.Path),
			logging.Duration("age", time.Since(file.ModTime)),
			logging.String(logging.FieldEventType, "staging_cleanup"))
	}
	return result
}

// TotalSize sums the sizes of files.
func TotalSize(files []FileInfo) int64 {
	var size int64
	for _, f := range files {
		size += f.Size
	}
	return size
}
