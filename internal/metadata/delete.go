package metadata

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"droneset/internal/logging"
)

// DeleteResult contains the outcome of clearing a source.
type DeleteResult struct {
	RecordsRemoved int
	FilesRemoved   []string
	Errors         []FileError
}

// FileError pairs a path with the error that prevented its removal.
type FileError struct {
	Path  string
	Error error
}

// Err returns an error wrapping ErrPartialFileDeletion when any file could not
// be removed, or nil.
func (r DeleteResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %d file(s), first %s: %v", ErrPartialFileDeletion, len(r.Errors), r.Errors[0].Path, r.Errors[0].Error)
}

// DeleteAndClearFiles removes every file under filesRoot whose name is stem or
// starts with stem followed by an underscore, together with every record cut
// from identifier or naming such a file. The log is rewritten first; if that fails nothing on disk has
// been touched. File removal is best-effort: failures are logged and collected
// in the result while the walk continues.
//
// Calling it again for a source that is already cleared removes nothing and
// returns no error.
func (s *Store) DeleteAndClearFiles(identifier, stem, filesRoot string) (DeleteResult, error) {
	result := DeleteResult{}
	identifier = strings.TrimSpace(identifier)
	stem = strings.TrimSpace(stem)
	if identifier == "" {
		return result, errors.New("source identifier cannot be empty")
	}
	if stem == "" {
		return result, errors.New("file stem cannot be empty")
	}

	removed, err := s.removeSource(identifier, stem)
	if err != nil {
		return result, fmt.Errorf("remove metadata for %s: %w", identifier, err)
	}
	result.RecordsRemoved = removed

	if strings.TrimSpace(filesRoot) != "" {
		s.clearFiles(stem, filesRoot, &result)
	}

	s.logger.Info("cleared source",
		logging.String(logging.FieldSource, identifier),
		logging.String("stem", stem),
		logging.Int("records_removed", result.RecordsRemoved),
		logging.Int("files_removed", len(result.FilesRemoved)),
		logging.Int("file_errors", len(result.Errors)))
	return result, nil
}

func (s *Store) clearFiles(stem, root string, result *DeleteResult) {
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipDir
			}
			s.recordFileError(result, path, err)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !matchesStem(entry.Name(), stem) {
			return nil
		}
		if err := os.Remove(path); err != nil {
			s.recordFileError(result, path, err)
			return nil
		}
		result.FilesRemoved = append(result.FilesRemoved, path)
		return nil
	})
	if walkErr != nil {
		s.recordFileError(result, root, walkErr)
	}
}

func (s *Store) recordFileError(result *DeleteResult, path string, err error) {
	result.Errors = append(result.Errors, FileError{Path: path, Error: err})
	logging.WarnWithContext(s.logger, "failed to remove clip file", "clip_delete_failed",
		logging.String("path", path),
		logging.Error(err),
		logging.String(logging.FieldErrorHint, "check permissions under the audio directory"),
		logging.String(logging.FieldImpact, "file left on disk without a metadata record"))
}

func matchesStem(name, stem string) bool {
	if stem == "" {
		return false
	}
	return name == stem || strings.HasPrefix(name, stem+"_")
}
