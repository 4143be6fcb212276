package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"droneset/internal/logging"
)

// Store reads and rewrites the metadata log at a fixed path. It holds no
// state between calls; every operation starts from what is on disk.
//
// Store is not safe for concurrent writers, in-process or across processes.
type Store struct {
	path   string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore returns a store backed by path. The file is created on the first
// write.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "metadata"),
		now:    time.Now,
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns every record in file order. A missing or empty file yields an
// empty slice. An unreadable or unparsable file is logged and also yields an
// empty slice, so callers continue with an empty dataset. Only an unparsable
// file is moved aside by the next write; an unreadable one makes writes fail.
func (s *Store) Load() []Record {
	records, err := s.read()
	if err != nil {
		event, hint := "metadata_corrupt", "inspect or restore the metadata file"
		if !errors.Is(err, ErrCorruptStore) {
			event, hint = "metadata_unreadable", "check permissions on the metadata file"
		}
		logging.WarnWithContext(s.logger, "metadata store unreadable; continuing with empty dataset", event,
			logging.String("path", s.path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "existing labels are ignored until the file is repaired"))
		return []Record{}
	}
	return records
}

// Append adds records after the existing ones, in the order given, and
// rewrites the file. Records are validated first; one invalid record rejects
// the whole batch.
func (s *Store) Append(records ...Record) error {
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return err
		}
	}
	if len(records) == 0 {
		return nil
	}

	existing, err := s.readForWrite()
	if err != nil {
		return err
	}

	all := make([]Record, 0, len(existing)+len(records))
	all = append(all, existing...)
	all = append(all, records...)
	if err := s.write(all); err != nil {
		return err
	}

	s.logger.Debug("appended metadata records",
		logging.Int("appended", len(records)),
		logging.Int("total", len(all)),
		logging.String("path", s.path))
	return nil
}

// HasSource reports whether any record was cut from identifier. Identifiers
// compare with SameSource.
func (s *Store) HasSource(identifier string) bool {
	return s.CountSource(identifier) > 0
}

// CountSource returns how many records were cut from identifier.
func (s *Store) CountSource(identifier string) int {
	count := 0
	for _, record := range s.Load() {
		if SameSource(record.Identifier(), identifier) {
			count++
		}
	}
	return count
}

// removeSource rewrites the log without records cut from identifier or named
// after stem, and returns how many were dropped. Matching on stem keeps the
// log in step with the files removed for the same stem. The file is untouched
// when nothing matches.
func (s *Store) removeSource(identifier, stem string) (int, error) {
	existing, err := s.readForWrite()
	if err != nil {
		return 0, err
	}

	kept := existing[:0:0]
	for _, record := range existing {
		if SameSource(record.Identifier(), identifier) || matchesStem(record.Filename, stem) {
			continue
		}
		kept = append(kept, record)
	}
	removed := len(existing) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.write(kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// readForWrite loads the log ahead of a rewrite. An unparsable file is moved
// aside and treated as empty; any other read failure is returned.
func (s *Store) readForWrite() ([]Record, error) {
	records, err := s.read()
	if err == nil {
		return records, nil
	}
	if !errors.Is(err, ErrCorruptStore) {
		return nil, err
	}
	if err := s.quarantine(err); err != nil {
		return nil, err
	}
	return []Record{}, nil
}

func (s *Store) read() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("read metadata %s: %w", s.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return []Record{}, nil
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCorruptStore, s.path, err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// write replaces the log atomically via a temporary file in the same
// directory.
func (s *Store) write(records []Record) error {
	if records == nil {
		records = []Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// quarantine moves an unparsable log aside so the following write does not
// destroy it.
func (s *Store) quarantine(cause error) error {
	backup := fmt.Sprintf("%s.corrupt-%s", s.path, s.now().UTC().Format("20060102T150405Z"))
	if err := os.Rename(s.path, backup); err != nil {
		return fmt.Errorf("move corrupt metadata aside: %w (original problem: %v)", err, cause)
	}
	logging.WarnWithContext(s.logger, "moved corrupt metadata store aside", "metadata_quarantined",
		logging.String("path", s.path),
		logging.String("backup", backup),
		logging.Error(cause),
		logging.String(logging.FieldErrorHint, "merge the backup by hand if its labels are needed"),
		logging.String(logging.FieldImpact, "new labels start a fresh metadata file"))
	return nil
}
