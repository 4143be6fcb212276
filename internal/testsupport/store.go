package testsupport

import (
	"testing"

	"droneset/internal/config"
	"droneset/internal/logging"
	"droneset/internal/metadata"
)

// NewStore returns a metadata store at the config's metadata path.
func NewStore(t testing.TB, cfg *config.Config) *metadata.Store {
	t.Helper()
	return metadata.NewStore(cfg.Paths.MetadataFile, logging.NewNop())
}

// SeedRecords appends records to the config's metadata store and returns it.
func SeedRecords(t testing.TB, cfg *config.Config, records ...metadata.Record) *metadata.Store {
	t.Helper()

	store := NewStore(t, cfg)
	if err := store.Append(records...); err != nil {
		t.Fatalf("store.Append: %v", err)
	}
	return store
}
