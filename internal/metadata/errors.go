package metadata

import "errors"

// ErrCorruptStore indicates the metadata file exists but is not a JSON array
// of records. Load reports it through the logger and continues with an empty
// dataset.
var ErrCorruptStore = errors.New("metadata store is corrupt")

// ErrInvalidRecord indicates a record violates the label invariants.
var ErrInvalidRecord = errors.New("invalid metadata record")

// ErrPartialFileDeletion indicates one or more clip files could not be
// removed while clearing a source.
var ErrPartialFileDeletion = errors.New("some clip files could not be deleted")

// ErrStoreLocked indicates another droneset process holds the writer lock.
var ErrStoreLocked = errors.New("metadata store is locked by another process")
