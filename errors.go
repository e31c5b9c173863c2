package tracker

import "errors"

// Exported errors for library consumers.
var (
	// ErrNoDatabase indicates no database was configured.
	ErrNoDatabase = errors.New("tracker: no database configured")

	// ErrSheetConflict indicates the watched sheet and the tracker sheet share a name.
	ErrSheetConflict = errors.New("tracker: watched sheet and tracker sheet must differ")

	// ErrClientClosed indicates the client has been closed.
	ErrClientClosed = errors.New("tracker: client is closed")
)
