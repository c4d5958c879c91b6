package importer

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal bundle errors: the run ends with nothing persisted.
var (
	ErrBadArchive        = errors.New("unreadable zip archive")
	ErrNoManifest        = errors.New("archive contains no manifest CSV")
	ErrMultipleManifests = errors.New("archive contains more than one manifest CSV")
)

// HeaderError is fatal: the manifest header is missing required columns or
// carries columns outside the fixed schema. Reported before any row work.
type HeaderError struct {
	Missing []string
	Unknown []string
}

func (e *HeaderError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, "unknown columns: "+strings.Join(e.Unknown, ", "))
	}
	return "manifest header invalid: " + strings.Join(parts, "; ")
}

// RowError is row-scoped: the row is skipped and recorded in the report, the
// run continues.
type RowError struct {
	Line    int
	Message string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Line, e.Message)
}
