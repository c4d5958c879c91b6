package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Manifest header schema. Column order is free; names are fixed.
const (
	colParkName     = "park_name"
	colBuildingName = "building_name"
	colNoteText     = "note_text"
	colObserver     = "observer"
	colMediaFile    = "media_file"
	colObservedAt   = "observed_at"
)

var requiredColumns = []string{colParkName, colBuildingName, colNoteText, colObserver}
var optionalColumns = []string{colMediaFile, colObservedAt}

// Row is one validated manifest record. ObservedAt is zero when the manifest
// left the timestamp blank.
type Row struct {
	Line          int
	ParkName      string
	BuildingLabel string
	Observer      string
	NoteText      string
	MediaFile     string
	ObservedAt    time.Time
}

// Parser reads a manifest one row at a time. Construction validates the
// header; a bad header fails the whole file before any row is produced.
type Parser struct {
	r    *csv.Reader
	cols map[string]int
	line int
}

func NewParser(r io.Reader) (*Parser, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &HeaderError{Missing: requiredColumns}
		}
		return nil, fmt.Errorf("failed to read manifest header: %w", err)
	}

	known := make(map[string]bool, len(requiredColumns)+len(optionalColumns))
	for _, c := range requiredColumns {
		known[c] = true
	}
	for _, c := range optionalColumns {
		known[c] = true
	}

	cols := make(map[string]int, len(header))
	var unknown []string
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if !known[name] {
			unknown = append(unknown, name)
			continue
		}
		cols[name] = i
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 || len(unknown) > 0 {
		return nil, &HeaderError{Missing: missing, Unknown: unknown}
	}

	// Rows may legitimately omit trailing optional fields.
	cr.FieldsPerRecord = -1

	return &Parser{r: cr, cols: cols, line: 1}, nil
}

// Next returns the next validated row. It returns io.EOF at end of input and
// a *RowError for a row that fails validation; the parser stays usable after
// a row error so one bad row never aborts the file.
func (p *Parser) Next() (*Row, error) {
	record, err := p.r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			p.line++
			return nil, &RowError{Line: p.line, Message: "malformed CSV row: " + parseErr.Err.Error()}
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	p.line++

	row := &Row{
		Line:          p.line,
		ParkName:      p.field(record, colParkName),
		BuildingLabel: p.field(record, colBuildingName),
		Observer:      p.field(record, colObserver),
		NoteText:      p.field(record, colNoteText),
		MediaFile:     p.field(record, colMediaFile),
	}

	for _, check := range []struct {
		col   string
		value string
	}{
		{colParkName, row.ParkName},
		{colBuildingName, row.BuildingLabel},
		{colNoteText, row.NoteText},
		{colObserver, row.Observer},
	} {
		if check.value == "" {
			return nil, &RowError{Line: p.line, Message: "missing required field " + check.col}
		}
	}

	if raw := p.field(record, colObservedAt); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &RowError{Line: p.line, Message: fmt.Sprintf("malformed observed_at %q (want RFC-3339)", raw)}
		}
		row.ObservedAt = ts.UTC()
	}

	return row, nil
}

func (p *Parser) field(record []string, col string) string {
	i, ok := p.cols[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
