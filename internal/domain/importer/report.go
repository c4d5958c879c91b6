package importer

import (
	"fmt"
	"time"
)

// RowIssue is one skipped row and why.
type RowIssue struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// MediaIssue is one row whose observation was created but whose media could
// not be attached.
type MediaIssue struct {
	Line     int    `json:"line"`
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// ParkRef points the caller at a park the run touched, with a URL usable to
// navigate to its review view.
type ParkRef struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ReviewURL string `json:"review_url"`
}

// Report is the transient aggregate returned for every non-fatal run.
type Report struct {
	Rows             int          `json:"rows"`
	Created          int          `json:"created"`
	Skipped          int          `json:"skipped"`
	ParksCreated     int          `json:"parks_created"`
	BuildingsCreated int          `json:"buildings_created"`
	RowErrors        []RowIssue   `json:"row_errors"`
	MediaMissing     []MediaIssue `json:"media_missing"`
	Parks            []ParkRef    `json:"parks"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
}

func newReport(startedAt time.Time) *Report {
	return &Report{
		RowErrors:    []RowIssue{},
		MediaMissing: []MediaIssue{},
		Parks:        []ParkRef{},
		StartedAt:    startedAt,
	}
}

func (r *Report) addRowError(line int, message string) {
	r.Skipped++
	r.RowErrors = append(r.RowErrors, RowIssue{Line: line, Message: message})
}

func (r *Report) addMediaMissing(line int, filename, reason string) {
	r.MediaMissing = append(r.MediaMissing, MediaIssue{Line: line, Filename: filename, Reason: reason})
}

// touchPark records an affected park once, in first-touched order.
func (r *Report) touchPark(id int64, name string) {
	for _, p := range r.Parks {
		if p.ID == id {
			return
		}
	}
	r.Parks = append(r.Parks, ParkRef{
		ID:        id,
		Name:      name,
		ReviewURL: fmt.Sprintf("/api/v1/parks/%d/summary", id),
	})
}
