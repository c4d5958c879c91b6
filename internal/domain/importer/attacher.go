package importer

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"powertown/internal/domain/survey"
	"powertown/internal/storage"
)

// AttachStatus classifies the outcome of one media attach attempt.
type AttachStatus string

const (
	// StatusNone: the row referenced no media file.
	StatusNone AttachStatus = "none"
	// StatusAttached: file stored and MediaAsset row created.
	StatusAttached AttachStatus = "attached"
	// StatusMissing: the observation stands, but no media was attached.
	StatusMissing AttachStatus = "missing"
)

// Reasons carried on StatusMissing. A storage failure is kept distinct from
// a file that simply was not in the bundle.
const (
	ReasonFileAbsent  = "file_absent"
	ReasonWriteFailed = "write_failed"
)

type AttachResult struct {
	Status AttachStatus
	Reason string
	Asset  *survey.MediaAsset
}

// Attacher copies referenced files out of a media source into durable
// storage and links them to observations. It never fails a row: any problem
// degrades to StatusMissing so the observation text is kept.
type Attacher struct {
	media survey.MediaRepository
	store storage.Store
	now   func() time.Time
}

func NewAttacher(media survey.MediaRepository, store storage.Store, now func() time.Time) *Attacher {
	return &Attacher{media: media, store: store, now: now}
}

func (a *Attacher) Attach(ctx context.Context, obs *survey.Observation, filename string, src MediaSource) AttachResult {
	if filename == "" {
		return AttachResult{Status: StatusNone}
	}

	if !src.Contains(filename) {
		return AttachResult{Status: StatusMissing, Reason: ReasonFileAbsent}
	}

	f, err := src.Open(filename)
	if err != nil {
		log.Printf("import media open failed file=%q err=%v", filename, err)
		return AttachResult{Status: StatusMissing, Reason: ReasonFileAbsent}
	}
	defer f.Close()

	path := storage.UploadPath(obs.ID, filename)
	if err := a.store.Write(path, f); err != nil {
		log.Printf("import media write failed file=%q err=%v", filename, err)
		return AttachResult{Status: StatusMissing, Reason: ReasonWriteFailed}
	}

	asset := &survey.MediaAsset{
		ObservationID: obs.ID,
		MediaType:     guessMediaType(filename),
		FilePath:      path,
		OriginalName:  filepath.Base(filename),
		CreatedAt:     a.now(),
	}
	// File first, record second: a failed insert removes the file again so
	// no MediaAsset row ever references missing bytes.
	if err := a.media.Create(ctx, asset); err != nil {
		log.Printf("import media record failed file=%q err=%v", filename, err)
		_ = a.store.Remove(path)
		return AttachResult{Status: StatusMissing, Reason: ReasonWriteFailed}
	}

	return AttachResult{Status: StatusAttached, Asset: asset}
}

func guessMediaType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".heic":
		return survey.MediaTypePhoto
	case ".mp3", ".wav", ".m4a", ".ogg", ".aac":
		return survey.MediaTypeAudio
	default:
		return survey.MediaTypeOther
	}
}
