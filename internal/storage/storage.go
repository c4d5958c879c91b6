package storage

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Store is the file-storage collaborator: durable byte storage addressed by
// a slash-separated relative path.
type Store interface {
	// Write stores the full contents of r under path. The write is
	// all-or-nothing: on error no file is left behind at path.
	Write(path string, r io.Reader) error
	Exists(path string) bool
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// UploadPath builds a unique storage path for a file attached to an
// observation, e.g. "obs_12/9f3a...__site-photo.jpg". The uuid prefix keeps
// duplicate filenames within one manifest from colliding.
func UploadPath(observationID int64, originalName string) string {
	unique := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("obs_%d/%s__%s", observationID, unique, SanitizeName(originalName))
}

// SanitizeName strips path components and anything filesystem-hostile from a
// client-supplied filename.
func SanitizeName(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') ||
			r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
	name = strings.Trim(name, "._")
	if len(name) > 80 {
		name = name[len(name)-80:]
	}
	if name == "" {
		return "upload"
	}
	return name
}
