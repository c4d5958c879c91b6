package importer

import (
	"archive/zip"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MediaSource resolves media filenames referenced by manifest rows.
// Lookup is by exact name, case-sensitive.
type MediaSource interface {
	Contains(name string) bool
	Open(name string) (io.ReadCloser, error)
}

// NoSource is the CSV-only mode: every referenced file is missing.
type NoSource struct{}

func (NoSource) Contains(string) bool { return false }

func (NoSource) Open(string) (io.ReadCloser, error) { return nil, os.ErrNotExist }

// DirSource serves media files from a flat directory.
type DirSource struct {
	root string
}

func NewDirSource(root string) *DirSource {
	return &DirSource{root: root}
}

func (s *DirSource) Contains(name string) bool {
	_, err := os.Stat(filepath.Join(s.root, filepath.Base(name)))
	return err == nil
}

func (s *DirSource) Open(name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.Base(name)))
}

// ZipSource serves media files from the entries of an uploaded bundle.
type ZipSource struct {
	files map[string]*zip.File
}

func (s *ZipSource) Contains(name string) bool {
	_, ok := s.files[name]
	return ok
}

func (s *ZipSource) Open(name string) (io.ReadCloser, error) {
	f, ok := s.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return f.Open()
}

// OpenBundle splits an uploaded ZIP into its manifest (exactly one .csv
// entry required) and a MediaSource over the remaining entries. Directory
// entries are ignored; media entries keep their full archive names.
func OpenBundle(archive []byte) (manifest io.Reader, src *ZipSource, err error) {
	zr, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		return nil, nil, ErrBadArchive
	}

	var manifestEntry *zip.File
	files := make(map[string]*zip.File)

	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			if manifestEntry != nil {
				return nil, nil, ErrMultipleManifests
			}
			manifestEntry = f
			continue
		}
		files[f.Name] = f
	}

	if manifestEntry == nil {
		return nil, nil, ErrNoManifest
	}

	rc, err := manifestEntry.Open()
	if err != nil {
		return nil, nil, ErrBadArchive
	}
	defer rc.Close()

	// The manifest is small; buffer it so the zip reader can be reused for
	// media entries without interleaved reads.
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, nil, ErrBadArchive
	}

	return bytes.NewReader(data), &ZipSource{files: files}, nil
}
