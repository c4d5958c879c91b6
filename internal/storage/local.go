package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// LocalStore keeps files on the local filesystem under a base directory.
type LocalStore struct {
	base string
}

func NewLocalStore(base string) *LocalStore {
	return &LocalStore{base: base}
}

// Write stores the file under base/path. Bytes go to a temp file first and
// are renamed into place, so a failed copy never leaves a partial file at
// the final path.
func (s *LocalStore) Write(path string, r io.Reader) error {
	abs := s.abs(path)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(abs), ".partial-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to flush file: %w", err)
	}

	if err := os.Rename(tmp.Name(), abs); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to finalize file: %w", err)
	}
	return nil
}

func (s *LocalStore) Exists(path string) bool {
	_, err := os.Stat(s.abs(path))
	return err == nil
}

func (s *LocalStore) Open(path string) (io.ReadCloser, error) {
	return os.Open(s.abs(path))
}

func (s *LocalStore) Remove(path string) error {
	return os.Remove(s.abs(path))
}

func (s *LocalStore) abs(path string) string {
	return filepath.Join(s.base, filepath.FromSlash(path))
}
