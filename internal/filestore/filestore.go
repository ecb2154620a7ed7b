package filestore

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Store keeps generated report artifacts on local disk so a report can
// be re-downloaded after the run that produced it. IDs are random hex;
// artifacts are always .xlsx.
type Store struct {
	basePath string
}

// New creates a store rooted at basePath, creating the directory if needed.
func New(basePath string) (*Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("create filestore directory: %w", err)
	}
	return &Store{basePath: basePath}, nil
}

// Save stores an artifact and returns its ID.
func (s *Store) Save(r io.Reader) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("generate report id: %w", err)
	}

	fullPath := s.path(id)
	f, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(fullPath) // Clean up on error
		return "", fmt.Errorf("write file: %w", err)
	}
	return id, nil
}

// Get returns a reader for the artifact with the given ID.
func (s *Store) Get(id string) (*os.File, error) {
	if !validID(id) {
		return nil, fmt.Errorf("invalid report id: %q", id)
	}
	f, err := os.Open(s.path(id))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return f, nil
}

// Delete removes the artifact with the given ID, if it exists.
func (s *Store) Delete(id string) error {
	if id == "" {
		return nil
	}
	if !validID(id) {
		return fmt.Errorf("invalid report id: %q", id)
	}
	if err := os.Remove(s.path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.basePath, id+".xlsx")
}

// validID rejects anything that is not a 16-char lowercase hex string,
// which also keeps path traversal out of Get/Delete.
func validID(id string) bool {
	if len(id) != 16 {
		return false
	}
	return strings.IndexFunc(id, func(r rune) bool {
		return !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f')
	}) == -1
}

// generateID creates a random 16-character hex string
func generateID() (string, error) {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
