// Package files stores uploaded proof evidence on local disk.
package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedType marks an upload with a disallowed file extension.
var ErrUnsupportedType = errors.New("file type not allowed: must be .jpg, .jpeg, .png or .pdf")

// allowedExtensions is the evidence allowlist: images plus PDF receipts.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// Storage writes proof uploads under a base directory with generated
// names. Files for approved proofs are part of the audit trail and are
// never removed.
type Storage struct {
	baseDir string
}

// New creates the upload directory if needed and returns a Storage.
func New(baseDir string) (*Storage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Storage{baseDir: baseDir}, nil
}

// SaveProof validates and stores an uploaded proof file, returning the
// stored filename (relative to the base directory).
func (s *Storage) SaveProof(header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%q: %w", header.Filename, ErrUnsupportedType)
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return name, nil
}

// Path resolves a stored filename to its absolute path, rejecting names
// that would escape the base directory.
func (s *Storage) Path(name string) (string, error) {
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	return filepath.Join(s.baseDir, name), nil
}
