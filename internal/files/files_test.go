package files

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func uploadHeader(t *testing.T, filename string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("content"))
	writer.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("failed to parse multipart form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestSaveProof(t *testing.T) {
	storage, err := New(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	t.Run("stores allowed extensions under generated names", func(t *testing.T) {
		for _, filename := range []string{"a.png", "b.JPG", "c.jpeg", "d.pdf"} {
			name, err := storage.SaveProof(uploadHeader(t, filename))
			if err != nil {
				t.Fatalf("SaveProof(%s) failed: %v", filename, err)
			}

			path, err := storage.Path(name)
			if err != nil {
				t.Fatalf("Path(%s) failed: %v", name, err)
			}
			if _, err := os.Stat(path); err != nil {
				t.Errorf("stored file %s missing: %v", name, err)
			}
		}
	})

	t.Run("rejects disallowed extensions", func(t *testing.T) {
		for _, filename := range []string{"evil.exe", "script.sh", "noext"} {
			_, err := storage.SaveProof(uploadHeader(t, filename))
			if !errors.Is(err, ErrUnsupportedType) {
				t.Errorf("SaveProof(%s): expected ErrUnsupportedType, got %v", filename, err)
			}
		}
	})
}

func TestPathRejectsTraversal(t *testing.T) {
	storage, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, name := range []string{"../secret", "a/b.png", "/etc/passwd"} {
		if _, err := storage.Path(name); err == nil {
			t.Errorf("Path(%q): expected error", name)
		}
	}
}
