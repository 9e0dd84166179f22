// Package storage is the blob store for step attachments: files land on
// local disk under the configured upload directory and are addressed by the
// URL recorded in the project document.
package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/raghupathi321/Janagraha-sub000/app/model"
)

const MaxFileSize = 100 * 1024 * 1024

var (
	ErrFileTooLarge   = errors.New("file exceeds the maximum size of 100MB")
	ErrTypeNotAllowed = errors.New("file type not allowed for this field")
)

// allowedMimeTypes maps an attachment slot to the mime types it accepts.
var allowedMimeTypes = map[string]map[string]bool{
	"photos": {
		"image/png":  true,
		"image/jpeg": true,
		"image/gif":  true,
	},
	"videos": {
		"video/mp4":       true,
		"video/quicktime": true,
		"video/webm":      true,
	},
	"reports": {
		"application/pdf":    true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	},
	"audio": {
		"audio/mpeg": true,
		"audio/wav":  true,
		"audio/ogg":  true,
	},
}

// AllowedField reports whether field names a known attachment slot.
func AllowedField(field string) bool {
	_, ok := allowedMimeTypes[field]
	return ok
}

// Save validates the upload against the slot's mime allowlist and the size
// cap, writes it to disk, and returns the FileRef to merge into the step.
// A failed save fails the whole request; no project mutation happens first.
func Save(file *multipart.FileHeader, field, uploadDir string) (*model.FileRef, error) {
	if file.Size > MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, file.Filename)
	}

	mimeType := file.Header.Get("Content-Type")
	allowed, ok := allowedMimeTypes[field]
	if !ok {
		return nil, fmt.Errorf("%w: unknown field %q", ErrTypeNotAllowed, field)
	}
	if !allowed[mimeType] {
		return nil, fmt.Errorf("%w: %s for %s", ErrTypeNotAllowed, mimeType, field)
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, err
	}

	storedName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(file.Filename))
	dstPath := filepath.Join(uploadDir, storedName)

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return nil, err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		os.Remove(dstPath)
		return nil, err
	}

	return &model.FileRef{
		Name: file.Filename,
		URL:  "/uploads/" + storedName,
		Size: file.Size,
		Type: mimeType,
	}, nil
}

// Delete removes the blob behind a FileRef URL. Best-effort: a file that is
// already gone is logged, never surfaced to the caller.
func Delete(url, uploadDir string) {
	name := strings.TrimPrefix(url, "/uploads/")
	if name == "" || strings.Contains(name, "..") || strings.Contains(name, "/") {
		return
	}
	if err := os.Remove(filepath.Join(uploadDir, name)); err != nil {
		log.Printf("blob delete failed for %s: %v", url, err)
	}
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
