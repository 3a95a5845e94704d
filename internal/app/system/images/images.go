// internal/app/system/images/images.go

// Package images wraps the file-storage backend for employee photos. Uploads
// return publicly resolvable URLs; deletion is a genuine privileged call
// against the backend, so it fails truthfully instead of reporting
// optimistic success.
package images

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Backing is the slice of the storage API we use. Satisfied by
// waffle/pantry/storage implementations (Local, S3).
type Backing interface {
	Put(ctx context.Context, path string, r io.Reader, opts *storage.PutOptions) error
	Delete(ctx context.Context, path string) error
	URL(path string) string
}

// Store uploads and deletes dashboard images.
type Store struct {
	backing Backing
	baseURL string // public URL prefix; URLs outside it cannot be deleted
	log     *zap.Logger
}

// New builds an image Store. baseURL must match the prefix of URLs the
// backing store generates (e.g. "/files/images" or a CDN distribution URL).
func New(backing Backing, baseURL string, logger *zap.Logger) *Store {
	return &Store{
		backing: backing,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		log:     logger,
	}
}

// Upload stores the file under a unique per-month path inside folder and
// returns its public URL. The folder is a destination hint, e.g.
// "employee_photos" or "aadhar_photos".
func (s *Store) Upload(ctx context.Context, folder, filename string, r io.Reader, contentType string) (string, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", folder, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], sanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{ContentType: contentType}
	if err := s.backing.Put(ctx, path, r, opts); err != nil {
		return "", opserr.Write("upload image", err)
	}

	return s.backing.URL(path), nil
}

// Delete removes the image behind url from the backing store. URLs that do
// not live under our base URL (legacy third-party hosting, hand-entered
// links) cannot be deleted here and return ErrImageDeleteUnavailable.
func (s *Store) Delete(ctx context.Context, url string) error {
	path, ok := s.pathFromURL(url)
	if !ok {
		return fmt.Errorf("%w: %s", opserr.ErrImageDeleteUnavailable, url)
	}
	if err := s.backing.Delete(ctx, path); err != nil {
		return opserr.Write("delete image", err)
	}
	s.log.Info("image deleted", zap.String("path", path))
	return nil
}

// pathFromURL derives the storage path from a public URL.
func (s *Store) pathFromURL(url string) (string, bool) {
	if s.baseURL == "" {
		return "", false
	}
	if !strings.HasPrefix(url, s.baseURL+"/") {
		return "", false
	}
	path := strings.TrimPrefix(url, s.baseURL+"/")
	if path == "" {
		return "", false
	}
	return path, true
}

// sanitizeFilename removes characters that could be problematic in storage
// paths, preserving the extension.
func sanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	if filename == "." || filename == string(filepath.Separator) {
		return "file"
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
