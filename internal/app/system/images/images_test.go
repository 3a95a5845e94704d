package images

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/udyoghq/udyog/internal/app/system/opserr"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.uber.org/zap"
)

// fakeBacking records puts and deletes in memory.
type fakeBacking struct {
	baseURL string
	puts    map[string]string // path -> content type
	deleted []string
	putErr  error
	delErr  error
}

func newFakeBacking(baseURL string) *fakeBacking {
	return &fakeBacking{baseURL: baseURL, puts: make(map[string]string)}
}

func (f *fakeBacking) Put(_ context.Context, path string, _ io.Reader, opts *storage.PutOptions) error {
	if f.putErr != nil {
		return f.putErr
	}
	ct := ""
	if opts != nil {
		ct = opts.ContentType
	}
	f.puts[path] = ct
	return nil
}

func (f *fakeBacking) Delete(_ context.Context, path string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeBacking) URL(path string) string {
	return f.baseURL + "/" + path
}

func TestUpload_ReturnsPublicURL(t *testing.T) {
	backing := newFakeBacking("/files/images")
	store := New(backing, "/files/images", zap.NewNop())

	url, err := store.Upload(context.Background(), "employee_photos", "photo.jpg",
		strings.NewReader("fake-bytes"), "image/jpeg")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if !strings.HasPrefix(url, "/files/images/employee_photos/") {
		t.Errorf("unexpected URL prefix: %q", url)
	}
	if !strings.HasSuffix(url, "-photo.jpg") {
		t.Errorf("expected sanitized filename suffix, got %q", url)
	}
	if len(backing.puts) != 1 {
		t.Fatalf("expected 1 stored object, got %d", len(backing.puts))
	}
	for _, ct := range backing.puts {
		if ct != "image/jpeg" {
			t.Errorf("content type: got %q, want image/jpeg", ct)
		}
	}
}

func TestUpload_StoreFailure(t *testing.T) {
	backing := newFakeBacking("/files/images")
	backing.putErr = errors.New("disk full")
	store := New(backing, "/files/images", zap.NewNop())

	_, err := store.Upload(context.Background(), "employee_photos", "photo.jpg",
		strings.NewReader("x"), "image/jpeg")
	if !errors.Is(err, opserr.ErrStoreWrite) {
		t.Errorf("expected ErrStoreWrite, got %v", err)
	}
}

func TestDelete_RoundTrip(t *testing.T) {
	backing := newFakeBacking("/files/images")
	store := New(backing, "/files/images", zap.NewNop())

	url, err := store.Upload(context.Background(), "aadhar_photos", "card.png",
		strings.NewReader("x"), "image/png")
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if err := store.Delete(context.Background(), url); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(backing.deleted) != 1 {
		t.Fatalf("expected 1 deletion, got %d", len(backing.deleted))
	}
	if !strings.HasPrefix(backing.deleted[0], "aadhar_photos/") {
		t.Errorf("unexpected deleted path: %q", backing.deleted[0])
	}
}

func TestDelete_ForeignURL_Unavailable(t *testing.T) {
	backing := newFakeBacking("/files/images")
	store := New(backing, "/files/images", zap.NewNop())

	err := store.Delete(context.Background(), "https://cdn.example.com/other/pic.jpg")
	if !errors.Is(err, opserr.ErrImageDeleteUnavailable) {
		t.Errorf("expected ErrImageDeleteUnavailable, got %v", err)
	}
	if len(backing.deleted) != 0 {
		t.Errorf("no deletion should reach the backing store, got %v", backing.deleted)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"photo.jpg", "photo.jpg"},
		{"my photo.jpg", "my_photo.jpg"},
		{"../../etc/passwd", "passwd"},
		{"", "file"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeFilename(tt.input); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
