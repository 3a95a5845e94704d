// internal/app/system/images/localdisk.go
package images

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dalemusser/waffle/pantry/storage"
)

// LocalDisk is a filesystem Backing for single-host deployments. Files land
// under root; public URLs are baseURL + "/" + path, served by the file
// server mounted in the router.
type LocalDisk struct {
	root    string
	baseURL string
}

func NewLocalDisk(root, baseURL string) *LocalDisk {
	return &LocalDisk{root: root, baseURL: strings.TrimSuffix(baseURL, "/")}
}

func (l *LocalDisk) Put(_ context.Context, path string, r io.Reader, _ *storage.PutOptions) error {
	full := filepath.Join(l.root, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.Create(full)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *LocalDisk) Delete(_ context.Context, path string) error {
	return os.Remove(filepath.Join(l.root, filepath.FromSlash(path)))
}

func (l *LocalDisk) URL(path string) string {
	return l.baseURL + "/" + strings.TrimPrefix(path, "/")
}
