package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFileStore keeps uploaded blobs on disk under Dir and hands back the
// public path they are served from. It implements services.FileStore.
type LocalFileStore struct {
	Dir string
}

func NewLocalFileStore() *LocalFileStore {
	dir := os.Getenv("UPLOADS_DIR")
	if dir == "" {
		dir = "uploads"
	}
	return &LocalFileStore{Dir: dir}
}

func (fs *LocalFileStore) ensureDir() error {
	return os.MkdirAll(fs.Dir, 0o755)
}

// Store writes the blob under a unique name and returns its public path.
func (fs *LocalFileStore) Store(filename string, content io.Reader) (string, error) {
	if err := fs.ensureDir(); err != nil {
		return "", err
	}

	name := uuid.NewString() + "_" + sanitizeFilename(filename)
	dst, err := os.Create(filepath.Join(fs.Dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return "/uploads/" + name, nil
}

// Delete accepts either the public path or the bare filename.
func (fs *LocalFileStore) Delete(pathOrName string) error {
	name := filepath.Base(pathOrName)
	if name == "." || name == "/" || name == "" {
		return fmt.Errorf("invalid file reference %q", pathOrName)
	}
	return os.Remove(filepath.Join(fs.Dir, name))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	if name == "." || name == "" {
		return "upload"
	}
	return name
}
