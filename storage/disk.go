package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DiskStore writes assets under a single base directory. References are
// forward-slash relative paths like "uploads/66f1...e2.png" so they can be
// served statically and stored on the post document as-is.
type DiskStore struct {
	baseDir string
}

func NewDiskStore(baseDir string) (*DiskStore, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{baseDir: baseDir}, nil
}

func (d *DiskStore) Store(ctx context.Context, upload Upload) (string, error) {
	if upload.Reader == nil {
		return "", fmt.Errorf("empty upload")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := primitive.NewObjectID().Hex() + sanitizeExt(upload.Name)

	f, err := os.Create(filepath.Join(d.baseDir, name))
	if err != nil {
		return "", fmt.Errorf("create asset file: %w", err)
	}

	if _, err := io.Copy(f, upload.Reader); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close asset: %w", err)
	}

	return path.Join(filepath.Base(d.baseDir), name), nil
}

// Remove deletes the file a reference points to. Only the final path element
// is honored, so a reference can never reach outside the base directory.
func (d *DiskStore) Remove(ref string) error {
	if ref == "" {
		return nil
	}
	name := path.Base(path.Clean(ref))
	if name == "." || name == "/" {
		return fmt.Errorf("invalid asset ref %q", ref)
	}
	if err := os.Remove(filepath.Join(d.baseDir, name)); err != nil {
		return fmt.Errorf("remove asset %s: %w", ref, err)
	}
	return nil
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(path.Ext(path.Base(name)))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return ext
	default:
		return ""
	}
}
