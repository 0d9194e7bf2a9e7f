// Package storage holds uploaded image assets and hands back opaque
// references. Deletion is best-effort by contract: callers log and move on.
package storage

import (
	"context"
	"io"
)

// Upload is one incoming binary. Name is only used to derive the stored
// file's extension.
type Upload struct {
	Name   string
	Reader io.Reader
}

type AssetStore interface {
	Store(ctx context.Context, upload Upload) (string, error)
	Remove(ref string) error
}
