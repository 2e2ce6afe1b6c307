package object

import (
	"context"
	"io"
)

// ObjectStore defines the contract for saving and retrieving uploaded files.
type ObjectStore interface {
	Save(ctx context.Context, fileName string, r io.Reader) (storagePath string, sizeBytes int64, err error)
	Open(ctx context.Context, storagePath string) (io.ReadCloser, error)
	Remove(ctx context.Context, storagePath string) error
}
