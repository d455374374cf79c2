package files

import (
	"context"
	"fmt"

	"thumbnail-service/internal/storage"
)

// Service fetches the original bytes of an item's uploaded file. The
// primary file storage is owned elsewhere; this is a read-only view of
// it, used when hooks need the source image for derivation.
type Service interface {
	GetFileBuffer(ctx context.Context, path string) ([]byte, error)
}

// StorageService reads originals through a storage Provider under a
// fixed root, the namespace the host stores uploaded files in.
type StorageService struct {
	provider storage.Provider
	root     string
}

// NewStorageService returns a Service reading under root.
func NewStorageService(provider storage.Provider, root string) *StorageService {
	return &StorageService{provider: provider, root: root}
}

func (s *StorageService) GetFileBuffer(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("get file buffer: empty path")
	}
	data, err := s.provider.GetObject(ctx, s.root+path)
	if err != nil {
		return nil, fmt.Errorf("get file buffer %s: %w", path, err)
	}
	return data, nil
}
