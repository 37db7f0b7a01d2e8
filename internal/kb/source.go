package kb

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/studyhall-ai/studyhall/internal/storage"
)

// Source fetches the raw JSON bytes of one knowledge-base collection.
// ok is false when the collection does not exist at the source; the loader
// treats a missing collection as empty rather than failing startup.
type Source interface {
	Fetch(ctx context.Context, key string) (data []byte, ok bool, err error)
}

// FileSource reads collections from a local directory.
type FileSource struct {
	Dir string
}

// Fetch implements Source.
func (f *FileSource) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(f.Dir, key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// S3Source reads collections from S3-compatible object storage.
type S3Source struct {
	Client *storage.S3Client
}

// Fetch implements Source.
func (s *S3Source) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.Client.GetObject(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}
