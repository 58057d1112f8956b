// Package memory is an in-process object.Store used in development and tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"sync"

	"github.com/google/uuid"

	"portfolio-backend/internal/shared/storage/object"
	"portfolio-backend/internal/shared/util"
)

type Store struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func New() *Store {
	return &Store{objects: make(map[string][]byte)}
}

func (s *Store) Save(ctx context.Context, owner string, fileName string, r io.Reader) (object.Object, error) {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		return object.Object{}, fmt.Errorf("sanitize file name: %w", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return object.Object{}, err
	}
	key := path.Join("uploads", util.HashOwnerKey(owner), uuid.NewString()+"_"+name)
	mimeType := http.DetectContentType(data)
	if _, err := s.Put(ctx, key, mimeType, bytes.NewReader(data)); err != nil {
		return object.Object{}, err
	}
	return object.Object{Key: key, Size: int64(len(data)), MimeType: mimeType}, nil
}

func (s *Store) Put(ctx context.Context, key string, contentType string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	s.objects[key] = data
	s.mu.Unlock()
	return int64(len(data)), nil
}

func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	data, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

var _ object.Store = (*Store)(nil)
