package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

type InMemoryStore struct {
	mu    sync.RWMutex
	files map[string]entity.UploadedFile
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		files: make(map[string]entity.UploadedFile),
	}
}

func (s *InMemoryStore) CreateFile(ctx context.Context, file entity.UploadedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.files[file.ID]; exists {
		return pkgerror.NewBusiness("file already exists", pkgerror.CodeConflict)
	}

	s.files[file.ID] = cloneFile(file)

	return nil
}

func (s *InMemoryStore) GetFile(ctx context.Context, id string) (entity.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, ok := s.files[id]
	if !ok {
		return entity.UploadedFile{}, pkgerror.ErrNotFound
	}

	return cloneFile(file), nil
}

func (s *InMemoryStore) ListFiles(ctx context.Context) ([]entity.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]entity.UploadedFile, 0, len(s.files))
	for _, file := range s.files {
		files = append(files, cloneFile(file))
	}

	slices.SortFunc(files, func(a, b entity.UploadedFile) int {
		if c := a.UploadedAt.Compare(b.UploadedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return files, nil
}

func (s *InMemoryStore) DeleteFile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return pkgerror.ErrNotFound
	}
	delete(s.files, id)

	return nil
}

// cloneFile keeps callers from mutating stored slices and pointers.
func cloneFile(file entity.UploadedFile) entity.UploadedFile {
	file.Columns = slices.Clone(file.Columns)
	if file.RowCount != nil {
		rows := *file.RowCount
		file.RowCount = &rows
	}
	return file
}
