package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/blob"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

type testStore struct {
	mu        sync.RWMutex
	files     map[string]entity.UploadedFile
	createErr error
}

func newTestStore() *testStore {
	return &testStore{files: make(map[string]entity.UploadedFile)}
}

func (s *testStore) CreateFile(ctx context.Context, file entity.UploadedFile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.files[file.ID] = file
	return nil
}

func (s *testStore) GetFile(ctx context.Context, id string) (entity.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	file, ok := s.files[id]
	if !ok {
		return entity.UploadedFile{}, pkgerror.ErrNotFound
	}
	return file, nil
}

func (s *testStore) ListFiles(ctx context.Context) ([]entity.UploadedFile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.UploadedFile, 0, len(s.files))
	for _, f := range s.files {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *testStore) DeleteFile(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return pkgerror.ErrNotFound
	}
	delete(s.files, id)
	return nil
}

type testBlobs struct {
	mu        sync.Mutex
	data      map[string][]byte
	gets      int32
	deleteErr error

	// When gate is set, Get signals started and blocks until gate is closed
	// or ctx is done.
	gate    chan struct{}
	started chan struct{}
}

func newTestBlobs() *testBlobs {
	return &testBlobs{data: make(map[string][]byte)}
}

func (b *testBlobs) Put(ctx context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *testBlobs) Get(ctx context.Context, key string) ([]byte, error) {
	atomic.AddInt32(&b.gets, 1)
	if b.gate != nil {
		b.started <- struct{}{}
		select {
		case <-b.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[key]
	if !ok {
		return nil, blob.ErrNotFound
	}
	return data, nil
}

func (b *testBlobs) Delete(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.deleteErr != nil {
		return b.deleteErr
	}
	delete(b.data, key)
	return nil
}

func (b *testBlobs) List(ctx context.Context) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	keys := make([]string, 0, len(b.data))
	for k := range b.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (b *testBlobs) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.data[key]
	return ok
}

type testEvents struct {
	mu     sync.Mutex
	events []entity.OrphanBlobEvent
	err    error
}

func (e *testEvents) Publish(ctx context.Context, event entity.OrphanBlobEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, event)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

type seqID struct {
	n int64
}

func (s *seqID) Generate() string {
	return fmt.Sprintf("id-%d", atomic.AddInt64(&s.n, 1))
}

var errBoom = errors.New("boom")
