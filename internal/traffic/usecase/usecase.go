package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/pkg/pkguid"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
	"golang.org/x/sync/singleflight"
)

type Store interface {
	CreateFile(ctx context.Context, file entity.UploadedFile) error
	GetFile(ctx context.Context, id string) (entity.UploadedFile, error)
	ListFiles(ctx context.Context) ([]entity.UploadedFile, error)
	DeleteFile(ctx context.Context, id string) error
}

type BlobStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) ([]string, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.OrphanBlobEvent) error
}

type Clock interface {
	Now() time.Time
}

// Options tune validation and summaries. Zero values fall back to the
// package defaults of table and summary.
type Options struct {
	Limits        table.Limits
	Zone          *time.Location
	ReportDropped bool
}

type Dependency struct {
	Store   Store
	Blobs   BlobStore
	Events  EventPublisher
	Clock   Clock
	ID      pkguid.StringID
	Options Options
}

type Usecase struct {
	store  Store
	blobs  BlobStore
	events EventPublisher
	clock  Clock
	id     pkguid.StringID
	opts   Options

	reads    singleflight.Group
	inflight sync.Map
}

func New(dep Dependency) *Usecase {
	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	opts := dep.Options
	if opts.Zone == nil {
		opts.Zone = summary.DefaultZone
	}
	if opts.Limits.MaxSize <= 0 {
		opts.Limits.MaxSize = table.DefaultMaxSize
	}

	return &Usecase{
		store:  dep.Store,
		blobs:  dep.Blobs,
		events: dep.Events,
		clock:  clock,
		id:     dep.ID,
		opts:   opts,
	}
}

// MaxUploadSize is the largest accepted upload in bytes.
func (u *Usecase) MaxUploadSize() int64 {
	return u.opts.Limits.MaxSize
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

func (u *Usecase) ready() error {
	if u.store == nil || u.blobs == nil || u.id == nil {
		return pkgerror.NewServer(errors.New("missing dependency"))
	}
	return nil
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return errFileNotFound()
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}
