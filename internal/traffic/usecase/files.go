package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hyakkun/data-dashboard/internal/traffic/blob"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
	"golang.org/x/sync/singleflight"
)

// Upload validates the CSV, writes its bytes to the blob store and records
// its metadata. The blob is written first; when the metadata insert fails
// the blob is removed again, and handed to the janitor if that fails too.
func (u *Usecase) Upload(ctx context.Context, in UploadInput) (UploadResult, error) {
	if err := u.ready(); err != nil {
		return UploadResult{}, err
	}

	_, info, err := table.Parse(in.Filename, in.Data, u.opts.Limits)
	if err != nil {
		slog.WarnContext(ctx, "upload rejected", "filename", in.Filename, "size", len(in.Data), "error", err)
		return UploadResult{}, mapParseErr(err, u.opts.Limits.MaxSize)
	}

	id := u.id.Generate()
	u.inflight.Store(id, struct{}{})
	defer u.inflight.Delete(id)

	if err := u.blobs.Put(ctx, id, in.Data); err != nil {
		return UploadResult{}, normalizeErr(err)
	}

	rows := info.Rows
	file := entity.UploadedFile{
		ID:         id,
		Filename:   in.Filename,
		UploadedAt: u.clock.Now().UTC(),
		Filesize:   info.Size,
		RowCount:   &rows,
		Columns:    info.Columns,
	}

	if err := u.store.CreateFile(ctx, file); err != nil {
		slog.ErrorContext(ctx, "failed to save file metadata", "file_id", id, "error", err)
		if delErr := u.blobs.Delete(ctx, id); delErr != nil {
			u.publishOrphan(ctx, id, entity.OrphanReasonMetadataFailed, delErr)
		}
		return UploadResult{}, normalizeErr(err)
	}

	slog.InfoContext(ctx, "file uploaded", "file_id", id, "filename", in.Filename, "size", info.Size, "rows", info.Rows)

	return UploadResult{File: file, Rows: info.Rows, Columns: info.Columns}, nil
}

func (u *Usecase) List(ctx context.Context) ([]entity.UploadedFile, error) {
	if err := u.ready(); err != nil {
		return nil, err
	}

	files, err := u.store.ListFiles(ctx)
	if err != nil {
		return nil, normalizeErr(err)
	}

	return files, nil
}

func (u *Usecase) Get(ctx context.Context, id string) (entity.UploadedFile, error) {
	if err := u.ready(); err != nil {
		return entity.UploadedFile{}, err
	}

	file, err := u.store.GetFile(ctx, id)
	if err != nil {
		return entity.UploadedFile{}, mapStoreErr(err)
	}

	return file, nil
}

// Download returns the stored bytes unchanged together with the original filename.
func (u *Usecase) Download(ctx context.Context, id string) (DownloadResult, error) {
	file, err := u.Get(ctx, id)
	if err != nil {
		return DownloadResult{}, err
	}

	data, err := u.readBlob(ctx, id)
	if err != nil {
		return DownloadResult{}, err
	}

	return DownloadResult{Filename: file.Filename, Data: data}, nil
}

// Delete removes the blob, then the metadata record. A failed blob removal
// does not fail the request; the blob is queued for the janitor instead.
func (u *Usecase) Delete(ctx context.Context, id string) error {
	if _, err := u.Get(ctx, id); err != nil {
		return err
	}

	if err := u.blobs.Delete(ctx, id); err != nil {
		u.publishOrphan(ctx, id, entity.OrphanReasonDeleteFailed, err)
	}

	if err := u.store.DeleteFile(ctx, id); err != nil {
		return mapStoreErr(err)
	}

	slog.InfoContext(ctx, "file deleted", "file_id", id)
	return nil
}

// readBlob collapses concurrent reads of the same key into one backend call.
// The shared call outlives any single caller's cancellation; each caller
// stops waiting when its own context is done. Callers must not modify the
// returned slice.
func (u *Usecase) readBlob(ctx context.Context, id string) ([]byte, error) {
	shared := context.WithoutCancel(ctx)
	ch := u.reads.DoChan(id, func() (any, error) {
		return u.blobs.Get(shared, id)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	v, err := res.Val, res.Err
	if errors.Is(err, blob.ErrNotFound) {
		slog.WarnContext(ctx, "metadata without blob", "file_id", id)
		return nil, errFileNotFound()
	}
	if err != nil {
		return nil, normalizeErr(err)
	}

	return v.([]byte), nil
}
