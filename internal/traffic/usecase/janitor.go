package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

// HandleOrphan deletes the blob named by the event. Sweep events are
// re-checked first: a blob whose upload is still running or that has
// gained a metadata record is left alone.
func (u *Usecase) HandleOrphan(ctx context.Context, event entity.OrphanBlobEvent) error {
	if event.FileID == "" {
		return errors.New("orphan event without file id")
	}

	if event.Reason == entity.OrphanReasonSweep {
		orphan, err := u.isOrphan(ctx, event.FileID)
		if err != nil {
			return err
		}
		if !orphan {
			slog.InfoContext(ctx, "blob is no longer orphaned", "file_id", event.FileID)
			return nil
		}
	}

	return u.blobs.Delete(ctx, event.FileID)
}

// Sweep queues every blob that has no metadata record and returns how many
// were queued.
func (u *Usecase) Sweep(ctx context.Context) (int, error) {
	if err := u.ready(); err != nil {
		return 0, err
	}

	keys, err := u.blobs.List(ctx)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, key := range keys {
		orphan, err := u.isOrphan(ctx, key)
		if err != nil {
			return queued, err
		}
		if !orphan {
			continue
		}
		if u.publishOrphan(ctx, key, entity.OrphanReasonSweep, nil) {
			queued++
		}
	}

	slog.InfoContext(ctx, "orphan sweep finished", "blobs", len(keys), "queued", queued)
	return queued, nil
}

func (u *Usecase) isOrphan(ctx context.Context, id string) (bool, error) {
	if _, running := u.inflight.Load(id); running {
		return false, nil
	}

	_, err := u.store.GetFile(ctx, id)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	return false, nil
}

func (u *Usecase) publishOrphan(ctx context.Context, id string, reason entity.OrphanReason, cause error) bool {
	if u.events == nil {
		slog.ErrorContext(ctx, "orphan blob left behind", "file_id", id, "reason", reason, "error", cause)
		return false
	}

	event := entity.OrphanBlobEvent{EventID: u.id.Generate(), FileID: id, Reason: reason}
	if err := u.events.Publish(ctx, event); err != nil {
		slog.ErrorContext(ctx, "failed to publish orphan blob event", "file_id", id, "event_id", event.EventID, "reason", reason, "error", err)
		return false
	}

	slog.WarnContext(ctx, "orphan blob queued", "file_id", id, "event_id", event.EventID, "reason", reason, "error", cause)
	return true
}
