package usecase

import (
	"context"
	"log/slog"

	"github.com/hyakkun/data-dashboard/internal/pkg/pkgerror"
	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/summary"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
)

// DailySummary counts rows per calendar date in the configured zone.
func (u *Usecase) DailySummary(ctx context.Context, id string) (DailySummaryResult, error) {
	n, err := u.normalized(ctx, id)
	if err != nil {
		return DailySummaryResult{}, err
	}

	return DailySummaryResult{
		Summary: summary.Daily(n),
		Dropped: u.dropped(n),
	}, nil
}

// Summary pivots row counts into time buckets by category.
func (u *Usecase) Summary(ctx context.Context, id string, in SummaryInput) (SummaryResult, error) {
	if _, err := entity.ParseGroupBy(string(in.GroupBy)); err != nil {
		return SummaryResult{}, pkgerror.NewInvalidInput(err)
	}
	if _, err := entity.ParseTimeUnit(string(in.TimeUnit)); err != nil {
		return SummaryResult{}, pkgerror.NewInvalidInput(err)
	}

	n, err := u.normalized(ctx, id)
	if err != nil {
		return SummaryResult{}, err
	}

	pivot, err := summary.Aggregate(n, string(in.GroupBy), in.TimeUnit)
	if err != nil {
		return SummaryResult{}, mapSummaryErr(err, string(in.GroupBy))
	}

	return SummaryResult{
		GroupBy:  in.GroupBy,
		TimeUnit: in.TimeUnit,
		Pivot:    pivot,
		Dropped:  u.dropped(n),
	}, nil
}

func (u *Usecase) normalized(ctx context.Context, id string) (summary.Normalized, error) {
	if _, err := u.Get(ctx, id); err != nil {
		return summary.Normalized{}, err
	}

	data, err := u.readBlob(ctx, id)
	if err != nil {
		return summary.Normalized{}, err
	}

	t, err := table.Read(data)
	if err != nil {
		return summary.Normalized{}, normalizeErr(err)
	}

	n, err := summary.Normalize(t, entity.TimestampColumn, u.opts.Zone)
	if err != nil {
		return summary.Normalized{}, mapSummaryErr(err, entity.TimestampColumn)
	}

	if n.Dropped > 0 {
		slog.WarnContext(ctx, "rows with unparsable timestamp dropped", "file_id", id, "dropped", n.Dropped)
	}

	return n, nil
}

func (u *Usecase) dropped(n summary.Normalized) *int {
	if !u.opts.ReportDropped {
		return nil
	}
	d := n.Dropped
	return &d
}
