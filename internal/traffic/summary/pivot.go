package summary

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
	"github.com/hyakkun/data-dashboard/internal/traffic/table"
)

// BucketKey names the bucket label next to the category counts of a row, so
// no category value may take it.
const BucketKey = "time_bucket"

var ErrReservedCategory = errors.New("category value is reserved")

// PivotRow holds the counts of one bucket, aligned with Pivot.Categories.
type PivotRow struct {
	Bucket string
	Counts []int64
}

// Pivot is a dense bucket x category grid of row counts.
type Pivot struct {
	Categories []string
	Rows       []PivotRow
}

// Count returns the cell for (bucket, category).
func (p Pivot) Count(bucket, category string) (int64, bool) {
	col := slices.Index(p.Categories, category)
	if col < 0 {
		return 0, false
	}

	for _, row := range p.Rows {
		if row.Bucket == bucket {
			return row.Counts[col], true
		}
	}

	return 0, false
}

type cell struct {
	bucket   string
	category string
}

// Aggregate counts records per (bucket, category) and pivots the counts into
// a dense grid. Missing category values are counted as entity.UnknownCategory.
// Buckets and categories are sorted ascending; absent combinations are zero.
func Aggregate(n Normalized, category string, unit entity.TimeUnit) (Pivot, error) {
	label, err := bucketer(unit)
	if err != nil {
		return Pivot{}, err
	}

	col, ok := n.ColumnIndex(category)
	if !ok {
		return Pivot{}, fmt.Errorf("%w: %s", ErrMissingColumn, category)
	}

	counts := make(map[cell]int64)
	buckets := make(map[string]struct{})
	categories := make(map[string]struct{})

	for _, rec := range n.Records {
		value := rec.Values[col]
		if table.IsMissing(value) {
			value = entity.UnknownCategory
		}

		c := cell{bucket: label(rec.Time), category: value}
		counts[c]++
		buckets[c.bucket] = struct{}{}
		categories[c.category] = struct{}{}
	}

	if _, ok := categories[BucketKey]; ok {
		return Pivot{}, fmt.Errorf("%w: %s", ErrReservedCategory, BucketKey)
	}

	out := Pivot{
		Categories: slices.Sorted(maps.Keys(categories)),
		Rows:       make([]PivotRow, 0, len(buckets)),
	}

	for _, b := range slices.Sorted(maps.Keys(buckets)) {
		row := PivotRow{Bucket: b, Counts: make([]int64, len(out.Categories))}
		for i, c := range out.Categories {
			row.Counts[i] = counts[cell{bucket: b, category: c}]
		}
		out.Rows = append(out.Rows, row)
	}

	return out, nil
}
