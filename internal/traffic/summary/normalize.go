package summary

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hyakkun/data-dashboard/internal/traffic/table"
)

var ErrMissingColumn = errors.New("missing column")

// Instants are representable only while their nanosecond count fits in an
// int64, roughly 1677-09-21 to 2262-04-11.
const (
	minMicros = math.MinInt64 / int64(time.Microsecond)
	maxMicros = math.MaxInt64 / int64(time.Microsecond)
)

// DefaultZone is the zone every bucket label is rendered in: UTC+9 without
// daylight saving.
//
//nolint:gochecknoglobals // immutable zone value
var DefaultZone = time.FixedZone("UTC+9", 9*60*60)

// Record is a row whose timestamp has been parsed and moved to the target zone.
type Record struct {
	Time   time.Time
	Values []string
}

// Normalized is a table whose timestamp column has been parsed. Rows with an
// unparsable timestamp are not kept; Dropped counts them.
type Normalized struct {
	Columns []string
	Records []Record
	Dropped int
}

// ColumnIndex returns the position of the named column in Record.Values.
func (n Normalized) ColumnIndex(name string) (int, bool) {
	for i, c := range n.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Normalize parses column as integer microseconds since the Unix epoch and
// converts each instant to loc (DefaultZone when nil). Values outside the
// representable range count as unparsable. Surviving rows keep
// their original order.
func Normalize(t *table.Table, column string, loc *time.Location) (Normalized, error) {
	idx, ok := t.ColumnIndex(column)
	if !ok {
		return Normalized{}, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	if loc == nil {
		loc = DefaultZone
	}

	out := Normalized{
		Columns: append([]string(nil), t.Columns...),
		Records: make([]Record, 0, t.Len()),
	}

	for _, row := range t.Rows {
		micros, err := strconv.ParseInt(strings.TrimSpace(row[idx]), 10, 64)
		if err != nil || micros < minMicros || micros > maxMicros {
			out.Dropped++
			continue
		}

		out.Records = append(out.Records, Record{
			Time:   time.UnixMicro(micros).In(loc),
			Values: append([]string(nil), row...),
		})
	}

	return out, nil
}
