package summary

import (
	"errors"
	"fmt"
	"time"

	"github.com/hyakkun/data-dashboard/internal/traffic/entity"
)

var ErrUnsupportedGranularity = errors.New("unsupported granularity")

const (
	dayLayout    = "2006-01-02"
	hourLayout   = "2006-01-02 15"
	minuteLayout = "2006-01-02 15:04"
)

// Bucket returns the label of the bucket containing ts.
//
// Labels sort lexicographically in chronological order. Flooring happens on
// the wall clock of ts's own location, so callers must normalize first.
func Bucket(ts time.Time, unit entity.TimeUnit) (string, error) {
	label, err := bucketer(unit)
	if err != nil {
		return "", err
	}
	return label(ts), nil
}

func bucketer(unit entity.TimeUnit) (func(time.Time) string, error) {
	switch unit {
	case entity.TimeUnitDay:
		return func(ts time.Time) string { return ts.Format(dayLayout) }, nil
	case entity.TimeUnitHour:
		return func(ts time.Time) string { return ts.Format(hourLayout) + ":00" }, nil
	case entity.TimeUnitTenMin:
		return floorMinutes(10), nil
	case entity.TimeUnitFiveMin:
		return floorMinutes(5), nil
	case entity.TimeUnitOneMinute:
		return floorMinutes(1), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGranularity, unit)
	}
}

func floorMinutes(step int) func(time.Time) string {
	return func(ts time.Time) string {
		y, mo, d := ts.Date()
		h, m, _ := ts.Clock()
		return time.Date(y, mo, d, h, m-m%step, 0, 0, ts.Location()).Format(minuteLayout)
	}
}
