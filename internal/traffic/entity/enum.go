package entity

import (
	"fmt"
	"strings"
)

// TimestampColumn is the column every traffic log must carry, holding
// microseconds since the Unix epoch.
const TimestampColumn = "time_generated"

// UnknownCategory replaces missing category values before grouping.
const UnknownCategory = "unknown"

type TimeUnit string

const (
	TimeUnitDay       TimeUnit = "day"
	TimeUnitHour      TimeUnit = "hour"
	TimeUnitTenMin    TimeUnit = "10min"
	TimeUnitFiveMin   TimeUnit = "5min"
	TimeUnitOneMinute TimeUnit = "1min"
)

// TimeUnits lists the supported granularities, coarsest first.
func TimeUnits() []TimeUnit {
	return []TimeUnit{TimeUnitDay, TimeUnitHour, TimeUnitTenMin, TimeUnitFiveMin, TimeUnitOneMinute}
}

func ParseTimeUnit(value string) (TimeUnit, error) {
	switch TimeUnit(strings.TrimSpace(value)) {
	case TimeUnitDay:
		return TimeUnitDay, nil
	case TimeUnitHour:
		return TimeUnitHour, nil
	case TimeUnitTenMin:
		return TimeUnitTenMin, nil
	case TimeUnitFiveMin:
		return TimeUnitFiveMin, nil
	case TimeUnitOneMinute:
		return TimeUnitOneMinute, nil
	default:
		return "", fmt.Errorf("unsupported time_unit: %q", value)
	}
}

// GroupBy is a categorical column of the traffic log schema.
type GroupBy string

const (
	GroupByAction        GroupBy = "action__value"
	GroupByApplication   GroupBy = "app"
	GroupByRuleMatched   GroupBy = "rule_matched"
	GroupByDestPort      GroupBy = "dest_port"
	GroupBySourceIP      GroupBy = "source_ip__value"
	GroupByDestinationIP GroupBy = "dest_ip__value"
)

func GroupBys() []GroupBy {
	return []GroupBy{
		GroupByAction,
		GroupByApplication,
		GroupByRuleMatched,
		GroupByDestPort,
		GroupBySourceIP,
		GroupByDestinationIP,
	}
}

func ParseGroupBy(value string) (GroupBy, error) {
	value = strings.TrimSpace(value)
	for _, g := range GroupBys() {
		if string(g) == value {
			return g, nil
		}
	}

	return "", fmt.Errorf("unsupported group_by: %q", value)
}
