package core

import (
	"fmt"
	"time"
)

const (
	EarlyMonth MonthPeriod = "Early (1-10)"
	MidMonth   MonthPeriod = "Mid (11-20)"
	LateMonth  MonthPeriod = "Late (21-31)"
)

type (
	// MonthKey identifies a calendar month. Its string form is
	// zero-padded so lexicographic order equals chronological order.
	MonthKey struct {
		Year  int
		Month time.Month
	}

	// MonthPeriod splits a month into thirds for spending-pattern
	// analysis.
	MonthPeriod string
)

// MonthOf buckets a timestamp by its calendar month in local time.
func MonthOf(ts time.Time) MonthKey {
	return MonthKey{Year: ts.Year(), Month: ts.Month()}
}

func (k MonthKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k MonthKey) Before(other MonthKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// DayOfWeek buckets a timestamp by weekday.
func DayOfWeek(ts time.Time) time.Weekday {
	return ts.Weekday()
}

// MonthPeriodOf maps a day of month to its third. Days outside 1-31
// cannot occur for a valid time.Time, but out-of-range input still maps
// to LateMonth rather than failing: the function is total.
func MonthPeriodOf(day int) MonthPeriod {
	switch {
	case day <= 10:
		return EarlyMonth
	case day <= 20:
		return MidMonth
	default:
		return LateMonth
	}
}
