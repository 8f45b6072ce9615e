package analytics

import (
	"time"
)

// Series is a date-indexed daily return series, the common currency between
// the account layer and the statistic functions. Dates and Values run in
// parallel, ascending by date.
type Series struct {
	Dates  []time.Time
	Values []float64
}

// Len returns the number of observations.
func (s Series) Len() int {
	return len(s.Values)
}

// Slice returns the observations within [start, end], inclusive.
func (s Series) Slice(start, end time.Time) Series {
	var out Series
	for i, d := range s.Dates {
		if d.Before(start) || d.After(end) {
			continue
		}
		out.Dates = append(out.Dates, d)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}

// Weekdays returns the series restricted to Monday through Friday. Weekend
// observations carry forward-filled prices and would dilute annualized
// statistics computed on a 252-day year.
func (s Series) Weekdays() Series {
	var out Series
	for i, d := range s.Dates {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		out.Dates = append(out.Dates, d)
		out.Values = append(out.Values, s.Values[i])
	}
	return out
}
