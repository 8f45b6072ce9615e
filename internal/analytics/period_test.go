package analytics

import (
	"errors"
	"testing"
	"time"
)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func dailyIndex(start, end time.Time) []time.Time {
	var index []time.Time
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		index = append(index, t)
	}
	return index
}

func TestPeriodBounds(t *testing.T) {
	index := dailyIndex(d(2023, 1, 15), d(2024, 3, 15))

	tests := []struct {
		option    string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{PeriodFull, d(2023, 1, 15), d(2024, 3, 15)},
		{PeriodMTD, d(2024, 3, 1), d(2024, 3, 15)},
		{PeriodQTD, d(2024, 1, 1), d(2024, 3, 15)},
		{PeriodYTD, d(2024, 1, 1), d(2024, 3, 15)},
		{Period1Y, d(2023, 3, 16), d(2024, 3, 15)},
		{PeriodPD, d(2024, 3, 14), d(2024, 3, 15)},
		{PeriodPM, d(2024, 2, 1), d(2024, 2, 29)},
		{PeriodPQ, d(2023, 10, 1), d(2023, 12, 31)},
		{PeriodPY, d(2023, 3, 1), d(2024, 2, 29)},
	}

	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			start, end, err := PeriodBounds(tt.option, index)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !start.Equal(tt.wantStart) {
				t.Errorf("start = %s, want %s", start.Format("2006-01-02"), tt.wantStart.Format("2006-01-02"))
			}
			if !end.Equal(tt.wantEnd) {
				t.Errorf("end = %s, want %s", end.Format("2006-01-02"), tt.wantEnd.Format("2006-01-02"))
			}
		})
	}
}

func TestPeriodBoundsClipsToIndex(t *testing.T) {
	// A young account: YTD start would precede the first observation.
	index := dailyIndex(d(2024, 2, 10), d(2024, 3, 15))
	start, _, err := PeriodBounds(PeriodYTD, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(d(2024, 2, 10)) {
		t.Errorf("start = %s, want clipped to 2024-02-10", start.Format("2006-01-02"))
	}
}

func TestPeriodBoundsMonthBeginEdge(t *testing.T) {
	// When the last observation is itself a month begin, PM reaches two
	// whole months back.
	index := dailyIndex(d(2023, 11, 1), d(2024, 3, 1))
	start, end, err := PeriodBounds(PeriodPM, index)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !start.Equal(d(2024, 1, 1)) || !end.Equal(d(2024, 1, 31)) {
		t.Errorf("PM window = [%s, %s], want [2024-01-01, 2024-01-31]",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
}

func TestPeriodBoundsUnknownOption(t *testing.T) {
	_, _, err := PeriodBounds("5Y", dailyIndex(d(2024, 1, 1), d(2024, 3, 1)))
	if !errors.Is(err, ErrInvalidPeriod) {
		t.Errorf("error = %v, want ErrInvalidPeriod", err)
	}
}
