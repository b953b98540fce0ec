package core

import (
	"time"

	"github.com/huangsam/hirefunnel/core/agg"
	"github.com/huangsam/hirefunnel/core/algo"
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// periodPairs maps a period to the one it is compared against.
var periodPairs = map[schema.TimePeriod]schema.TimePeriod{
	schema.ThisWeekPeriod:  schema.LastWeekPeriod,
	schema.ThisMonthPeriod: schema.LastMonthPeriod,
}

// PeriodBounds returns the half-open interval [start, end) of a period
// relative to now. A zero end means the interval is open. ok is false for
// the all-time period.
func PeriodBounds(period schema.TimePeriod, now time.Time) (start, end time.Time, ok bool) {
	now = now.UTC()
	monday := agg.MondayOf(now)
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	switch period {
	case schema.ThisWeekPeriod:
		return monday, time.Time{}, true
	case schema.LastWeekPeriod:
		return monday.AddDate(0, 0, -7), monday, true
	case schema.ThisMonthPeriod:
		return firstOfMonth, time.Time{}, true
	case schema.LastMonthPeriod:
		return firstOfMonth.AddDate(0, -1, 0), firstOfMonth, true
	default:
		return time.Time{}, time.Time{}, false
	}
}

// FilterPeriod keeps the events that fall in the period.
func FilterPeriod(ds *agg.Dataset, period schema.TimePeriod, now time.Time) *agg.Dataset {
	start, end, ok := PeriodBounds(period, now)
	if !ok {
		return ds
	}
	return ds.Filter(func(ev schema.InterviewEvent) bool {
		ts := ev.InterviewTimestamp
		if ts.Before(start) {
			return false
		}
		return end.IsZero() || ts.Before(end)
	})
}

// PeriodMetricsOf counts screens, screen passes and onsites across the
// whole dataset.
func PeriodMetricsOf(ds *agg.Dataset) schema.PeriodMetrics {
	threshold := ds.Rules().PassThreshold
	var screens, passes, onsites int
	for i, ev := range ds.Events() {
		switch ds.StageOf(i) {
		case agg.StageScreen:
			screens++
			if ev.ScoreAtLeast(threshold) {
				passes++
			}
		case agg.StageOnsite:
			onsites++
		}
	}
	return schema.PeriodMetrics{
		TotalScreens:    screens,
		OverallPassRate: contract.Percent(passes, screens),
		TotalOnsites:    onsites,
	}
}

// ComparePeriods compares this week with last week, or this month with
// last month. Other periods have no comparison and yield nil.
func ComparePeriods(ds *agg.Dataset, period schema.TimePeriod, now time.Time) *schema.PeriodComparison {
	previous, ok := periodPairs[period]
	if !ok {
		return nil
	}
	cur := PeriodMetricsOf(FilterPeriod(ds, period, now))
	prev := PeriodMetricsOf(FilterPeriod(ds, previous, now))
	return &schema.PeriodComparison{
		Current:         period,
		Previous:        previous,
		CurrentMetrics:  cur,
		PreviousMetrics: prev,
		ScreensChange:   algo.PercentageChange(float64(cur.TotalScreens), float64(prev.TotalScreens)),
		PassRateChange:  algo.PercentageChange(cur.OverallPassRate, prev.OverallPassRate),
		OnsitesChange:   algo.PercentageChange(float64(cur.TotalOnsites), float64(prev.TotalOnsites)),
	}
}
