package agg

import (
	"slices"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// QualityMetric rates scored screens against the quality threshold over the n latest weeks.
func QualityMetric(ds *Dataset, n int) []schema.QualityMetric {
	return QualityMetricIn(ds, ds.Window(n))
}

// QualityMetricIn returns, per recruiter, the share of scored window screens
// at or above the quality threshold. Recruiters with no scored screens are omitted.
func QualityMetricIn(ds *Dataset, win Window) []schema.QualityMetric {
	type tally struct{ scored, high int }
	byRecruiter := make(map[string]*tally)

	for i, ev := range ds.events {
		if ds.stages[i] != StageScreen || !win.Contains(ds.weeks[i]) || !ev.HasScore() {
			continue
		}
		t, ok := byRecruiter[ev.Interviewer]
		if !ok {
			t = &tally{}
			byRecruiter[ev.Interviewer] = t
		}
		t.scored++
		if ev.ScoreAtLeast(ds.rules.QualityThreshold) {
			t.high++
		}
	}

	names := make([]string, 0, len(byRecruiter))
	for name := range byRecruiter {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]schema.QualityMetric, 0, len(names))
	for _, name := range names {
		t := byRecruiter[name]
		out = append(out, schema.QualityMetric{
			Recruiter:     name,
			ScoredScreens: t.scored,
			HighScores:    t.high,
			QualityRate:   contract.Percent(t.high, t.scored),
		})
	}
	return out
}
