package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// weekPerson keys groupings by week and person.
type weekPerson struct {
	week   string
	person string
}

func compareWeekPerson(a, b weekPerson) int {
	if c := cmp.Compare(a.week, b.week); c != 0 {
		return c
	}
	return cmp.Compare(a.person, b.person)
}

// sortedKeys returns the map keys ordered by week, then person.
func sortedKeys[V any](m map[weekPerson]V) []weekPerson {
	keys := make([]weekPerson, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareWeekPerson)
	return keys
}

// ScreenMetrics counts recruiter screens and passes over the n latest weeks.
func ScreenMetrics(ds *Dataset, n int) []schema.ScreenMetric {
	return ScreenMetricsIn(ds, ds.Window(n))
}

// ScreenMetricsIn counts recruiter screens and passes per week and recruiter.
func ScreenMetricsIn(ds *Dataset, win Window) []schema.ScreenMetric {
	type tally struct{ screens, passes int }
	groups := make(map[weekPerson]*tally)

	for i, ev := range ds.events {
		if ds.stages[i] != StageScreen || !win.Contains(ds.weeks[i]) {
			continue
		}
		k := weekPerson{ds.weeks[i], ev.Interviewer}
		t, ok := groups[k]
		if !ok {
			t = &tally{}
			groups[k] = t
		}
		t.screens++
		if ev.ScoreAtLeast(ds.rules.PassThreshold) {
			t.passes++
		}
	}

	out := make([]schema.ScreenMetric, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		t := groups[k]
		out = append(out, schema.ScreenMetric{
			Week:         k.week,
			Recruiter:    k.person,
			TotalScreens: t.screens,
			Passes:       t.passes,
			PassRate:     contract.Percent(t.passes, t.screens),
		})
	}
	return out
}

// OnsiteVolumeMetrics counts distinct onsite candidates over the n latest weeks.
func OnsiteVolumeMetrics(ds *Dataset, n int) []schema.OnsiteVolume {
	return OnsiteVolumeMetricsIn(ds, ds.Window(n))
}

// OnsiteVolumeMetricsIn counts distinct onsite candidates per week and interviewer.
func OnsiteVolumeMetricsIn(ds *Dataset, win Window) []schema.OnsiteVolume {
	groups := make(map[weekPerson]map[string]struct{})

	for i, ev := range ds.events {
		if ds.stages[i] != StageOnsite || !win.Contains(ds.weeks[i]) {
			continue
		}
		k := weekPerson{ds.weeks[i], ev.Interviewer}
		if groups[k] == nil {
			groups[k] = make(map[string]struct{})
		}
		groups[k][candidateKey(ev)] = struct{}{}
	}

	out := make([]schema.OnsiteVolume, 0, len(groups))
	for _, k := range sortedKeys(groups) {
		out = append(out, schema.OnsiteVolume{Week: k.week, Interviewer: k.person, Candidates: len(groups[k])})
	}
	return out
}
