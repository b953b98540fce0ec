package agg

import (
	"cmp"
	"slices"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// DetailedMetrics left-joins screen rows with conversion rows on week and
// recruiter. Rows are sorted by week descending, then recruiter ascending.
func DetailedMetrics(screens []schema.ScreenMetric, conversion []schema.ConversionMetric) []schema.DetailedMetric {
	byKey := make(map[weekPerson]schema.ConversionMetric, len(conversion))
	for _, c := range conversion {
		byKey[weekPerson{c.Week, c.Recruiter}] = c
	}

	out := make([]schema.DetailedMetric, 0, len(screens))
	for _, s := range screens {
		row := schema.DetailedMetric{
			Week:         s.Week,
			Recruiter:    s.Recruiter,
			TotalScreens: s.TotalScreens,
			Passes:       s.Passes,
			PassRate:     s.PassRate,
		}
		if c, ok := byKey[weekPerson{s.Week, s.Recruiter}]; ok {
			row.Onsites = c.Onsites
			row.Conversion = c.Conversion
		}
		out = append(out, row)
	}
	slices.SortFunc(out, func(a, b schema.DetailedMetric) int {
		if c := cmp.Compare(b.Week, a.Week); c != 0 {
			return c
		}
		return cmp.Compare(a.Recruiter, b.Recruiter)
	})
	return out
}

// LastWeekPerformance reports each recruiter's screens in the most recent
// week, and the onsites (at any time) of the candidates they screened then.
func LastWeekPerformance(ds *Dataset) []schema.RecruiterPerformance {
	latest := ds.Window(1).Latest()
	if latest == "" {
		return nil
	}

	type tally struct {
		screens, passes int
		candidates      map[string]struct{}
	}
	byRecruiter := make(map[string]*tally, len(ds.recruiters))
	for _, r := range ds.recruiters {
		byRecruiter[r] = &tally{candidates: make(map[string]struct{})}
	}

	for i, ev := range ds.events {
		if ds.stages[i] != StageScreen || ds.weeks[i] != latest {
			continue
		}
		t := byRecruiter[ev.Interviewer]
		t.screens++
		if ev.ScoreAtLeast(ds.rules.PassThreshold) {
			t.passes++
		}
		t.candidates[candidateKey(ev)] = struct{}{}
	}

	out := make([]schema.RecruiterPerformance, 0, len(ds.recruiters))
	for _, r := range ds.recruiters {
		t := byRecruiter[r]
		onsites, onsitePasses := 0, 0
		for i, ev := range ds.events {
			if ds.stages[i] != StageOnsite {
				continue
			}
			if _, ok := t.candidates[candidateKey(ev)]; !ok {
				continue
			}
			onsites++
			if ev.ScoreAtLeast(ds.rules.PassThreshold) {
				onsitePasses++
			}
		}
		out = append(out, schema.RecruiterPerformance{
			Recruiter:      r,
			Screens:        t.screens,
			ScreenPassRate: contract.Percent(t.passes, t.screens),
			Onsites:        onsites,
			OnsitePassRate: contract.Percent(onsitePasses, onsites),
		})
	}
	return out
}
