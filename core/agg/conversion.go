package agg

import (
	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// ConversionMetrics relates onsites to screens over the n latest weeks.
func ConversionMetrics(ds *Dataset, n int) []schema.ConversionMetric {
	return ConversionMetricsIn(ds, ds.Window(n))
}

// ConversionMetricsIn emits one row per window week and recruiter. Onsites
// count the week's onsite events for any candidate the recruiter ever
// screened; screens count the recruiter's screens in that week.
func ConversionMetricsIn(ds *Dataset, win Window) []schema.ConversionMetric {
	screens := make(map[weekPerson]int)
	onsites := make(map[weekPerson]int)

	for i, ev := range ds.events {
		week := ds.weeks[i]
		if !win.Contains(week) {
			continue
		}
		switch ds.stages[i] {
		case StageScreen:
			screens[weekPerson{week, ev.Interviewer}]++
		case StageOnsite:
			for _, recruiter := range ds.screenersByCandidate[candidateKey(ev)] {
				onsites[weekPerson{week, recruiter}]++
			}
		}
	}

	out := make([]schema.ConversionMetric, 0, win.Len()*len(ds.recruiters))
	for _, week := range win.weeks {
		for _, recruiter := range ds.recruiters {
			k := weekPerson{week, recruiter}
			out = append(out, schema.ConversionMetric{
				Week:       week,
				Recruiter:  recruiter,
				Screens:    screens[k],
				Onsites:    onsites[k],
				Conversion: contract.Percent(onsites[k], screens[k]),
			})
		}
	}
	return out
}

// OnsitesByRecruiter is the zero-filled week by recruiter grid of
// attributed onsites over the n latest weeks.
func OnsitesByRecruiter(ds *Dataset, n int) []schema.OnsitesByRecruiter {
	return OnsitesByRecruiterFrom(ConversionMetrics(ds, n))
}

// OnsitesByRecruiterFrom projects conversion rows onto the onsite grid.
func OnsitesByRecruiterFrom(conversion []schema.ConversionMetric) []schema.OnsitesByRecruiter {
	out := make([]schema.OnsitesByRecruiter, 0, len(conversion))
	for _, c := range conversion {
		out = append(out, schema.OnsitesByRecruiter{Week: c.Week, Recruiter: c.Recruiter, Onsites: c.Onsites})
	}
	return out
}
