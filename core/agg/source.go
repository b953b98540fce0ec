package agg

import (
	"strings"

	"github.com/huangsam/hirefunnel/schema"
	"golang.org/x/text/cases"
)

// sourcePatterns are tried in order; the first class with a matching
// substring wins.
var sourcePatterns = []struct {
	category schema.SourceCategory
	needles  []string
}{
	{schema.AppliedSource, []string{"applied", "application", "direct"}},
	{schema.SourcedSource, []string{"sourced", "sourcing", "linkedin", "outbound"}},
	{schema.ReferredSource, []string{"referred", "referral", "internal"}},
}

// sourceClassifier classifies candidate origins. It is not safe for
// concurrent use.
type sourceClassifier struct {
	folder cases.Caser
}

func newSourceClassifier() *sourceClassifier {
	return &sourceClassifier{folder: cases.Fold()}
}

// Classify returns the source category of a candidate origin.
func (c *sourceClassifier) Classify(origin string) schema.SourceCategory {
	folded := c.folder.String(origin)
	for _, p := range sourcePatterns {
		for _, needle := range p.needles {
			if strings.Contains(folded, needle) {
				return p.category
			}
		}
	}
	return schema.UnknownSource
}

// ClassifySource returns the source category of a candidate origin.
func ClassifySource(origin string) schema.SourceCategory {
	return newSourceClassifier().Classify(origin)
}

// SourceBreakdown tallies recruiter screens by candidate source over the n latest weeks.
func SourceBreakdown(ds *Dataset, n int) []schema.SourceBreakdown {
	return SourceBreakdownIn(ds, ds.Window(n))
}

// SourceBreakdownIn tallies recruiter screens by candidate source per week.
// Weeks without screens are omitted.
func SourceBreakdownIn(ds *Dataset, win Window) []schema.SourceBreakdown {
	classifier := newSourceClassifier()
	byWeek := make(map[string]*schema.SourceBreakdown)

	for i, ev := range ds.events {
		if ds.stages[i] != StageScreen || !win.Contains(ds.weeks[i]) {
			continue
		}
		row, ok := byWeek[ds.weeks[i]]
		if !ok {
			row = &schema.SourceBreakdown{Week: ds.weeks[i]}
			byWeek[ds.weeks[i]] = row
		}
		switch classifier.Classify(ev.CandidateOrigin) {
		case schema.AppliedSource:
			row.Applied++
		case schema.SourcedSource:
			row.Sourced++
		case schema.ReferredSource:
			row.Referred++
		default:
			row.Unknown++
		}
		row.Total++
	}

	out := make([]schema.SourceBreakdown, 0, len(byWeek))
	for _, week := range win.weeks {
		if row, ok := byWeek[week]; ok {
			out = append(out, *row)
		}
	}
	return out
}
