package agg

import (
	"cmp"
	"slices"
	"sort"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// TimeToHire measures screen-to-onsite latency over the n latest weeks.
func TimeToHire(ds *Dataset, n int) []schema.TimeToHire {
	return TimeToHireIn(ds, ds.Window(n))
}

// TimeToHireIn pairs every window screen with the earliest onsite of the
// same candidate at or after it. Screens without one are left out.
func TimeToHireIn(ds *Dataset, win Window) []schema.TimeToHire {
	var out []schema.TimeToHire
	for i, ev := range ds.events {
		if ds.stages[i] != StageScreen || !win.Contains(ds.weeks[i]) {
			continue
		}
		times := ds.onsiteTimes[candidateKey(ev)]
		j := sort.Search(len(times), func(k int) bool { return !times[k].Before(ev.InterviewTimestamp) })
		if j == len(times) {
			continue
		}
		out = append(out, schema.TimeToHire{
			Week:      ds.weeks[i],
			Recruiter: ev.Interviewer,
			Candidate: ev.CandidateName,
			Days:      contract.RoundTo(times[j].Sub(ev.InterviewTimestamp).Hours()/24, 1),
		})
	}
	slices.SortStableFunc(out, func(a, b schema.TimeToHire) int {
		if c := cmp.Compare(a.Week, b.Week); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Recruiter, b.Recruiter); c != 0 {
			return c
		}
		return cmp.Compare(a.Candidate, b.Candidate)
	})
	return out
}
