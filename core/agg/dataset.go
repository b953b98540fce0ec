package agg

import (
	"crypto/sha256"
	"fmt"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
	"golang.org/x/text/cases"
)

// Rules are the configurable inputs of stage classification and scoring.
type Rules struct {
	OnsiteInterviewers []string
	ScreenForm         string
	PassThreshold      float64
	QualityThreshold   float64
}

// RulesFromConfig copies the funnel rules out of a validated config.
func RulesFromConfig(cfg *contract.Config) Rules {
	return Rules{
		OnsiteInterviewers: slices.Clone(cfg.OnsiteInterviewers),
		ScreenForm:         cfg.ScreenForm,
		PassThreshold:      cfg.PassThreshold,
		QualityThreshold:   cfg.QualityThreshold,
	}
}

// String renders the rules in a stable form for fingerprinting.
func (r Rules) String() string {
	onsite := slices.Clone(r.OnsiteInterviewers)
	slices.Sort(onsite)
	return fmt.Sprintf("onsite=%s|form=%s|pass=%g|quality=%g",
		strings.Join(onsite, ","), r.ScreenForm, r.PassThreshold, r.QualityThreshold)
}

// Stage is the funnel stage of an event.
type Stage int

// Funnel stages.
const (
	StageOther Stage = iota
	StageScreen
	StageOnsite
)

// Dataset is an immutable set of events with the per-event week keys,
// stages and attribution indexes precomputed.
type Dataset struct {
	events []schema.InterviewEvent
	weeks  []string
	stages []Stage
	rules  Rules

	allWeeks             []string                       // distinct keys, ascending
	recruiters           []string                       // everyone with a screen, ascending
	screenersByCandidate map[string][]string            // candidate -> recruiters who screened them
	onsiteTimes          map[string][]time.Time         // candidate -> onsite times, ascending
	screenedBy           map[string]map[string]struct{} // recruiter -> candidates screened
}

// NewDataset classifies every event and builds the attribution indexes.
func NewDataset(events []schema.InterviewEvent, rules Rules) *Dataset {
	ds := &Dataset{
		events:               events,
		weeks:                make([]string, len(events)),
		stages:               make([]Stage, len(events)),
		rules:                rules,
		screenersByCandidate: make(map[string][]string),
		onsiteTimes:          make(map[string][]time.Time),
		screenedBy:           make(map[string]map[string]struct{}),
	}

	onsiteSet := make(map[string]struct{}, len(rules.OnsiteInterviewers))
	for _, name := range rules.OnsiteInterviewers {
		onsiteSet[schema.CanonicalName(name)] = struct{}{}
	}
	folder := cases.Fold()
	screenForm := folder.String(strings.TrimSpace(rules.ScreenForm))

	weekSet := make(map[string]struct{})
	for i, ev := range events {
		key := BucketKey(ev.InterviewTimestamp)
		ds.weeks[i] = key
		weekSet[key] = struct{}{}

		candidate := candidateKey(ev)
		_, isOnsite := onsiteSet[schema.CanonicalName(ev.Interviewer)]
		switch {
		case isOnsite:
			ds.stages[i] = StageOnsite
			ds.onsiteTimes[candidate] = append(ds.onsiteTimes[candidate], ev.InterviewTimestamp)
		case screenForm != "" && strings.Contains(folder.String(ev.FeedbackFormType), screenForm):
			ds.stages[i] = StageScreen
			cands, ok := ds.screenedBy[ev.Interviewer]
			if !ok {
				cands = make(map[string]struct{})
				ds.screenedBy[ev.Interviewer] = cands
			}
			if _, seen := cands[candidate]; !seen {
				cands[candidate] = struct{}{}
				ds.screenersByCandidate[candidate] = append(ds.screenersByCandidate[candidate], ev.Interviewer)
			}
		}
	}

	for _, times := range ds.onsiteTimes {
		slices.SortFunc(times, func(a, b time.Time) int { return a.Compare(b) })
	}
	for recruiter := range ds.screenedBy {
		ds.recruiters = append(ds.recruiters, recruiter)
	}
	sort.Strings(ds.recruiters)
	for key := range weekSet {
		ds.allWeeks = append(ds.allWeeks, key)
	}
	sort.Strings(ds.allWeeks)

	return ds
}

// candidateKey is the attribution join key of an event.
func candidateKey(ev schema.InterviewEvent) string {
	return schema.CanonicalName(ev.CandidateName)
}

// Len returns the number of events.
func (ds *Dataset) Len() int { return len(ds.events) }

// Events returns the underlying events.
func (ds *Dataset) Events() []schema.InterviewEvent { return ds.events }

// Rules returns the classification rules the dataset was built with.
func (ds *Dataset) Rules() Rules { return ds.rules }

// Weeks returns every distinct week key in ascending order.
func (ds *Dataset) Weeks() []string { return slices.Clone(ds.allWeeks) }

// Recruiters returns everyone with at least one screen, in name order.
func (ds *Dataset) Recruiters() []string { return slices.Clone(ds.recruiters) }

// StageOf returns the stage of the i-th event.
func (ds *Dataset) StageOf(i int) Stage { return ds.stages[i] }

// WeekOf returns the week key of the i-th event.
func (ds *Dataset) WeekOf(i int) string { return ds.weeks[i] }

// LatestWeeks returns the n greatest distinct week keys in ascending order.
func (ds *Dataset) LatestWeeks(n int) []string {
	if n <= 0 {
		return nil
	}
	if n >= len(ds.allWeeks) {
		return slices.Clone(ds.allWeeks)
	}
	return slices.Clone(ds.allWeeks[len(ds.allWeeks)-n:])
}

// LatestTimestamp returns the most recent interview time, or the zero time
// for an empty dataset.
func (ds *Dataset) LatestTimestamp() time.Time {
	var latest time.Time
	for _, ev := range ds.events {
		if ev.InterviewTimestamp.After(latest) {
			latest = ev.InterviewTimestamp
		}
	}
	return latest
}

// Filter returns a new dataset holding the events keep accepts.
func (ds *Dataset) Filter(keep func(schema.InterviewEvent) bool) *Dataset {
	var kept []schema.InterviewEvent
	for _, ev := range ds.events {
		if keep(ev) {
			kept = append(kept, ev)
		}
	}
	return NewDataset(kept, ds.rules)
}

// Fingerprint identifies the dataset contents and rules. Two datasets with
// the same events in any order share a fingerprint; changing any field of an
// event changes it.
func (ds *Dataset) Fingerprint() string {
	digests := make([]string, len(ds.events))
	for i, ev := range ds.events {
		digests[i] = contentDigest(ev)
	}
	slices.Sort(digests)

	h := sha256.New()
	for _, d := range digests {
		h.Write([]byte(d))
	}
	h.Write([]byte(ds.rules.String()))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// contentDigest hashes every field of an event, not just its natural key.
func contentDigest(ev schema.InterviewEvent) string {
	score := ""
	if ev.OverallScore != nil {
		score = strconv.FormatFloat(*ev.OverallScore, 'g', -1, 64)
	}
	fields := []string{
		ev.KeyHash(),
		ev.InterviewTimestamp.UTC().Format(time.RFC3339Nano),
		ev.Interviewer,
		score,
		ev.CandidateOrigin,
		derefOr(ev.CandidateOwnerName, "\x00"),
		derefOr(ev.PostingTitle, "\x00"),
	}
	sum := sha256.Sum256([]byte(strings.Join(fields, "\x1f")))
	return fmt.Sprintf("%x", sum)
}

func derefOr(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return *s
}

// Window is a set of week keys an aggregation is restricted to.
type Window struct {
	weeks []string
	set   map[string]struct{}
}

// NewWindow builds a window over the given keys.
func NewWindow(weeks []string) Window {
	w := Window{weeks: slices.Clone(weeks), set: make(map[string]struct{}, len(weeks))}
	sort.Strings(w.weeks)
	for _, k := range weeks {
		w.set[k] = struct{}{}
	}
	return w
}

// Window returns the window over the n latest weeks.
func (ds *Dataset) Window(n int) Window {
	return NewWindow(ds.LatestWeeks(n))
}

// PreviousWindow returns the weeks of Window(n+1) that are not in Window(n).
func (ds *Dataset) PreviousWindow(n int) Window {
	return ds.Window(n + 1).Exclude(ds.Window(n))
}

// Weeks returns the keys in ascending order.
func (w Window) Weeks() []string { return slices.Clone(w.weeks) }

// Len returns the number of weeks.
func (w Window) Len() int { return len(w.weeks) }

// Contains reports whether key is in the window.
func (w Window) Contains(key string) bool {
	_, ok := w.set[key]
	return ok
}

// Latest returns the greatest key, or "" for an empty window.
func (w Window) Latest() string {
	if len(w.weeks) == 0 {
		return ""
	}
	return w.weeks[len(w.weeks)-1]
}

// Exclude returns the weeks of w that are not in other.
func (w Window) Exclude(other Window) Window {
	var kept []string
	for _, k := range w.weeks {
		if !other.Contains(k) {
			kept = append(kept, k)
		}
	}
	return NewWindow(kept)
}

// String joins the keys; it is used in cache keys.
func (w Window) String() string {
	return strings.Join(w.weeks, ",")
}
