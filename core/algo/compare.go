// Package algo compares funnel metrics across weeks and recruiters.
package algo

import (
	"cmp"
	"slices"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/schema"
)

// Markers shown next to recruiter names.
const (
	StarEmoji    = "⭐"
	NeutralEmoji = "👤"
)

// Number is any value a delta can be taken of.
type Number interface {
	~int | ~int64 | ~float64
}

// StarRecruiter returns the recruiter with the most screens summed across
// the rows. Ties go to the lexicographically smallest name. It returns nil
// when there are no rows.
func StarRecruiter(screens []schema.ScreenMetric) *string {
	totals := make(map[string]int)
	for _, s := range screens {
		totals[s.Recruiter] += s.TotalScreens
	}
	if len(totals) == 0 {
		return nil
	}

	var star string
	best := -1
	for name, total := range totals {
		if total > best || (total == best && name < star) {
			star, best = name, total
		}
	}
	return &star
}

// RecruiterEmoji returns the marker for a recruiter, or "" when emojis are off.
func RecruiterEmoji(recruiter string, star *string, useEmoji bool) string {
	if !useEmoji {
		return ""
	}
	if star != nil && *star == recruiter {
		return StarEmoji
	}
	return NeutralEmoji
}

// WeekOverWeekDelta returns current minus previous.
func WeekOverWeekDelta[T Number](current, previous T) T {
	return current - previous
}

// PercentageChange returns the relative change from previous to current in
// percent, rounded to one decimal. Growth from zero counts as 100.
func PercentageChange(current, previous float64) float64 {
	switch {
	case previous == 0 && current > 0:
		return 100
	case previous == 0:
		return 0
	default:
		return contract.RoundTo((current-previous)/previous*100, 1)
	}
}

// RankRecruiters sorts cards in place by screens in descending order, then by name.
func RankRecruiters(cards []schema.RecruiterCard) []schema.RecruiterCard {
	slices.SortStableFunc(cards, func(a, b schema.RecruiterCard) int {
		if c := cmp.Compare(b.Screens, a.Screens); c != 0 {
			return c
		}
		return cmp.Compare(a.Recruiter, b.Recruiter)
	})
	return cards
}
