package algo

import (
	"testing"

	"github.com/huangsam/hirefunnel/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarRecruiter(t *testing.T) {
	tests := []struct {
		name    string
		screens []schema.ScreenMetric
		want    string
	}{
		{
			name: "summed across weeks",
			screens: []schema.ScreenMetric{
				{Week: "2024-W01", Recruiter: "Blake", TotalScreens: 4},
				{Week: "2024-W01", Recruiter: "Avery", TotalScreens: 3},
				{Week: "2024-W02", Recruiter: "Avery", TotalScreens: 2},
			},
			want: "Avery",
		},
		{
			name: "tie goes to smallest name",
			screens: []schema.ScreenMetric{
				{Week: "2024-W01", Recruiter: "Casey", TotalScreens: 2},
				{Week: "2024-W01", Recruiter: "Blake", TotalScreens: 2},
			},
			want: "Blake",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StarRecruiter(tt.screens)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, *got)
		})
	}

	assert.Nil(t, StarRecruiter(nil))
}

func TestRecruiterEmoji(t *testing.T) {
	star := "Avery"
	assert.Equal(t, StarEmoji, RecruiterEmoji("Avery", &star, true))
	assert.Equal(t, NeutralEmoji, RecruiterEmoji("Blake", &star, true))
	assert.Equal(t, NeutralEmoji, RecruiterEmoji("Blake", nil, true))
	assert.Equal(t, "", RecruiterEmoji("Avery", &star, false))
}

func TestWeekOverWeekDelta(t *testing.T) {
	assert.Equal(t, 3, WeekOverWeekDelta(5, 2))
	assert.Equal(t, -2, WeekOverWeekDelta(0, 2))
	assert.InDelta(t, -12.5, WeekOverWeekDelta(50.0, 62.5), 1e-9)
}

func TestPercentageChange(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"growth from zero", 4, 0, 100},
		{"both zero", 0, 0, 0},
		{"doubled", 10, 5, 100},
		{"halved", 5, 10, -50},
		{"rounded", 2, 3, -33.3},
		{"unchanged", 7, 7, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentageChange(tt.current, tt.previous))
		})
	}
}

func TestRankRecruiters(t *testing.T) {
	cards := []schema.RecruiterCard{
		{Recruiter: "Casey", Screens: 1},
		{Recruiter: "Blake", Screens: 3},
		{Recruiter: "Avery", Screens: 3},
	}

	ranked := RankRecruiters(cards)
	assert.Equal(t, []string{"Avery", "Blake", "Casey"}, names(ranked))
	assert.Equal(t, []string{"Avery", "Blake", "Casey"}, names(cards), "sorted in place")
	assert.Empty(t, RankRecruiters(nil))
}

func names(cards []schema.RecruiterCard) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Recruiter
	}
	return out
}
