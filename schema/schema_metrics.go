package schema

// ScreenMetric is the recruiter-screen volume and pass rate for one recruiter in one week.
type ScreenMetric struct {
	Week         string  `json:"week"`
	Recruiter    string  `json:"recruiter"`
	TotalScreens int     `json:"total_screens"`
	Passes       int     `json:"passes"`
	PassRate     float64 `json:"pass_rate"`
}

// OnsiteVolume counts distinct candidates seen by one onsite interviewer in one week.
type OnsiteVolume struct {
	Week        string `json:"week"`
	Interviewer string `json:"interviewer"`
	Candidates  int    `json:"candidates"`
}

// ConversionMetric relates a recruiter's screens in a week to the onsites
// their candidates had in the same week.
type ConversionMetric struct {
	Week       string  `json:"week"`
	Recruiter  string  `json:"recruiter"`
	Screens    int     `json:"screens"`
	Onsites    int     `json:"onsites"`
	Conversion float64 `json:"conversion"`
}

// SourceBreakdown counts a week's recruiter screens by candidate origin.
type SourceBreakdown struct {
	Week     string `json:"week"`
	Applied  int    `json:"applied"`
	Sourced  int    `json:"sourced"`
	Referred int    `json:"referred"`
	Unknown  int    `json:"unknown"`
	Total    int    `json:"total"`
}

// Count returns the tally for one category.
func (s SourceBreakdown) Count(c SourceCategory) int {
	switch c {
	case AppliedSource:
		return s.Applied
	case SourcedSource:
		return s.Sourced
	case ReferredSource:
		return s.Referred
	default:
		return s.Unknown
	}
}

// TimeToHire is the gap between a recruiter screen and the candidate's first onsite after it.
type TimeToHire struct {
	Week      string  `json:"week"`
	Recruiter string  `json:"recruiter"`
	Candidate string  `json:"candidate"`
	Days      float64 `json:"days"`
}

// QualityMetric is the share of a recruiter's scored screens at or above the quality threshold.
type QualityMetric struct {
	Recruiter     string  `json:"recruiter"`
	ScoredScreens int     `json:"scored_screens"`
	HighScores    int     `json:"high_scores"`
	QualityRate   float64 `json:"quality_rate"`
}

// OnsitesByRecruiter is the zero-filled onsite count attributed to a recruiter in a week.
type OnsitesByRecruiter struct {
	Week      string `json:"week"`
	Recruiter string `json:"recruiter"`
	Onsites   int    `json:"onsites"`
}

// DetailedMetric merges screen and conversion numbers for one recruiter-week.
type DetailedMetric struct {
	Week         string  `json:"week"`
	Recruiter    string  `json:"recruiter"`
	TotalScreens int     `json:"total_screens"`
	Passes       int     `json:"passes"`
	PassRate     float64 `json:"pass_rate"`
	Onsites      int     `json:"onsites"`
	Conversion   float64 `json:"conversion"`
}

// RecruiterPerformance is the most recent week's view of a single recruiter.
type RecruiterPerformance struct {
	Recruiter      string  `json:"recruiter"`
	Screens        int     `json:"screens"`
	ScreenPassRate float64 `json:"screen_pass_rate"`
	Onsites        int     `json:"onsites"`
	OnsitePassRate float64 `json:"onsite_pass_rate"`
}

// PeriodMetrics are the headline numbers for a time period.
type PeriodMetrics struct {
	TotalScreens    int     `json:"total_screens"`
	OverallPassRate float64 `json:"overall_pass_rate"`
	TotalOnsites    int     `json:"total_onsites"`
}

// PeriodComparison compares a period with the one before it.
type PeriodComparison struct {
	Current         TimePeriod    `json:"current"`
	Previous        TimePeriod    `json:"previous"`
	CurrentMetrics  PeriodMetrics `json:"current_metrics"`
	PreviousMetrics PeriodMetrics `json:"previous_metrics"`
	ScreensChange   float64       `json:"screens_change"`
	PassRateChange  float64       `json:"pass_rate_change"`
	OnsitesChange   float64       `json:"onsites_change"`
}
