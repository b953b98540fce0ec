package schema

import "time"

// SectionStatus records whether a dashboard section could be computed.
type SectionStatus struct {
	Section   Section `json:"section"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
}

// SummaryCard is a headline number for the latest week with its week-over-week delta.
type SummaryCard struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Previous float64 `json:"previous"`
	Delta    float64 `json:"delta"`
	Percent  bool    `json:"percent"`
}

// RecruiterCard is the latest-week summary for one recruiter.
type RecruiterCard struct {
	Recruiter       string  `json:"recruiter"`
	Emoji           string  `json:"emoji,omitempty"`
	Star            bool    `json:"star"`
	Screens         int     `json:"screens"`
	ScreensDelta    int     `json:"screens_delta"`
	PassRate        float64 `json:"pass_rate"`
	PassRateDelta   float64 `json:"pass_rate_delta"`
	Onsites         int     `json:"onsites"`
	OnsitesDelta    int     `json:"onsites_delta"`
	Conversion      float64 `json:"conversion"`
	ConversionDelta float64 `json:"conversion_delta"`
}

// Dashboard is the complete rendered view of the funnel.
type Dashboard struct {
	GeneratedAt   time.Time  `json:"generated_at"`
	Weeks         int        `json:"weeks"`
	Period        TimePeriod `json:"period"`
	WeekKeys      []string   `json:"week_keys"`
	LatestWeek    string     `json:"latest_week,omitempty"`
	WeekOf        string     `json:"week_of,omitempty"`
	TotalRecords  int        `json:"total_records"`
	StarRecruiter *string    `json:"star_recruiter"`

	Summary    []SummaryCard   `json:"summary"`
	Recruiters []RecruiterCard `json:"recruiters"`

	Screens            []ScreenMetric         `json:"screens"`
	Onsites            []OnsiteVolume         `json:"onsites"`
	Conversion         []ConversionMetric     `json:"conversion"`
	OnsitesByRecruiter []OnsitesByRecruiter   `json:"onsites_by_recruiter"`
	Sources            []SourceBreakdown      `json:"sources"`
	TimeToHire         []TimeToHire           `json:"time_to_hire"`
	Quality            []QualityMetric        `json:"quality"`
	Detail             []DetailedMetric       `json:"detail"`
	LastWeek           []RecruiterPerformance `json:"last_week"`

	PeriodComparison *PeriodComparison `json:"period_comparison,omitempty"`
	Sections         []SectionStatus   `json:"sections"`
}

// SectionAvailable reports whether the named section was computed.
func (d *Dashboard) SectionAvailable(s Section) bool {
	for _, st := range d.Sections {
		if st.Section == s {
			return st.Available
		}
	}
	return false
}

// SectionReason returns why the named section is unavailable, or "" if it is available.
func (d *Dashboard) SectionReason(s Section) string {
	for _, st := range d.Sections {
		if st.Section == s {
			return st.Reason
		}
	}
	return ""
}

// SectionRows returns the typed rows of a section, or nil for an unknown one.
func (d *Dashboard) SectionRows(s Section) any {
	switch s {
	case ScreensSection:
		return d.Screens
	case OnsitesSection:
		return d.Onsites
	case ConversionSection:
		return d.Conversion
	case OnsitesByRecruiterSection:
		return d.OnsitesByRecruiter
	case SourcesSection:
		return d.Sources
	case TimeToHireSection:
		return d.TimeToHire
	case QualitySection:
		return d.Quality
	case DetailSection:
		return d.Detail
	case LastWeekSection:
		return d.LastWeek
	case SummarySection:
		return d.Summary
	default:
		return nil
	}
}
