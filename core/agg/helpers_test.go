package agg

import (
	"time"

	"github.com/huangsam/hirefunnel/schema"
)

var testRules = Rules{
	OnsiteInterviewers: []string{"Sam Nadler", "Jordan Metzner"},
	ScreenForm:         "Recruiter Screen",
	PassThreshold:      3,
	QualityThreshold:   4,
}

func score(v float64) *float64 { return &v }

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func screen(candidate, when, recruiter string, s *float64, origin string) schema.InterviewEvent {
	return schema.InterviewEvent{
		CandidateName:      candidate,
		InterviewTimestamp: at(when),
		Interviewer:        recruiter,
		FeedbackFormType:   "Recruiter Screen",
		OverallScore:       s,
		CandidateOrigin:    origin,
	}
}

func onsite(candidate, when, interviewer string, s *float64) schema.InterviewEvent {
	return schema.InterviewEvent{
		CandidateName:      candidate,
		InterviewTimestamp: at(when),
		Interviewer:        interviewer,
		FeedbackFormType:   "Onsite",
		OverallScore:       s,
	}
}

// funnelEvents spans three ISO weeks of 2024 with two recruiters.
func funnelEvents() []schema.InterviewEvent {
	return []schema.InterviewEvent{
		// 2024-W01
		screen("Carol", "2024-01-02 10:00", "RecruiterB", score(2), "LinkedIn"),
		screen("Dave", "2024-01-03 11:00", "RecruiterA", score(5), "Referral"),
		// 2024-W02
		screen("Alice", "2024-01-08 10:00", "RecruiterA", score(4), "Applied"),
		screen("Bob", "2024-01-09 10:00", "RecruiterA", score(1), ""),
		screen("Erin", "2024-01-09 15:00", "RecruiterB", nil, "Sourced"),
		onsite("Alice", "2024-01-10 09:00", "Sam Nadler", score(4)),
		onsite("Dave", "2024-01-11 09:00", "Jordan Metzner", score(2)),
		// 2024-W03
		screen("Frank", "2024-01-15 10:00", "RecruiterB", score(3), "Direct"),
		onsite("Frank", "2024-01-17 13:00", "Sam Nadler", score(4)),
		onsite("Alice", "2024-01-17 14:00", "Jordan Metzner", score(3)),
		{
			CandidateName:      "Gina",
			InterviewTimestamp: at("2024-01-16 10:00"),
			Interviewer:        "Hiring Manager",
			FeedbackFormType:   "Team Fit",
		},
	}
}
