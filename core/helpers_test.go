package core

import (
	"time"

	"github.com/huangsam/hirefunnel/internal/contract"
	"github.com/huangsam/hirefunnel/internal/iocache"
	"github.com/huangsam/hirefunnel/schema"
)

func testConfig() *contract.Config {
	return &contract.Config{
		StoreBackend:       schema.SQLiteBackend,
		CacheBackend:       schema.NoneBackend,
		OnsiteInterviewers: []string{"Sam Nadler", "Jordan Metzner"},
		ScreenForm:         "Recruiter Screen",
		PassThreshold:      3,
		QualityThreshold:   4,
		Weeks:              4,
		Period:             schema.AllTimePeriod,
		CacheTTL:           time.Hour,
		MaxUploadBytes:     5 << 20,
		DateLayouts:        contract.DefaultDateLayouts,
		Precision:          1,
		Output:             schema.JSONOut,
		UseEmojis:          true,
	}
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

// funnelEvents spans 2024-W01 through 2024-W03 with two recruiters.
func funnelEvents() []schema.InterviewEvent {
	return []schema.InterviewEvent{
		screen("Carol", "2024-01-02 10:00", "RecruiterB", score(2), "LinkedIn"),
		screen("Dave", "2024-01-03 11:00", "RecruiterA", score(5), "Referral"),
		screen("Alice", "2024-01-08 10:00", "RecruiterA", score(4), "Applied"),
		screen("Bob", "2024-01-09 10:00", "RecruiterA", score(1), ""),
		screen("Erin", "2024-01-09 15:00", "RecruiterB", nil, "Sourced"),
		onsite("Alice", "2024-01-10 09:00", "Sam Nadler", score(4)),
		onsite("Dave", "2024-01-11 09:00", "Jordan Metzner", score(2)),
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

// mockManager serves the given event store and no cache.
func mockManager(store *iocache.MockEventStore) *iocache.MockStoreManager {
	mgr := &iocache.MockStoreManager{}
	mgr.On("GetEventStore").Return(store).Maybe()
	mgr.On("GetCacheStore").Return(nil).Maybe()
	return mgr
}
