package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"ai-interview-platform/internal/domain/model"
)

func seedFeedbackRows(t *testing.T, repo *memFeedbackRepo) {
	t.Helper()
	rows := []*model.Feedback{
		{ID: "01A", InterviewToken: "tok-1", CandidateName: "Alice", CandidateEmail: "alice@example.com",
			Ratings: model.Ratings{TechnicalSkills: 8, Communication: 9, ProblemSolving: 7, Experience: 8},
			Summary: "Strong.", Recommendation: model.RecommendationHire, CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
		{ID: "01B", InterviewToken: "tok-1", CandidateName: "Bob", CandidateEmail: "bob@example.com",
			Ratings: model.Ratings{TechnicalSkills: 3, Communication: 4, ProblemSolving: 3, Experience: 2},
			Summary: "Weak.", Recommendation: model.RecommendationDoNotHire, CreatedAt: time.Date(2026, 8, 2, 10, 0, 0, 0, time.UTC)},
		{ID: "01C", InterviewToken: "tok-2", CandidateName: "Cara", CandidateEmail: "cara@example.com",
			Ratings: model.Ratings{TechnicalSkills: 6, Communication: 6, ProblemSolving: 6, Experience: 6},
			Summary: "Okay.", Recommendation: model.RecommendationConsider, CreatedAt: time.Date(2026, 8, 3, 10, 0, 0, 0, time.UTC)},
	}
	for _, fb := range rows {
		if err := repo.Save(context.Background(), fb); err != nil {
			t.Fatalf("seed feedback: %v", err)
		}
	}
}

func TestTotals(t *testing.T) {
	ctx := context.Background()
	interviews := newMemInterviewRepo()
	feedbackRepo := newMemFeedbackRepo()
	seedFeedbackRows(t, feedbackRepo)
	_ = interviews.Save(ctx, model.NewInterview("iv-1", "tok-1", "owner-1", "BE", "d", "15", []string{"Technical"}, []model.Question{{Text: "q"}}))
	_ = interviews.Save(ctx, model.NewInterview("iv-2", "tok-2", "owner-1", "FE", "d", "30", []string{"Technical"}, []model.Question{{Text: "q"}}))

	uc := NewStatsUseCase(interviews, feedbackRepo, testLogger())
	totals, err := uc.Totals(ctx, "owner-1")
	if err != nil {
		t.Fatalf("Totals: %v", err)
	}
	if totals.Interviews != 2 || totals.Feedback != 3 {
		t.Fatalf("totals = %+v", totals)
	}
	if totals.Recommended != 1 || totals.NotRecommended != 1 {
		t.Fatalf("recommendation counts = %+v", totals)
	}
	// overalls are 8, 3 and 6
	if totals.AverageOverall != 5.7 {
		t.Fatalf("average overall = %v, want 5.7", totals.AverageOverall)
	}
}

func TestExportCSV(t *testing.T) {
	feedbackRepo := newMemFeedbackRepo()
	seedFeedbackRows(t, feedbackRepo)
	uc := NewStatsUseCase(newMemInterviewRepo(), feedbackRepo, testLogger())

	var buf bytes.Buffer
	if err := uc.ExportCSV(context.Background(), "owner-1", &buf); err != nil {
		t.Fatalf("ExportCSV: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "interview_token,candidate_name") {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "alice@example.com") || !strings.Contains(lines[1], ",8,Hire,") {
		t.Fatalf("unexpected first row: %q", lines[1])
	}
	if !strings.Contains(lines[2], "Do Not Hire") {
		t.Fatalf("unexpected second row: %q", lines[2])
	}
}
