package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
)

func endedSession() *model.Session {
	s := model.NewSession("sess-1", "tok-1", "Alice", "alice@example.com")
	s.Transcript = []model.Turn{
		{Role: model.RoleAgent, Text: "What is a goroutine?"},
		{Role: model.RoleCandidate, Text: "A lightweight thread."},
	}
	return s
}

func TestFeedbackGenerate(t *testing.T) {
	ctx := context.Background()
	repo := newMemFeedbackRepo()
	ai := &fakeAI{responses: []string{assessmentJSON}}
	uc := NewFeedbackUseCase(repo, newMemInterviewRepo(), ai, nil, "feedback-model", testLogger())

	fb, err := uc.Generate(ctx, endedSession())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fb.ID == "" {
		t.Fatal("expected generated feedback id")
	}
	if fb.Ratings.Communication != 9 || fb.Recommendation != model.RecommendationHire {
		t.Fatalf("parsed feedback mismatch: %+v", fb)
	}
	if fb.Overall() != 8 {
		t.Fatalf("overall = %d, want 8", fb.Overall())
	}

	// Prompt carries the serialized conversation.
	if len(ai.prompts) != 1 || !strings.Contains(ai.prompts[0], "A lightweight thread.") {
		t.Fatal("prompt must embed the transcript")
	}

	if _, err := repo.FindByCandidate(ctx, "tok-1", "alice@example.com"); err != nil {
		t.Fatalf("persisted lookup: %v", err)
	}
}

func TestFeedbackGenerateRejectsEmptyTranscript(t *testing.T) {
	ai := &fakeAI{responses: []string{assessmentJSON}}
	uc := NewFeedbackUseCase(newMemFeedbackRepo(), newMemInterviewRepo(), ai, nil, "feedback-model", testLogger())

	s := model.NewSession("sess-1", "tok-1", "Alice", "alice@example.com")
	if _, err := uc.Generate(context.Background(), s); !errors.Is(err, domain.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if ai.callCount() != 0 {
		t.Fatalf("no AI call expected, got %d", ai.callCount())
	}
}

func TestFeedbackGenerateNormalizesAndClamps(t *testing.T) {
	payload := `{
		"rating": {"technicalSkills": 14, "communication": 0, "problemSolving": 5, "experience": 6},
		"summary": "Mixed results.",
		"Recommendation": "Strong Hire!!",
		"RecommendationMsg": "n/a"
	}`
	uc := NewFeedbackUseCase(newMemFeedbackRepo(), newMemInterviewRepo(), &fakeAI{responses: []string{payload}}, nil, "feedback-model", testLogger())

	fb, err := uc.Generate(context.Background(), endedSession())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if fb.Ratings.TechnicalSkills != 10 || fb.Ratings.Communication != 1 {
		t.Fatalf("ratings not clamped: %+v", fb.Ratings)
	}
	if fb.Recommendation != model.RecommendationNotAvailable {
		t.Fatalf("recommendation = %q, want Not Available", fb.Recommendation)
	}
}

func TestFeedbackGenerateParseFailure(t *testing.T) {
	uc := NewFeedbackUseCase(newMemFeedbackRepo(), newMemInterviewRepo(), &fakeAI{responses: []string{"not json"}}, nil, "feedback-model", testLogger())
	if _, err := uc.Generate(context.Background(), endedSession()); !errors.Is(err, domain.ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newMemFeedbackRepo()
	interviews := newMemInterviewRepo()
	_ = interviews.Save(ctx, model.NewInterview("iv-1", "tok-1", "owner-1", "BE", "d", "15",
		[]string{"Technical"}, []model.Question{{Text: "q"}}))
	_ = repo.Save(ctx, &model.Feedback{ID: "fb-1", InterviewToken: "tok-1", CandidateEmail: "alice@example.com"})

	uc := NewFeedbackUseCase(repo, interviews, &fakeAI{}, nil, "feedback-model", testLogger())

	// A different recruiter must not be able to delete the row.
	if err := uc.Delete(ctx, "owner-2", "fb-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("cross-owner delete: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.FindByID(ctx, "fb-1"); err != nil {
		t.Fatalf("row must survive a cross-owner delete: %v", err)
	}

	if err := uc.Delete(ctx, "owner-1", "fb-1"); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, "fb-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("row should be gone, got %v", err)
	}
}

func TestFindByCandidateValidatesArgs(t *testing.T) {
	uc := NewFeedbackUseCase(newMemFeedbackRepo(), newMemInterviewRepo(), &fakeAI{}, nil, "feedback-model", testLogger())
	if _, err := uc.FindByCandidate(context.Background(), "", "a@b.c"); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := uc.FindByCandidate(context.Background(), "tok", ""); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
