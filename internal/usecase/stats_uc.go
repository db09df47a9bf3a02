package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/rs/zerolog"

	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/repository"
)

// Compile-time check
var _ StatsUseCase = (*statsUC)(nil)

// OwnerTotals is the dashboard summary for one recruiter.
type OwnerTotals struct {
	Interviews     int     `json:"interviews"`
	Feedback       int     `json:"feedback"`
	Recommended    int     `json:"recommended"`
	NotRecommended int     `json:"not_recommended"`
	AverageOverall float64 `json:"average_overall"`
}

type StatsUseCase interface {
	Totals(ctx context.Context, ownerID string) (*OwnerTotals, error)
	// ExportCSV streams every feedback row owned by the recruiter.
	ExportCSV(ctx context.Context, ownerID string, w io.Writer) error
}

type statsUC struct {
	interviews repository.InterviewRepository
	feedback   repository.FeedbackRepository
	log        *zerolog.Logger
}

func NewStatsUseCase(interviews repository.InterviewRepository, feedback repository.FeedbackRepository, logger *zerolog.Logger) *statsUC {
	return &statsUC{interviews: interviews, feedback: feedback, log: logger}
}

func (u *statsUC) Totals(ctx context.Context, ownerID string) (*OwnerTotals, error) {
	interviews, err := u.interviews.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	all, err := u.feedback.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	t := &OwnerTotals{Interviews: interviews, Feedback: len(all)}
	sum := 0
	for _, fb := range all {
		sum += fb.Overall()
		switch fb.Recommendation {
		case model.RecommendationHire:
			t.Recommended++
		case model.RecommendationDoNotHire:
			t.NotRecommended++
		}
	}
	if len(all) > 0 {
		t.AverageOverall = math.Round(float64(sum)/float64(len(all))*10) / 10
	}
	return t, nil
}

var csvHeader = []string{
	"interview_token", "candidate_name", "candidate_email",
	"technical_skills", "communication", "problem_solving", "experience",
	"overall", "recommendation", "created_at",
}

func (u *statsUC) ExportCSV(ctx context.Context, ownerID string, w io.Writer) error {
	all, err := u.feedback.FindAllByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, fb := range all {
		row := []string{
			fb.InterviewToken,
			fb.CandidateName,
			fb.CandidateEmail,
			strconv.Itoa(fb.Ratings.TechnicalSkills),
			strconv.Itoa(fb.Ratings.Communication),
			strconv.Itoa(fb.Ratings.ProblemSolving),
			strconv.Itoa(fb.Ratings.Experience),
			strconv.Itoa(fb.Overall()),
			string(fb.Recommendation),
			fb.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
