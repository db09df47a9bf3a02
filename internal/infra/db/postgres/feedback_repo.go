package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/metrics"
)

var _ repository.FeedbackRepository = (*FeedbackRepo)(nil)

type FeedbackRepo struct {
	pool *pgxpool.Pool
}

func NewFeedbackRepo(pool *pgxpool.Pool) *FeedbackRepo {
	return &FeedbackRepo{pool: pool}
}

const feedbackColumns = `
id, interview_token, candidate_name, candidate_email,
technical_skills, communication, problem_solving, experience,
summary, recommendation, recommendation_msg, created_at`

func (r *FeedbackRepo) Save(ctx context.Context, fb *model.Feedback) error {
	defer metrics.ObserveQuery("feedback.save")()

	const q = `
INSERT INTO feedback (id, interview_token, candidate_name, candidate_email,
  technical_skills, communication, problem_solving, experience,
  summary, recommendation, recommendation_msg, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,COALESCE($12,NOW()));`
	_, err := r.pool.Exec(ctx, q,
		fb.ID, fb.InterviewToken, fb.CandidateName, fb.CandidateEmail,
		fb.Ratings.TechnicalSkills, fb.Ratings.Communication, fb.Ratings.ProblemSolving, fb.Ratings.Experience,
		fb.Summary, string(fb.Recommendation), fb.RecommendationMsg, fb.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save feedback: %w", err)
	}
	return nil
}

func (r *FeedbackRepo) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	defer metrics.ObserveQuery("feedback.find_by_id")()

	q := `SELECT ` + feedbackColumns + ` FROM feedback WHERE id = $1;`
	return r.one(ctx, q, id)
}

func (r *FeedbackRepo) FindByCandidate(ctx context.Context, interviewToken, candidateEmail string) (*model.Feedback, error) {
	defer metrics.ObserveQuery("feedback.find_by_candidate")()

	q := `SELECT ` + feedbackColumns + ` FROM feedback WHERE interview_token = $1 AND candidate_email = $2;`
	return r.one(ctx, q, interviewToken, candidateEmail)
}

func (r *FeedbackRepo) FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Feedback, error) {
	defer metrics.ObserveQuery("feedback.find_all_by_interview")()

	q := `SELECT ` + feedbackColumns + ` FROM feedback WHERE interview_token = $1 ORDER BY created_at DESC;`
	return r.many(ctx, q, interviewToken)
}

func (r *FeedbackRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Feedback, error) {
	defer metrics.ObserveQuery("feedback.find_all_by_owner")()

	q := `
SELECT ` + feedbackColumns + `
FROM feedback
WHERE interview_token IN (SELECT token FROM interviews WHERE owner_id = $1)
ORDER BY created_at DESC;`
	return r.many(ctx, q, ownerID)
}

func (r *FeedbackRepo) Delete(ctx context.Context, id string) error {
	defer metrics.ObserveQuery("feedback.delete")()

	const q = `DELETE FROM feedback WHERE id = $1;`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FeedbackRepo) one(ctx context.Context, q string, args ...interface{}) (*model.Feedback, error) {
	fb, err := scanFeedback(r.pool.QueryRow(ctx, q, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find feedback: %w", err)
	}
	return fb, nil
}

func (r *FeedbackRepo) many(ctx context.Context, q string, args ...interface{}) ([]*model.Feedback, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var out []*model.Feedback
	for rows.Next() {
		fb, err := scanFeedback(rows)
		if err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		out = append(out, fb)
	}
	return out, rows.Err()
}

func scanFeedback(row rowScanner) (*model.Feedback, error) {
	var (
		fb  model.Feedback
		rec string
	)
	if err := row.Scan(&fb.ID, &fb.InterviewToken, &fb.CandidateName, &fb.CandidateEmail,
		&fb.Ratings.TechnicalSkills, &fb.Ratings.Communication, &fb.Ratings.ProblemSolving, &fb.Ratings.Experience,
		&fb.Summary, &rec, &fb.RecommendationMsg, &fb.CreatedAt); err != nil {
		return nil, err
	}
	fb.Recommendation = model.NormalizeRecommendation(rec)
	return &fb, nil
}
