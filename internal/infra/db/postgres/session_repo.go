package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"ai-interview-platform/internal/domain"
	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/metrics"
)

var _ repository.SessionRepository = (*SessionRepo)(nil)

// SessionRepo persists finished sessions. Upsert on id: the engine saves
// once on termination, but retried webhook deliveries must stay harmless.
type SessionRepo struct {
	pool *pgxpool.Pool
}

func NewSessionRepo(pool *pgxpool.Pool) *SessionRepo {
	return &SessionRepo{pool: pool}
}

func (r *SessionRepo) Save(ctx context.Context, s *model.Session) error {
	defer metrics.ObserveQuery("sessions.save")()

	transcript, err := json.Marshal(s.Transcript)
	if err != nil {
		return fmt.Errorf("marshal transcript: %w", err)
	}
	var startedAt interface{}
	if !s.StartedAt.IsZero() {
		startedAt = s.StartedAt
	}

	const q = `
INSERT INTO sessions (id, interview_token, candidate_name, candidate_email, state, route, call_id,
  started_at, elapsed_seconds, transcript, empty_transcript, failure_reason, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,COALESCE($13,NOW()),COALESCE($14,NOW()))
ON CONFLICT (id) DO UPDATE SET
  state = EXCLUDED.state,
  route = EXCLUDED.route,
  elapsed_seconds = EXCLUDED.elapsed_seconds,
  transcript = EXCLUDED.transcript,
  empty_transcript = EXCLUDED.empty_transcript,
  failure_reason = EXCLUDED.failure_reason,
  updated_at = EXCLUDED.updated_at;`
	_, err = r.pool.Exec(ctx, q,
		s.ID, s.InterviewToken, s.CandidateName, s.CandidateEmail, string(s.State), string(s.Route), s.CallID,
		startedAt, s.ElapsedSeconds, transcript, s.EmptyTranscript, s.FailureReason, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	defer metrics.ObserveQuery("sessions.find_by_id")()

	const q = sessionSelect + ` WHERE id = $1;`
	s, err := scanSession(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	return s, nil
}

func (r *SessionRepo) FindAllByInterview(ctx context.Context, interviewToken string) ([]*model.Session, error) {
	defer metrics.ObserveQuery("sessions.find_all_by_interview")()

	const q = sessionSelect + ` WHERE interview_token = $1 ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, interviewToken)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

const sessionSelect = `
SELECT id, interview_token, candidate_name, candidate_email, state, route, call_id,
  started_at, elapsed_seconds, transcript, empty_transcript, failure_reason, created_at, updated_at
FROM sessions`

func scanSession(row rowScanner) (*model.Session, error) {
	var (
		s          model.Session
		state      string
		route      string
		startedAt  sql.NullTime
		transcript []byte
	)
	if err := row.Scan(&s.ID, &s.InterviewToken, &s.CandidateName, &s.CandidateEmail, &state, &route, &s.CallID,
		&startedAt, &s.ElapsedSeconds, &transcript, &s.EmptyTranscript, &s.FailureReason, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.State = model.SessionState(state)
	s.Route = model.Route(route)
	if startedAt.Valid {
		s.StartedAt = startedAt.Time
	} else {
		s.StartedAt = time.Time{}
	}
	if err := json.Unmarshal(transcript, &s.Transcript); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	return &s, nil
}
