package postgres

import (
	"context"
	"encoding/json"
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

var _ repository.InterviewRepository = (*InterviewRepo)(nil)

type InterviewRepo struct {
	pool *pgxpool.Pool
}

func NewInterviewRepo(pool *pgxpool.Pool) *InterviewRepo {
	return &InterviewRepo{pool: pool}
}

const uniqueViolation = "23505"

func (r *InterviewRepo) Save(ctx context.Context, iv *model.Interview) error {
	defer metrics.ObserveQuery("interviews.save")()

	types, err := json.Marshal(iv.Types)
	if err != nil {
		return fmt.Errorf("marshal types: %w", err)
	}
	questions, err := json.Marshal(iv.Questions)
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}

	const q = `
INSERT INTO interviews (id, token, owner_id, job_position, job_description, duration, types, questions, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,COALESCE($9,NOW()));`
	_, err = r.pool.Exec(ctx, q, iv.ID, iv.Token, iv.OwnerID, iv.JobPosition, iv.JobDescription, iv.Duration, types, questions, iv.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("save interview: %w", err)
	}
	return nil
}

func (r *InterviewRepo) FindByToken(ctx context.Context, token string) (*model.Interview, error) {
	defer metrics.ObserveQuery("interviews.find_by_token")()

	const q = `
SELECT id, token, owner_id, job_position, job_description, duration, types, questions, created_at
FROM interviews WHERE token = $1;`
	iv, err := scanInterview(r.pool.QueryRow(ctx, q, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find interview: %w", err)
	}
	return iv, nil
}

func (r *InterviewRepo) FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	defer metrics.ObserveQuery("interviews.find_all_by_owner")()

	const q = `
SELECT id, token, owner_id, job_position, job_description, duration, types, questions, created_at
FROM interviews WHERE owner_id = $1 ORDER BY created_at DESC;`
	rows, err := r.pool.Query(ctx, q, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list interviews: %w", err)
	}
	defer rows.Close()

	var out []*model.Interview
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan interview: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

func (r *InterviewRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	defer metrics.ObserveQuery("interviews.count_by_owner")()

	var n int
	const q = `SELECT COUNT(*) FROM interviews WHERE owner_id = $1;`
	if err := r.pool.QueryRow(ctx, q, ownerID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count interviews: %w", err)
	}
	return n, nil
}

func (r *InterviewRepo) Delete(ctx context.Context, ownerID, token string) error {
	defer metrics.ObserveQuery("interviews.delete")()

	const q = `DELETE FROM interviews WHERE owner_id = $1 AND token = $2;`
	tag, err := r.pool.Exec(ctx, q, ownerID, token)
	if err != nil {
		return fmt.Errorf("delete interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanInterview(row rowScanner) (*model.Interview, error) {
	var (
		iv        model.Interview
		types     []byte
		questions []byte
	)
	if err := row.Scan(&iv.ID, &iv.Token, &iv.OwnerID, &iv.JobPosition, &iv.JobDescription, &iv.Duration, &types, &questions, &iv.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(types, &iv.Types); err != nil {
		return nil, fmt.Errorf("unmarshal types: %w", err)
	}
	if err := json.Unmarshal(questions, &iv.Questions); err != nil {
		return nil, fmt.Errorf("unmarshal questions: %w", err)
	}
	return &iv, nil
}
