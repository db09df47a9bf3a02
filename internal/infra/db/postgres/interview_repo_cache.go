package postgres

import (
	"context"
	"encoding/json"
	"time"

	"ai-interview-platform/internal/domain/model"
	"ai-interview-platform/internal/domain/ports/repository"
	"ai-interview-platform/internal/infra/metrics"
	red "ai-interview-platform/internal/infra/redis"
)

var _ repository.InterviewRepository = (*interviewRepoCacheDecorator)(nil)

// interviewRepoCacheDecorator caches token lookups: the join page and the
// webhook path both resolve interviews by token for every candidate.
// Write paths invalidate; owner-scoped reads go straight through.
type interviewRepoCacheDecorator struct {
	inner repository.InterviewRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewInterviewRepoCacheDecorator(inner repository.InterviewRepository, cache red.RedisClient) repository.InterviewRepository {
	return &interviewRepoCacheDecorator{
		inner: inner,
		cache: cache,
		ttl:   15 * time.Minute,
	}
}

func interviewKey(token string) string { return "interview:" + token }

func (d *interviewRepoCacheDecorator) FindByToken(ctx context.Context, token string) (*model.Interview, error) {
	data, err := d.cache.Get(ctx, interviewKey(token))
	switch {
	case err == nil:
		var iv model.Interview
		if uerr := json.Unmarshal([]byte(data), &iv); uerr == nil {
			metrics.IncCacheHit("interview")
			return &iv, nil
		}
		// Corrupt entry: treat as a miss and let the write below repair it.
		metrics.IncCacheMiss("interview")
	case red.IsCacheMiss(err):
		metrics.IncCacheMiss("interview")
	default:
		// Transport failure: neither hit nor miss, fall through to the store.
	}

	iv, err := d.inner.FindByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(iv); err == nil {
		_ = d.cache.Set(ctx, interviewKey(token), data, d.ttl)
	}
	return iv, nil
}

func (d *interviewRepoCacheDecorator) Save(ctx context.Context, iv *model.Interview) error {
	if err := d.inner.Save(ctx, iv); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, interviewKey(iv.Token))
	return nil
}

func (d *interviewRepoCacheDecorator) Delete(ctx context.Context, ownerID, token string) error {
	if err := d.inner.Delete(ctx, ownerID, token); err != nil {
		return err
	}
	_ = d.cache.Del(ctx, interviewKey(token))
	return nil
}

func (d *interviewRepoCacheDecorator) FindAllByOwner(ctx context.Context, ownerID string) ([]*model.Interview, error) {
	return d.inner.FindAllByOwner(ctx, ownerID)
}

func (d *interviewRepoCacheDecorator) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	return d.inner.CountByOwner(ctx, ownerID)
}
