package repo

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mincaai-cci-col/CCI-colombia-agent/internal/agent/session"
	errx "github.com/Mincaai-cci-col/CCI-colombia-agent/internal/core/error"
	logx "github.com/Mincaai-cci-col/CCI-colombia-agent/pkg/logger"
)

// SessionRepository persists one session record per WhatsApp user.
type SessionRepository interface {
	// Load returns the stored session, or (nil, nil) when none exists.
	Load(ctx context.Context, userID string) (*session.Session, error)
	Save(ctx context.Context, userID string, s *session.Session) error
	Delete(ctx context.Context, userID string) error
}

// RedisSessionRepository stores serialized session records under
// "<prefix>user:<id>" with a sliding TTL, falling back to an in-process
// store while Redis is unreachable. A key miss is not a failure and never
// reaches the fallback.
type RedisSessionRepository struct {
	rdb      redis.Cmdable
	ttl      time.Duration
	prefix   string
	fallback *memoryStore
}

func NewRedisSessionRepository(rdb redis.Cmdable, ttl time.Duration, prefix string) *RedisSessionRepository {
	return &RedisSessionRepository{
		rdb:      rdb,
		ttl:      ttl,
		prefix:   prefix,
		fallback: newMemoryStore(),
	}
}

func (r *RedisSessionRepository) sessionKey(userID string) string {
	return r.prefix + "user:" + userID
}

func (r *RedisSessionRepository) Load(ctx context.Context, userID string) (*session.Session, error) {
	key := r.sessionKey(userID)

	b, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load session from redis")
		if fb, ok := r.fallback.get(key); ok {
			logx.Warn().Str("key", key).Msg("serving session from in-process fallback")
			return session.Unmarshal(fb)
		}
		return nil, errx.WrapRedis(err)
	}

	s, err := session.Unmarshal(b)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to decode session record")
		return nil, err
	}
	return s, nil
}

func (r *RedisSessionRepository) Save(ctx context.Context, userID string, s *session.Session) error {
	key := r.sessionKey(userID)

	b, err := session.Marshal(s)
	if err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to encode session record")
		return err
	}

	if err := r.rdb.Set(ctx, key, b, r.ttl).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to save session to redis")
		r.fallback.set(key, b)
		logx.Warn().Str("key", key).Msg("session buffered in in-process fallback")
		return nil
	}

	// Redis holds the record again; drop any stale fallback copy so a
	// later outage cannot resurrect it.
	r.fallback.delete(key)
	return nil
}

func (r *RedisSessionRepository) Delete(ctx context.Context, userID string) error {
	key := r.sessionKey(userID)
	r.fallback.delete(key)
	if err := r.rdb.Del(ctx, key).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to delete session from redis")
		return errx.WrapRedis(err)
	}
	return nil
}

var _ SessionRepository = (*RedisSessionRepository)(nil)
