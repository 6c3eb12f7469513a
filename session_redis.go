package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/kennychae/vertex-ai-search-agent/config"
)

const redisSessionPrefix = "vsa:sess:"

// RedisSessionStore persists sessions in Redis.
// Data model:
//   - redisSessionPrefix + id     => JSON(Session) with TTL
//   - redisSessionPrefix + "idx"  => ZSET of ids scored by last update
type RedisSessionStore struct {
	rdb       *redis.Client
	ttl       time.Duration
	maxRounds int
}

func NewRedisSessionStore(cfg *config.SessionConfig) (*RedisSessionStore, error) {
	if cfg.Redis.Addr == "" {
		return nil, fmt.Errorf("redis session store requires an address")
	}
	ttl := time.Duration(cfg.TTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	maxRounds := cfg.MaxRounds
	if maxRounds <= 0 {
		maxRounds = 10
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Username: cfg.Redis.Username,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	return &RedisSessionStore{rdb: rdb, ttl: ttl, maxRounds: maxRounds}, nil
}

func (s *RedisSessionStore) idxKey() string           { return redisSessionPrefix + "idx" }
func (s *RedisSessionStore) sessKey(id string) string { return redisSessionPrefix + id }

func (s *RedisSessionStore) save(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session failed, err: %w", err)
	}
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, s.sessKey(sess.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.idxKey(), &redis.Z{Score: float64(sess.UpdatedAt.Unix()), Member: sess.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session failed, err: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) Create(ctx context.Context) (*Session, error) {
	now := time.Now()
	sess := &Session{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now, Rounds: []Round{}}
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisSessionStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.rdb.Get(ctx, s.sessKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		// clear any stale index entry
		s.rdb.ZRem(ctx, s.idxKey(), id)
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session failed, err: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session failed, err: %w", err)
	}
	return &sess, nil
}

func (s *RedisSessionStore) AppendRound(ctx context.Context, id string, round Round) error {
	sess, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if round.Timestamp.IsZero() {
		round.Timestamp = time.Now()
	}
	sess.Rounds = append(sess.Rounds, round)
	if len(sess.Rounds) > s.maxRounds {
		sess.Rounds = sess.Rounds[len(sess.Rounds)-s.maxRounds:]
	}
	sess.UpdatedAt = time.Now()
	return s.save(ctx, sess)
}

func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	pipe := s.rdb.TxPipeline()
	del := pipe.Del(ctx, s.sessKey(id))
	pipe.ZRem(ctx, s.idxKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete session failed, err: %w", err)
	}
	if del.Val() == 0 {
		return ErrSessionNotFound
	}
	return nil
}

func (s *RedisSessionStore) List(ctx context.Context, limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = 100
	}
	ids, err := s.rdb.ZRevRange(ctx, s.idxKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions failed, err: %w", err)
	}

	out := make([]*Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if errors.Is(err, ErrSessionNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, nil
}

// Close releases the underlying redis connection pool.
func (s *RedisSessionStore) Close() error {
	return s.rdb.Close()
}
