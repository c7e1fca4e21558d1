package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps sessions as JSON in Redis so they survive restarts.
// The per-user lock is process-local; run a single bot instance per token.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	locks  *keyedMutex
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl, locks: newKeyedMutex()}
}

// DialRedis parses url and checks the connection.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func sessionKey(userID int64) string {
	return fmt.Sprintf("wageflow:session:%d", userID)
}

func (r *RedisStore) With(ctx context.Context, userID int64, fn func(*Session) error) error {
	unlock := r.locks.lock(userID)
	defer unlock()

	sess, err := r.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := fn(sess); err != nil {
		return err
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(userID), data, r.ttl).Err()
}

func (r *RedisStore) load(ctx context.Context, userID int64) (*Session, error) {
	val, err := r.client.Get(ctx, sessionKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		// A corrupt entry only loses the in-progress flow.
		return New(), nil
	}
	if sess.State == "" {
		sess.State = Idle
	}
	return &sess, nil
}
