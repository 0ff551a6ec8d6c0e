package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPassReports = "dedup:reports:%s"

// implements Store as one capped JSON list per pass
type RedisStore struct {
	client     *redis.Client
	maxPerPass int
	ttl        time.Duration
}

// creates a new Redis-backed report store
func NewRedisStore(client *redis.Client, maxPerPass int, ttl time.Duration) *RedisStore {
	if maxPerPass <= 0 {
		maxPerPass = DefaultMaxPerPass
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisStore{client: client, maxPerPass: maxPerPass, ttl: ttl}
}

// creates a new Redis-backed report store from a URL
func NewRedisStoreFromURL(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStore(client, 0, 0), nil
}

// pushes the report onto the pass list, trimming it and refreshing its TTL
func (s *RedisStore) Save(ctx context.Context, report *Report) error {
	if err := report.validate(); err != nil {
		return err
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	key := fmt.Sprintf(keyPassReports, report.PassID)

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.maxPerPass-1))
	pipe.Expire(ctx, key, s.ttl)

	_, err = pipe.Exec(ctx)
	return err
}

// returns the newest reports of a pass
func (s *RedisStore) ListByPass(ctx context.Context, passID string, limit int) ([]*Report, error) {
	limit = normalizeLimit(limit, s.maxPerPass)
	key := fmt.Sprintf(keyPassReports, passID)

	items, err := s.client.LRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load reports: %w", err)
	}

	out := make([]*Report, 0, len(items))
	for _, item := range items {
		var r Report
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("failed to decode report: %w", err)
		}
		out = append(out, &r)
	}

	return out, nil
}

// removes the report list of a pass
func (s *RedisStore) DeleteByPass(ctx context.Context, passID string) error {
	return s.client.Del(ctx, fmt.Sprintf(keyPassReports, passID)).Err()
}

// closes the redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// returns the underlying client so other components can share the connection
func (s *RedisStore) Client() *redis.Client {
	return s.client
}
