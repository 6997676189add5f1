package verification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"centime/internal/services/transaction"

	"github.com/redis/go-redis/v9"
)

const (
	tokenKeyPrefix    = "verify:token:"
	attemptsKeyPrefix = "verify:attempts:"
)

// RedisStore keeps pending verifications in Redis so every service replica
// sees the same records and TTL expiry reclaims them without a sweeper.
// Consume relies on GETDEL for exactly-once semantics.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, pv *transaction.PendingVerification, ttl time.Duration) error {
	data, err := json.Marshal(pv)
	if err != nil {
		return fmt.Errorf("failed to marshal pending verification: %w", err)
	}
	return s.client.Set(ctx, tokenKeyPrefix+pv.Token, data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, token string) (*transaction.PendingVerification, error) {
	data, err := s.client.Get(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var pv transaction.PendingVerification
	if err := json.Unmarshal(data, &pv); err != nil {
		return nil, err
	}
	return &pv, nil
}

func (s *RedisStore) Consume(ctx context.Context, token string) (*transaction.PendingVerification, error) {
	data, err := s.client.GetDel(ctx, tokenKeyPrefix+token).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	s.client.Del(ctx, attemptsKeyPrefix+token)

	var pv transaction.PendingVerification
	if err := json.Unmarshal(data, &pv); err != nil {
		return nil, err
	}
	return &pv, nil
}

func (s *RedisStore) Fail(ctx context.Context, token string) (int, error) {
	key := attemptsKeyPrefix + token
	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// Attempts must not outlive the token itself.
	s.client.Expire(ctx, key, transaction.VerificationTTL*time.Minute)
	return int(n), nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tokenKeyPrefix+token, attemptsKeyPrefix+token).Err()
}
