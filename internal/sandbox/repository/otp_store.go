package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// OTPStore keeps one outstanding code per target.
type OTPStore interface {
	Save(ctx context.Context, target, code string, ttl time.Duration) error
	// Consume reports whether code matches, removing it on success.
	Consume(ctx context.Context, target, code string) (bool, error)
}

type RedisOTPStore struct {
	client *redis.Client
}

func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(target string) string {
	return fmt.Sprintf("otp:%s", target)
}

func (s *RedisOTPStore) Save(ctx context.Context, target, code string, ttl time.Duration) error {
	return s.client.Set(ctx, otpKey(target), code, ttl).Err()
}

func (s *RedisOTPStore) Consume(ctx context.Context, target, code string) (bool, error) {
	key := otpKey(target)
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if value != code {
		return false, nil
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return false, err
	}
	return true, nil
}

type otpEntry struct {
	code    string
	expires time.Time
}

type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]otpEntry
	now   func() time.Time
}

func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]otpEntry), now: time.Now}
}

func (s *MemoryOTPStore) Save(_ context.Context, target, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[target] = otpEntry{code: code, expires: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Consume(_ context.Context, target, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.codes[target]
	if !ok {
		return false, nil
	}
	if s.now().After(entry.expires) {
		delete(s.codes, target)
		return false, nil
	}
	if entry.code != code {
		return false, nil
	}
	delete(s.codes, target)
	return true, nil
}
