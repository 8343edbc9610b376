package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/go-redis/redis/v8"
)

// GenerateNumericOTP returns a random numeric code of the given length.
func GenerateNumericOTP(length int) (string, error) {
	if length <= 0 {
		length = 6
	}
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// RedisOTPStore keeps one pending OTP and an attempt counter per phone number.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore wraps a Redis client dedicated to OTPs.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(phone string) string      { return fmt.Sprintf("otp:%s", phone) }
func attemptsKey(phone string) string { return fmt.Sprintf("otp:attempts:%s", phone) }

// Save stores the code with a TTL and resets the attempt counter.
func (s *RedisOTPStore) Save(ctx context.Context, phone, code string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, otpKey(phone), code, ttl)
	pipe.Del(ctx, attemptsKey(phone))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to cache OTP: %w", err)
	}
	return nil
}

// Get returns the pending code, or "" when none exists or it expired.
func (s *RedisOTPStore) Get(ctx context.Context, phone string) (string, error) {
	code, err := s.client.Get(ctx, otpKey(phone)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	return code, nil
}

// IncrAttempts bumps the failed-attempt counter and returns the new value.
func (s *RedisOTPStore) IncrAttempts(ctx context.Context, phone string, ttl time.Duration) (int64, error) {
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, attemptsKey(phone))
	pipe.Expire(ctx, attemptsKey(phone), ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to count OTP attempt: %w", err)
	}
	return incr.Val(), nil
}

// Delete removes the code and its counter.
func (s *RedisOTPStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, otpKey(phone), attemptsKey(phone)).Err(); err != nil {
		return fmt.Errorf("failed to delete OTP: %w", err)
	}
	return nil
}
