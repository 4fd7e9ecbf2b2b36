package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisService holds volatile sign-in state: OTP codes with TTL and the
// per-email send rate limit.
type RedisService struct {
	client *redis.Client
}

// NewRedisService creates a new Redis service
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{client: client}
}

// GenerateCode generates a 6-digit verification code
func (r *RedisService) GenerateCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	code := (int(bytes[0])<<16 | int(bytes[1])<<8 | int(bytes[2])) % 1000000
	return fmt.Sprintf("%06d", code), nil
}

// StoreCode stores an OTP code for an email with TTL-based expiry
func (r *RedisService) StoreCode(ctx context.Context, email, code string, expireMinutes int) error {
	key := otpKey(email)
	data := map[string]interface{}{
		"code":       code,
		"created_at": time.Now().Unix(),
	}

	if err := r.client.HSet(ctx, key, data).Err(); err != nil {
		return err
	}
	return r.client.Expire(ctx, key, time.Duration(expireMinutes)*time.Minute).Err()
}

// GetCode gets the stored OTP code for an email
func (r *RedisService) GetCode(ctx context.Context, email string) (string, error) {
	code, err := r.client.HGet(ctx, otpKey(email), "code").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: no code for %s", ErrInvalidCode, email)
		}
		return "", err
	}
	return code, nil
}

// DeleteCode removes the OTP code once used
func (r *RedisService) DeleteCode(ctx context.Context, email string) error {
	return r.client.Del(ctx, otpKey(email)).Err()
}

// SetRateLimit marks an email as recently served
func (r *RedisService) SetRateLimit(ctx context.Context, email string, limitMinutes int) error {
	return r.client.Set(ctx, rateKey(email), "1", time.Duration(limitMinutes)*time.Minute).Err()
}

// CheckRateLimit reports whether an email is still inside the send cooldown
func (r *RedisService) CheckRateLimit(ctx context.Context, email string) (bool, error) {
	exists, err := r.client.Exists(ctx, rateKey(email)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func otpKey(email string) string {
	return "otp_code:" + email
}

func rateKey(email string) string {
	return "otp_rate_limit:" + email
}
