package otp

import (
	"context"
	"strconv"

	"github.com/go-redis/redis/v8"
)

type RedisStore struct {
	rdb redis.Cmdable
}

func NewRedisStore(rdb redis.Cmdable) *RedisStore {
	return &RedisStore{rdb: rdb}
}

var _ Store = (*RedisStore)(nil)

func codeKey(email string) string     { return "otp:reset:" + email }
func cooldownKey(email string) string { return "otp:cooldown:" + email }

func (s *RedisStore) Issue(ctx context.Context, email, code string) error {
	ok, err := s.rdb.SetNX(ctx, cooldownKey(email), 1, Cooldown).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrCooldown
	}

	key := codeKey(email)
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, "code", code, "attempts", 0)
		p.Expire(ctx, key, CodeTTL)
		return nil
	})
	return err
}

func (s *RedisStore) Revoke(ctx context.Context, email string) error {
	return s.rdb.Del(ctx, codeKey(email), cooldownKey(email)).Err()
}

func (s *RedisStore) Verify(ctx context.Context, email, code string) error {
	key := codeKey(email)

	vals, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return err
	}
	if len(vals) == 0 || vals["code"] == "" {
		return ErrInvalid
	}

	attempts, _ := strconv.Atoi(vals["attempts"])
	if attempts >= MaxAttempts {
		s.rdb.Del(ctx, key)
		return ErrAttemptsExceeded
	}

	if !sameCode(code, vals["code"]) {
		n, err := s.rdb.HIncrBy(ctx, key, "attempts", 1).Result()
		if err != nil {
			return err
		}
		if n >= MaxAttempts {
			s.rdb.Del(ctx, key)
			return ErrAttemptsExceeded
		}
		return ErrInvalid
	}

	return s.rdb.Del(ctx, key).Err()
}
