package processor

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/redis"
)

var (
	ErrAlreadyDelivered   = errors.New("notification already delivered")
	ErrLockAcquireFailed  = errors.New("failed to acquire delivery lock")
	ErrMaxRetriesExceeded = errors.New("maximum delivery attempts exceeded")
)

type IdempotencyConfig struct {
	LockTTL time.Duration
	// DeliveredTTL bounds how long a delivered marker (and a retry counter)
	// is remembered.
	DeliveredTTL time.Duration
	MaxRetries   int

	RetryKeyPrefix     string
	LockKeyPrefix      string
	DeliveredKeyPrefix string
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		LockTTL:            30 * time.Second,
		DeliveredTTL:       24 * time.Hour,
		MaxRetries:         5,
		RetryKeyPrefix:     "notify:retry:",
		LockKeyPrefix:      "notify:lock:",
		DeliveredKeyPrefix: "notify:delivered:",
	}
}

// IdempotencyService keeps a contact from being announced twice when the
// same stream entry is delivered to more than one consumer.
type IdempotencyService struct {
	redis  redis.RedisAdapter
	config IdempotencyConfig
}

func NewIdempotencyService(redisAdapter redis.RedisAdapter, config IdempotencyConfig) *IdempotencyService {
	return &IdempotencyService{
		redis:  redisAdapter,
		config: config,
	}
}

type DeliveryAttempt struct {
	Key          string
	RetryCount   int
	IsRetry      bool
	lockAcquired bool
}

func (s *IdempotencyService) Acquire(ctx context.Context, key string) (*DeliveryAttempt, error) {
	exists, err := s.redis.Exist(ctx, s.config.DeliveredKeyPrefix+key)
	if err != nil {
		// a duplicate announcement beats a lost one
		logger.Warn("failed to check delivered marker", "key", key, "error", err)
	} else if exists > 0 {
		return nil, ErrAlreadyDelivered
	}

	retryCount, err := s.RetryCount(ctx, key)
	if err != nil {
		logger.Warn("failed to read retry counter", "key", key, "error", err)
	}

	if retryCount >= s.config.MaxRetries {
		return nil, fmt.Errorf("%w: key=%s, retries=%d", ErrMaxRetriesExceeded, key, retryCount)
	}

	lockValue := []byte(strconv.FormatInt(time.Now().UnixNano(), 10))
	acquired, err := s.redis.SetNX(ctx, s.config.LockKeyPrefix+key, lockValue, s.config.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)
	}
	if !acquired {
		return nil, ErrLockAcquireFailed
	}

	logger.Debug("delivery lock acquired", "key", key, "retry_count", retryCount)

	return &DeliveryAttempt{
		Key:          key,
		RetryCount:   retryCount,
		IsRetry:      retryCount > 0,
		lockAcquired: true,
	}, nil
}

func (s *IdempotencyService) MarkSuccess(ctx context.Context, a *DeliveryAttempt) error {
	if err := s.redis.Set(ctx, s.config.DeliveredKeyPrefix+a.Key, []byte("1"), s.config.DeliveredTTL); err != nil {
		return fmt.Errorf("failed to set delivered marker: %w", err)
	}

	s.del(ctx, s.config.LockKeyPrefix+a.Key)
	s.del(ctx, s.config.RetryKeyPrefix+a.Key)
	a.lockAcquired = false

	return nil
}

func (s *IdempotencyService) MarkFailure(ctx context.Context, a *DeliveryAttempt, reason error) error {
	next := a.RetryCount + 1
	err := s.redis.Set(ctx, s.config.RetryKeyPrefix+a.Key, []byte(strconv.Itoa(next)), s.config.DeliveredTTL)

	s.del(ctx, s.config.LockKeyPrefix+a.Key)
	a.lockAcquired = false

	logger.Warn("notification delivery failed",
		"key", a.Key,
		"retry_count", next,
		"max_retries", s.config.MaxRetries,
		"reason", reason)

	if err != nil {
		return fmt.Errorf("failed to bump retry counter: %w", err)
	}
	return nil
}

// Release drops the lock of an attempt that was neither marked successful
// nor failed.
func (s *IdempotencyService) Release(ctx context.Context, a *DeliveryAttempt) {
	if a == nil || !a.lockAcquired {
		return
	}
	s.del(ctx, s.config.LockKeyPrefix+a.Key)
	a.lockAcquired = false
}

func (s *IdempotencyService) RetryCount(ctx context.Context, key string) (int, error) {
	raw, err := s.redis.Get(ctx, s.config.RetryKeyPrefix+key)
	if err != nil {
		if errors.Is(err, redis.NilError) {
			return 0, nil
		}
		return 0, err
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil {
		return 0, fmt.Errorf("corrupt retry counter %q: %w", raw, err)
	}
	return n, nil
}

func (s *IdempotencyService) IsDelivered(ctx context.Context, key string) (bool, error) {
	exists, err := s.redis.Exist(ctx, s.config.DeliveredKeyPrefix+key)
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *IdempotencyService) del(ctx context.Context, key string) {
	if err := s.redis.Del(ctx, key); err != nil {
		logger.Warn("failed to delete key", "key", key, "error", err)
	}
}
