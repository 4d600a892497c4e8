package redis

import (
	"context"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// StreamMessage represents a message in Redis Stream
type StreamMessage struct {
	ID     string
	Values map[string]interface{}
}

type Config struct {
	Addr      string
	User      string
	Password  string
	Database  int
	KeyPrefix string
}

func (c Config) Options() *Options {
	return &Options{
		Addrs:    []string{c.Addr},
		Username: c.User,
		Password: c.Password,
		DB:       c.Database,
	}
}

type RedisAdapter interface {
	// Key operations
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exist(ctx context.Context, key string) (int64, error)
	Ping(ctx context.Context) error
	Client() goredis.UniversalClient

	// Stream operations
	XAdd(ctx context.Context, key string, values map[string]interface{}) (string, error)
	XReadGroup(ctx context.Context, group, consumer, key, id string, count int64) ([]StreamMessage, error)
	XAck(ctx context.Context, key, group string, ids ...string) error
	XGroupCreateMkStream(ctx context.Context, key, group, start string) error
	XLen(ctx context.Context, key string) (int64, error)
	XTrimApprox(ctx context.Context, key string, maxLen int64) error
	XPending(ctx context.Context, key, group string) (*goredis.XPending, error)
	XPendingExt(ctx context.Context, key, group string, start, end string, count int64) ([]goredis.XPendingExt, error)
	XClaim(ctx context.Context, key, group, consumer string, minIdle time.Duration, ids ...string) ([]StreamMessage, error)
}

type redisAdapter struct {
	prefix   string
	Conn     goredis.UniversalClient
	ConnName string
}

var redisLock = &sync.RWMutex{}
var redisInstance map[string]RedisAdapter

func NewRedisAdapter(connName string, keysPrefix string, opts *goredis.UniversalOptions) (RedisAdapter, error) {
	redisLock.RLock()
	if adapter, ok := redisInstance[connName]; ok {
		redisLock.RUnlock()
		return adapter, nil
	}
	redisLock.RUnlock()

	c := goredis.NewUniversalClient(opts)
	if err := c.Ping(context.Background()).Err(); err != nil {
		_ = c.Close()
		return nil, err
	}

	redisLock.Lock()
	defer redisLock.Unlock()
	if redisInstance == nil {
		redisInstance = make(map[string]RedisAdapter)
	}
	// lost a race with another caller for the same name
	if adapter, ok := redisInstance[connName]; ok {
		_ = c.Close()
		return adapter, nil
	}

	adapter := &redisAdapter{
		Conn:     c,
		prefix:   keysPrefix,
		ConnName: connName,
	}
	redisInstance[connName] = adapter

	return adapter, nil
}

func GetRedis(connName ...string) RedisAdapter {
	redisLock.RLock()
	defer redisLock.RUnlock()

	name := "default"
	if len(connName) > 0 && connName[0] != "" {
		name = connName[0]
	}

	if adapter, ok := redisInstance[name]; ok {
		return adapter
	}

	return redisInstance["default"]
}

// Close closes and forgets the named connection.
func Close(connName string) error {
	redisLock.Lock()
	adapter, ok := redisInstance[connName]
	delete(redisInstance, connName)
	redisLock.Unlock()

	if !ok {
		return nil
	}
	return adapter.Client().Close()
}

func (r *redisAdapter) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Conn.Set(ctx, r.prefix+key, value, ttl).Err()
}

func (r *redisAdapter) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	cmd := r.Conn.SetNX(ctx, r.prefix+key, value, ttl)
	if err := cmd.Err(); err != nil {
		return false, err
	}
	return cmd.Val(), nil
}

func (r *redisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	st := r.Conn.Get(ctx, r.prefix+key)
	if err := st.Err(); err != nil {
		return nil, err
	}
	return st.Bytes()
}

func (r *redisAdapter) Del(ctx context.Context, key string) error {
	return r.Conn.Del(ctx, r.prefix+key).Err()
}

func (r *redisAdapter) Exist(ctx context.Context, key string) (int64, error) {
	return r.Conn.Exists(ctx, r.prefix+key).Result()
}

func (r *redisAdapter) Ping(ctx context.Context) error {
	return r.Conn.Ping(ctx).Err()
}

func (r *redisAdapter) Client() goredis.UniversalClient {
	return r.Conn
}

func (r *redisAdapter) XAdd(ctx context.Context, key string, values map[string]interface{}) (string, error) {
	cmd := r.Conn.XAdd(ctx, &goredis.XAddArgs{
		Stream: r.prefix + key,
		ID:     "*",
		Values: values,
	})
	if cmd.Err() != nil {
		return "", cmd.Err()
	}
	return cmd.Val(), nil
}

// XReadGroup never blocks; an empty stream yields NilError.
func (r *redisAdapter) XReadGroup(ctx context.Context, group, consumer, key, id string, count int64) ([]StreamMessage, error) {
	streams := r.Conn.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{r.prefix + key, id},
		Count:    count,
		Block:    -1,
	})

	if streams.Err() != nil {
		return nil, streams.Err()
	}

	var messages []StreamMessage
	for _, stream := range streams.Val() {
		for _, msg := range stream.Messages {
			messages = append(messages, StreamMessage{
				ID:     msg.ID,
				Values: msg.Values,
			})
		}
	}
	return messages, nil
}

func (r *redisAdapter) XAck(ctx context.Context, key, group string, ids ...string) error {
	return r.Conn.XAck(ctx, r.prefix+key, group, ids...).Err()
}

func (r *redisAdapter) XGroupCreateMkStream(ctx context.Context, key, group, start string) error {
	return r.Conn.XGroupCreateMkStream(ctx, r.prefix+key, group, start).Err()
}

func (r *redisAdapter) XLen(ctx context.Context, key string) (int64, error) {
	return r.Conn.XLen(ctx, r.prefix+key).Result()
}

func (r *redisAdapter) XTrimApprox(ctx context.Context, key string, maxLen int64) error {
	return r.Conn.XTrimMaxLenApprox(ctx, r.prefix+key, maxLen, 0).Err()
}

func (r *redisAdapter) XPending(ctx context.Context, key, group string) (*goredis.XPending, error) {
	cmd := r.Conn.XPending(ctx, r.prefix+key, group)
	if cmd.Err() != nil {
		return nil, cmd.Err()
	}
	return cmd.Val(), nil
}

func (r *redisAdapter) XPendingExt(ctx context.Context, key, group string, start, end string, count int64) ([]goredis.XPendingExt, error) {
	cmd := r.Conn.XPendingExt(ctx, &goredis.XPendingExtArgs{
		Stream: r.prefix + key,
		Group:  group,
		Start:  start,
		End:    end,
		Count:  count,
	})
	if cmd.Err() != nil {
		return nil, cmd.Err()
	}
	return cmd.Val(), nil
}

func (r *redisAdapter) XClaim(ctx context.Context, key, group, consumer string, minIdle time.Duration, ids ...string) ([]StreamMessage, error) {
	cmd := r.Conn.XClaim(ctx, &goredis.XClaimArgs{
		Stream:   r.prefix + key,
		Group:    group,
		Consumer: consumer,
		MinIdle:  minIdle,
		Messages: ids,
	})

	if cmd.Err() != nil {
		return nil, cmd.Err()
	}

	var messages []StreamMessage
	for _, msg := range cmd.Val() {
		messages = append(messages, StreamMessage{
			ID:     msg.ID,
			Values: msg.Values,
		})
	}
	return messages, nil
}
