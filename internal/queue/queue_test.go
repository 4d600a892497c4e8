package queue

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr := miniredis.RunT(t)

	// unique name per test, adapters are cached by name
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", redis.Config{Addr: mr.Addr()}.Options())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(connName) })

	return mr, adapter
}

func testConfig(name string) QueueConfig {
	return QueueConfig{
		Name:              name,
		ConsumerGroup:     "test-group",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      50 * time.Millisecond,
		BatchSize:         10,
	}
}

func TestNewQueue_RequiresName(t *testing.T) {
	_, adapter := setupTestRedis(t)

	_, err := NewQueue(adapter, QueueConfig{})
	assert.Error(t, err)
}

func TestNewQueue_Defaults(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, QueueConfig{Name: "test:defaults"})
	require.NoError(t, err)
	defer q.Stop(time.Second)

	cfg := q.Config()
	assert.Equal(t, "default-group", cfg.ConsumerGroup)
	assert.NotEmpty(t, cfg.ConsumerName)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.VisibilityTimeout)
	assert.Equal(t, int64(10), cfg.BatchSize)
	assert.Equal(t, "test:defaults:dlq", cfg.DLQName())
}

func TestNewQueue_ExistingGroupIsReused(t *testing.T) {
	_, adapter := setupTestRedis(t)

	first, err := NewQueue(adapter, testConfig("test:group"))
	require.NoError(t, err)
	defer first.Stop(time.Second)

	second, err := NewQueue(adapter, testConfig("test:group"))
	require.NoError(t, err)
	defer second.Stop(time.Second)
}

func TestQueue_PublishAndConsume(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:queue"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	before := time.Now().Add(-time.Second)
	_, err = q.PublishJSON(context.Background(), map[string]string{"key": "value"}, map[string]string{"type": "test"})
	require.NoError(t, err)

	received := make(chan *Message, 1)
	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		received <- msg
		return nil
	}))

	select {
	case msg := <-received:
		var data map[string]string
		require.NoError(t, json.Unmarshal(msg.Data, &data))
		assert.Equal(t, "value", data["key"])
		assert.Equal(t, "test", msg.Metadata["type"])
		assert.Zero(t, msg.Attempts)
		assert.True(t, msg.Timestamp.After(before))
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	assert.Eventually(t, func() bool {
		stats, err := q.GetStats(context.Background())
		return err == nil && stats.PendingMessages == 0
	}, 2*time.Second, 50*time.Millisecond)
}

func TestQueue_ConsumeRequiresHandler(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:nohandler"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	assert.Error(t, q.Consume(nil))
}

func TestQueue_FailedMessageStaysPending(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:pending"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	_, err = q.PublishJSON(context.Background(), map[string]string{"test": "retry"}, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		calls.Add(1)
		return assert.AnError
	}))

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 20*time.Millisecond)

	stats, err := q.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.PendingMessages)
}

func TestQueue_ExhaustedMessageMovesToDLQ(t *testing.T) {
	_, adapter := setupTestRedis(t)

	cfg := testConfig("test:dlq")
	cfg.MaxRetries = 2
	cfg.VisibilityTimeout = 100 * time.Millisecond
	cfg.EnableDLQ = true

	q, err := NewQueue(adapter, cfg)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	_, err = q.Publish(context.Background(), []byte(`{"n":1}`), map[string]string{"contact_id": "abc"})
	require.NoError(t, err)

	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		return assert.AnError
	}))

	assert.Eventually(t, func() bool {
		n, err := adapter.XLen(context.Background(), cfg.DLQName())
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)
}

func TestQueue_PublishTrimsStream(t *testing.T) {
	_, adapter := setupTestRedis(t)

	cfg := testConfig("test:trim")
	cfg.MaxLen = 5
	q, err := NewQueue(adapter, cfg)
	require.NoError(t, err)
	defer q.Stop(time.Second)

	for i := 0; i < 20; i++ {
		_, err := q.PublishJSON(context.Background(), map[string]int{"count": i}, nil)
		require.NoError(t, err)
	}

	stats, err := q.GetStats(context.Background())
	require.NoError(t, err)
	assert.LessOrEqual(t, stats.TotalMessages, int64(20))
	assert.GreaterOrEqual(t, stats.TotalMessages, int64(5))
}

func TestQueue_ConcurrentPublish(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:concurrent"))
	require.NoError(t, err)
	defer q.Stop(time.Second)

	const publishers = 10
	var wg sync.WaitGroup
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := q.PublishJSON(context.Background(), map[string]int{"id": id}, nil)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	stats, err := q.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(publishers), stats.TotalMessages)
}

func TestQueue_Stop(t *testing.T) {
	_, adapter := setupTestRedis(t)

	q, err := NewQueue(adapter, testConfig("test:stop"))
	require.NoError(t, err)

	require.NoError(t, q.Consume(func(ctx context.Context, msg *Message) error {
		time.Sleep(100 * time.Millisecond)
		return nil
	}))

	assert.NoError(t, q.Stop(2*time.Second))
}
