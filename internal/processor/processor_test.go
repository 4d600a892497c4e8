package processor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/queue"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessorService_StartRequiresProcessor(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "", redis.Config{Addr: mr.Addr()}.Options())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(t.Name()) })

	s := NewProcessorService(adapter, Config{Queue: queue.QueueConfig{Name: "contact:notifications"}})
	assert.Error(t, s.Start())
}

func TestProcessorService_DeliversQueuedNotifications(t *testing.T) {
	mr := miniredis.RunT(t)
	adapter, err := redis.NewRedisAdapter(t.Name(), "site:", redis.Config{Addr: mr.Addr()}.Options())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redis.Close(t.Name()) })

	queueConfig := queue.QueueConfig{
		Name:          "contact:notifications",
		ConsumerGroup: "notifier",
		ConsumerName:  "test",
		PollInterval:  20 * time.Millisecond,
	}

	sender := &fakeSender{}
	s := NewProcessorService(adapter, Config{Queue: queueConfig, Consumers: 2, Workers: 2})
	s.RegisterProcessor(NewNotificationProcessor(sender, NewIdempotencyService(adapter, DefaultIdempotencyConfig())))
	require.NoError(t, s.Start())

	publisher, err := queue.NewQueue(adapter, queueConfig)
	require.NoError(t, err)
	defer publisher.Stop(time.Second)

	for i := 0; i < 3; i++ {
		_, err := publisher.PublishJSON(context.Background(), model.ContactNotification{ContactID: uuid.New(), Name: "김철수"}, nil)
		require.NoError(t, err)
	}

	assert.Eventually(t, func() bool { return sender.calls() == 3 }, 3*time.Second, 20*time.Millisecond)
	assert.True(t, s.performHealthCheck(context.Background()))

	s.Stop()
	assert.Equal(t, int64(3), s.Metrics().Snapshot().Delivered)
}

func TestServiceMetrics_Snapshot(t *testing.T) {
	m := NewServiceMetrics()
	m.RecordSuccess(20 * time.Millisecond)
	m.RecordSuccess(40 * time.Millisecond)
	m.RecordFailure()

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Delivered)
	assert.Equal(t, int64(1), s.Failed)
	assert.Equal(t, 30*time.Millisecond, s.AvgDuration)

	m.Reset()
	assert.Zero(t, m.Snapshot().Delivered)
}
