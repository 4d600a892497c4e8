package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/allinone-seolbi/site/pkg/redis"
)

const metaPrefix = "meta_"

type Message struct {
	ID        string
	Data      []byte
	Metadata  map[string]string
	Timestamp time.Time
	// Attempts counts earlier deliveries of this message to the group.
	Attempts int
}

// MessageHandler processes one message.
// Return values:
//   - nil: Success - message is acked
//   - error: Failure - message stays pending and is retried after the visibility timeout
type MessageHandler func(ctx context.Context, msg *Message) error

type QueueConfig struct {
	Name              string
	ConsumerGroup     string
	ConsumerName      string
	MaxRetries        int
	VisibilityTimeout time.Duration
	PollInterval      time.Duration
	BatchSize         int64
	MaxLen            int64
	EnableDLQ         bool
}

func (c QueueConfig) DLQName() string {
	return c.Name + ":dlq"
}

type Queue struct {
	adapter    redis.RedisAdapter
	config     QueueConfig
	handler    MessageHandler
	ctx        context.Context
	cancel     context.CancelFunc
	wg         sync.WaitGroup
	mu         sync.RWMutex
	processing map[string]*Message
}

type QueueStats struct {
	TotalMessages   int64
	PendingMessages int64
	ConsumerCount   int64
}

// NewQueue creates a new queue instance and its consumer group.
func NewQueue(adapter redis.RedisAdapter, config QueueConfig) (*Queue, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("queue name is required")
	}
	if config.ConsumerGroup == "" {
		config.ConsumerGroup = "default-group"
	}
	if config.ConsumerName == "" {
		config.ConsumerName = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.VisibilityTimeout == 0 {
		config.VisibilityTimeout = 30 * time.Second
	}
	if config.PollInterval == 0 {
		config.PollInterval = 1 * time.Second
	}
	if config.BatchSize == 0 {
		config.BatchSize = 10
	}

	ctx, cancel := context.WithCancel(context.Background())

	q := &Queue{
		adapter:    adapter,
		config:     config,
		ctx:        ctx,
		cancel:     cancel,
		processing: make(map[string]*Message),
	}

	if err := q.initConsumerGroup(); err != nil {
		cancel()
		return nil, err
	}

	return q, nil
}

func (q *Queue) initConsumerGroup() error {
	err := q.adapter.XGroupCreateMkStream(q.ctx, q.config.Name, q.config.ConsumerGroup, "0")
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("failed to create consumer group %s: %w", q.config.ConsumerGroup, err)
	}
	return nil
}

func (q *Queue) Config() QueueConfig {
	return q.config
}

// Publish adds a message to the queue
func (q *Queue) Publish(ctx context.Context, data []byte, metadata map[string]string) (string, error) {
	values := map[string]interface{}{
		"data":      string(data),
		"timestamp": time.Now().UnixMilli(),
	}

	for k, v := range metadata {
		values[metaPrefix+k] = v
	}

	id, err := q.adapter.XAdd(ctx, q.config.Name, values)
	if err != nil {
		return "", fmt.Errorf("failed to publish message: %w", err)
	}

	if q.config.MaxLen > 0 {
		if err := q.adapter.XTrimApprox(ctx, q.config.Name, q.config.MaxLen); err != nil {
			logger.Warn("failed to trim queue", "queue", q.config.Name, "error", err)
		}
	}

	return id, nil
}

// PublishJSON publishes a JSON-encoded message
func (q *Queue) PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return q.Publish(ctx, jsonData, metadata)
}

// Consume starts the polling loop in the background.
func (q *Queue) Consume(handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("message handler is required")
	}

	q.handler = handler
	q.wg.Add(1)

	go q.consumeLoop()

	return nil
}

func (q *Queue) consumeLoop() {
	defer q.wg.Done()

	ticker := time.NewTicker(q.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-q.ctx.Done():
			return
		case <-ticker.C:
			q.processMessages()
			q.claimStuckMessages()
		}
	}
}

func (q *Queue) processMessages() {
	messages, err := q.adapter.XReadGroup(
		q.ctx,
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.Name,
		">",
		q.config.BatchSize,
	)
	if err != nil {
		if !errors.Is(err, redis.NilError) && q.ctx.Err() == nil {
			logger.Error("failed to read from queue", "queue", q.config.Name, "error", err)
		}
		return
	}

	for _, streamMsg := range messages {
		q.handleMessage(q.streamMessageToMessage(streamMsg))
	}
}

// claimStuckMessages takes over messages that stayed pending longer than
// the visibility timeout, whichever consumer held them.
func (q *Queue) claimStuckMessages() {
	pendingExt, err := q.adapter.XPendingExt(q.ctx, q.config.Name, q.config.ConsumerGroup, "-", "+", 100)
	if err != nil || len(pendingExt) == 0 {
		return
	}

	deliveries := make(map[string]int64, len(pendingExt))
	var idsToReclaim []string
	for _, msg := range pendingExt {
		if msg.Idle >= q.config.VisibilityTimeout {
			idsToReclaim = append(idsToReclaim, msg.ID)
			deliveries[msg.ID] = msg.RetryCount
		}
	}

	if len(idsToReclaim) == 0 {
		return
	}

	messages, err := q.adapter.XClaim(
		q.ctx,
		q.config.Name,
		q.config.ConsumerGroup,
		q.config.ConsumerName,
		q.config.VisibilityTimeout,
		idsToReclaim...,
	)
	if err != nil {
		logger.Warn("failed to claim stuck messages", "queue", q.config.Name, "error", err)
		return
	}

	for _, streamMsg := range messages {
		msg := q.streamMessageToMessage(streamMsg)
		msg.Attempts = int(deliveries[msg.ID])
		q.handleMessage(msg)
	}
}

func (q *Queue) handleMessage(msg *Message) {
	q.mu.Lock()
	q.processing[msg.ID] = msg
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		delete(q.processing, msg.ID)
		q.mu.Unlock()
	}()

	if msg.Attempts >= q.config.MaxRetries {
		q.moveToDeadLetterQueue(msg)
		q.ackMessage(msg.ID)
		prom.AddQueueMessage(q.config.Name, "dead_lettered")
		return
	}

	ctx, cancel := context.WithTimeout(q.ctx, q.config.VisibilityTimeout)
	defer cancel()

	if err := q.handler(ctx, msg); err != nil {
		prom.AddQueueMessage(q.config.Name, "retried")
		logger.Warn("message handler failed, will retry", "queue", q.config.Name, "id", msg.ID, "attempts", msg.Attempts, "error", err)
		return
	}

	q.ackMessage(msg.ID)
	prom.AddQueueMessage(q.config.Name, "acked")
}

func (q *Queue) ackMessage(messageID string) {
	if err := q.adapter.XAck(context.Background(), q.config.Name, q.config.ConsumerGroup, messageID); err != nil {
		logger.Error("failed to ack message", "queue", q.config.Name, "id", messageID, "error", err)
	}
}

func (q *Queue) moveToDeadLetterQueue(msg *Message) {
	if !q.config.EnableDLQ {
		logger.Error("dropping message after max retries", "queue", q.config.Name, "id", msg.ID, "attempts", msg.Attempts)
		return
	}

	values := map[string]interface{}{
		"data":           string(msg.Data),
		"original_id":    msg.ID,
		"attempts":       msg.Attempts,
		"failed_at":      time.Now().UnixMilli(),
		"original_queue": q.config.Name,
	}

	for k, v := range msg.Metadata {
		values[metaPrefix+k] = v
	}

	if _, err := q.adapter.XAdd(context.Background(), q.config.DLQName(), values); err != nil {
		logger.Error("failed to move message to DLQ", "queue", q.config.Name, "id", msg.ID, "error", err)
		return
	}
	logger.Warn("message moved to DLQ", "queue", q.config.Name, "id", msg.ID, "attempts", msg.Attempts)
}

func (q *Queue) streamMessageToMessage(streamMsg redis.StreamMessage) *Message {
	msg := &Message{
		ID:       streamMsg.ID,
		Metadata: make(map[string]string),
	}

	for k, v := range streamMsg.Values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		switch k {
		case "data":
			msg.Data = []byte(s)
		case "timestamp":
			if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
				msg.Timestamp = time.UnixMilli(ms)
			}
		default:
			if name, ok := strings.CutPrefix(k, metaPrefix); ok {
				msg.Metadata[name] = s
			}
		}
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}

	return msg
}

func (q *Queue) Stop(timeout time.Duration) error {
	q.cancel()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("timeout waiting for queue to stop")
	}
}

func (q *Queue) GetStats(ctx context.Context) (*QueueStats, error) {
	totalMessages, err := q.adapter.XLen(ctx, q.config.Name)
	if err != nil {
		return nil, err
	}

	stats := &QueueStats{
		TotalMessages: totalMessages,
	}

	pending, err := q.adapter.XPending(ctx, q.config.Name, q.config.ConsumerGroup)
	if err == nil && pending != nil {
		stats.PendingMessages = pending.Count
		stats.ConsumerCount = int64(len(pending.Consumers))
	}

	return stats, nil
}
