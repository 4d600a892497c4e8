package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/internal/queue"
	"github.com/allinone-seolbi/site/internal/webhook"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
)

type Sender interface {
	Send(ctx context.Context, n model.ContactNotification) error
}

type NotificationProcessor struct {
	sender      Sender
	idempotency *IdempotencyService
}

func NewNotificationProcessor(sender Sender, idempotency *IdempotencyService) *NotificationProcessor {
	return &NotificationProcessor{
		sender:      sender,
		idempotency: idempotency,
	}
}

func (p *NotificationProcessor) GetType() string {
	return "contact_notification"
}

// Process delivers one queued notification. A nil return acks the stream
// entry; an error leaves it pending for another attempt.
func (p *NotificationProcessor) Process(ctx context.Context, msg *queue.Message) error {
	var n model.ContactNotification
	if err := json.Unmarshal(msg.Data, &n); err != nil {
		// will never decode, retrying is pointless
		logger.Error("dropping undecodable notification", "id", msg.ID, "error", err)
		prom.AddNotificationDelivery("dropped", 0)
		return nil
	}

	key := n.ContactID.String()

	attempt, err := p.idempotency.Acquire(ctx, key)
	switch {
	case errors.Is(err, ErrAlreadyDelivered):
		logger.Info("notification already delivered, skipping", "contact_id", key)
		return nil
	case errors.Is(err, ErrMaxRetriesExceeded):
		logger.Error("giving up on notification", "contact_id", key, "error", err)
		prom.AddNotificationDelivery("failed", 0)
		return nil
	case errors.Is(err, ErrLockAcquireFailed):
		return fmt.Errorf("contact %s is being delivered by another consumer: %w", key, err)
	case err != nil:
		return err
	}
	defer p.idempotency.Release(ctx, attempt)

	start := time.Now()
	err = p.sender.Send(ctx, n)
	took := time.Since(start)

	var limited *webhook.RateLimitedError
	switch {
	case err == nil:
		prom.AddNotificationDelivery("sent", took)
		logger.Info("contact notification sent", "contact_id", key, "retry_count", attempt.RetryCount)
		if markErr := p.idempotency.MarkSuccess(ctx, attempt); markErr != nil {
			logger.Error("failed to mark notification delivered", "contact_id", key, "error", markErr)
		}
		return nil
	case errors.Is(err, webhook.ErrNotConfigured):
		logger.Warn("webhook url is not configured, dropping notification", "contact_id", key)
		prom.AddNotificationDelivery("dropped", 0)
		return nil
	case errors.As(err, &limited), errors.Is(err, webhook.ErrCircuitOpen):
		// the sink is backing off; this attempt does not count against the contact
		prom.AddNotificationDelivery("deferred", took)
		return err
	default:
		prom.AddNotificationDelivery("failed", took)
		if markErr := p.idempotency.MarkFailure(ctx, attempt, err); markErr != nil {
			logger.Error("failed to record delivery failure", "contact_id", key, "error", markErr)
		}
		return err
	}
}
