package notifier

import (
	"context"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
)

type Publisher interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

// QueuePublisher hands notifications to the stream drained by cmd/notifier.
type QueuePublisher struct {
	queue Publisher
}

func NewQueuePublisher(queue Publisher) *QueuePublisher {
	return &QueuePublisher{queue: queue}
}

func (p *QueuePublisher) Notify(ctx context.Context, n model.ContactNotification) {
	id, err := p.queue.PublishJSON(context.WithoutCancel(ctx), n, map[string]string{
		"contact_id": n.ContactID.String(),
	})
	if err != nil {
		prom.AddNotificationDelivery("dropped", 0)
		logger.Error("failed to queue contact notification", "contact_id", n.ContactID, "error", err)
		return
	}
	logger.Debug("contact notification queued", "contact_id", n.ContactID, "stream_id", id)
}

// Noop stands in when no webhook is configured.
type Noop struct{}

func (Noop) Notify(_ context.Context, n model.ContactNotification) {
	logger.Warn("NOTIFY_WEBHOOK_URL is not set, contact was not announced", "contact_id", n.ContactID)
}
