package notifier

import (
	"context"
	"time"

	"github.com/allinone-seolbi/site/internal/model"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
	"github.com/allinone-seolbi/site/pkg/worker"
)

type Sender interface {
	Send(ctx context.Context, n model.ContactNotification) error
}

const backlogMode = "inline"

type DispatcherConfig struct {
	Workers int
	Buffer  int
	Timeout time.Duration
}

// Dispatcher delivers notifications from a bounded in-process worker pool.
// Notify never blocks the request; when the buffer is full the
// notification is dropped.
type Dispatcher struct {
	sender  Sender
	timeout time.Duration
	workers *worker.WorkerManager
	stopped chan struct{}
}

func NewDispatcher(sender Sender, config DispatcherConfig) *Dispatcher {
	if config.Buffer < 1 {
		config.Buffer = 100
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	d := &Dispatcher{
		sender:  sender,
		timeout: config.Timeout,
		workers: worker.NewWorkerManager(config.Buffer, config.Workers, nil),
		stopped: make(chan struct{}),
	}
	d.workers.SetWorker(d.deliver)
	return d
}

// Start runs the pool in the background.
func (d *Dispatcher) Start() {
	go func() {
		defer close(d.stopped)
		if err := d.workers.Start(); err != nil {
			logger.Info("notification dispatcher stopped", "reason", err)
		}
	}()
}

// Notify queues n for delivery. The request context is not carried over:
// fasthttp recycles it as soon as the handler returns.
func (d *Dispatcher) Notify(_ context.Context, n model.ContactNotification) {
	prom.IncNotificationBacklog(backlogMode)
	if !d.workers.TryEnqueue(n) {
		prom.DecNotificationBacklog(backlogMode)
		prom.AddNotificationDelivery("dropped", 0)
		logger.Warn("notification buffer is full, dropping", "contact_id", n.ContactID)
	}
}

func (d *Dispatcher) deliver(workerIndex int, v interface{}) {
	n, ok := v.(model.ContactNotification)
	if !ok {
		logger.Error("invalid job type in dispatcher", "worker", workerIndex)
		return
	}
	defer prom.DecNotificationBacklog(backlogMode)

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.sender.Send(ctx, n); err != nil {
		prom.AddNotificationDelivery("failed", time.Since(start))
		logger.Error("failed to deliver contact notification", "contact_id", n.ContactID, "error", err)
		return
	}
	prom.AddNotificationDelivery("sent", time.Since(start))
	logger.Info("contact notification sent", "contact_id", n.ContactID)
}

// Pending reports how many notifications wait for a worker.
func (d *Dispatcher) Pending() int64 {
	return d.workers.GetUnreadCount()
}

// Stop waits up to timeout for buffered notifications to drain, then stops
// the workers. The pool ignores signals, so the owner must call Stop.
func (d *Dispatcher) Stop(timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for d.Pending() > 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if n := d.Pending(); n > 0 {
		logger.Warn("stopping dispatcher with undelivered notifications", "pending", n)
	}
	d.workers.Exit()
	<-d.stopped
}
