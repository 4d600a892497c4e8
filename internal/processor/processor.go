package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allinone-seolbi/site/internal/queue"
	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/redis"
	"github.com/allinone-seolbi/site/pkg/worker"
)

const (
	HealthInterval  = time.Second * 30
	MetricsInterval = time.Second * 30
	ShutdownTimeout = time.Minute
	// PendingWarnThreshold is the backlog size the health check warns about.
	PendingWarnThreshold = 1000
)

type Config struct {
	Queue             queue.QueueConfig
	Consumers         int
	Workers           int
	ProcessingTimeout time.Duration
}

// ProcessorService drains the notification stream. Each consumer hands its
// messages to a shared worker pool and waits for the verdict, which decides
// whether the entry is acked.
type ProcessorService struct {
	adapter   redis.RedisAdapter
	config    Config
	queues    []*queue.Queue
	processor Processor
	metrics   *ServiceMetrics
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	worker    *worker.WorkerManager
}

type Processor interface {
	Process(ctx context.Context, message *queue.Message) error
	GetType() string
}

func NewProcessorService(adapter redis.RedisAdapter, config Config) *ProcessorService {
	if config.Consumers < 1 {
		config.Consumers = 1
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	if config.ProcessingTimeout <= 0 {
		config.ProcessingTimeout = 10 * time.Second
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &ProcessorService{
		adapter: adapter,
		config:  config,
		metrics: NewServiceMetrics(),
		ctx:     ctx,
		cancel:  cancel,
		worker:  worker.NewWorkerManager(config.Workers*4, config.Workers, nil),
	}
}

func (s *ProcessorService) RegisterProcessor(processor Processor) {
	s.processor = processor
	logger.Info("registered processor", "type", processor.GetType())
}

func (s *ProcessorService) Metrics() *ServiceMetrics {
	return s.metrics
}

func (s *ProcessorService) Start() error {
	if s.processor == nil {
		return fmt.Errorf("no processor registered")
	}

	s.worker.SetWorker(s.workerHandler)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.worker.Start(); err != nil {
			logger.Info("worker manager stopped", "reason", err)
		}
	}()

	for i := 0; i < s.config.Consumers; i++ {
		queueConfig := s.config.Queue
		if queueConfig.ConsumerName != "" {
			queueConfig.ConsumerName = fmt.Sprintf("%s-%d", queueConfig.ConsumerName, i)
		}

		q, err := queue.NewQueue(s.adapter, queueConfig)
		if err != nil {
			return fmt.Errorf("failed to create consumer %d: %w", i, err)
		}

		if err := q.Consume(s.messageHandler); err != nil {
			return fmt.Errorf("failed to start consumer %d: %w", i, err)
		}

		s.queues = append(s.queues, q)
	}

	s.wg.Add(2)
	go s.metricsReporter()
	go s.healthChecker()

	logger.Info("notification processor started",
		"stream", s.config.Queue.Name,
		"consumers", len(s.queues),
		"workers", s.config.Workers)
	return nil
}

func (s *ProcessorService) metricsReporter() {
	defer s.wg.Done()

	ticker := time.NewTicker(MetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.reportMetrics()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *ProcessorService) reportMetrics() {
	stats := s.metrics.Snapshot()
	logger.Info("notifier metrics",
		"delivered", stats.Delivered,
		"failed", stats.Failed,
		"rate_per_second", stats.RatePerSecond,
		"avg_duration_ms", stats.AvgDuration.Milliseconds(),
		"uptime_seconds", int64(stats.Uptime.Seconds()))

	if len(s.queues) == 0 {
		return
	}
	if qStats, err := s.queues[0].GetStats(context.Background()); err == nil {
		logger.Info("stream stats", "total", qStats.TotalMessages, "pending", qStats.PendingMessages, "consumers", qStats.ConsumerCount)
	}
}

func (s *ProcessorService) healthChecker() {
	defer s.wg.Done()

	ticker := time.NewTicker(HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.performHealthCheck(s.ctx)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *ProcessorService) performHealthCheck(ctx context.Context) bool {
	if err := s.adapter.Ping(ctx); err != nil {
		logger.Error("health check failed: redis unreachable", "error", err)
		return false
	}

	// consumers share one group, any of them reports the same backlog
	if len(s.queues) > 0 {
		stats, err := s.queues[0].GetStats(ctx)
		if err != nil {
			logger.Warn("health check: stream stats unavailable", "error", err)
			return true
		}
		if stats.PendingMessages > PendingWarnThreshold {
			logger.Warn("health check: notification backlog is high", "pending", stats.PendingMessages)
		}
	}

	logger.Debug("health check ok")
	return true
}

// Stop stops consuming, then the worker pool. In-flight deliveries that
// miss the deadline stay pending in the stream and are claimed later.
func (s *ProcessorService) Stop() {
	logger.Info("shutting down notification processor")

	s.cancel()

	var stopping sync.WaitGroup
	for i, q := range s.queues {
		stopping.Add(1)
		go func(index int, q *queue.Queue) {
			defer stopping.Done()
			if err := q.Stop(ShutdownTimeout); err != nil {
				logger.Error("error stopping consumer", "consumer", index, "error", err)
			}
		}(i, q)
	}
	stopping.Wait()

	s.worker.Exit()
	s.wg.Wait()

	s.reportMetrics()
	logger.Info("notification processor stopped")
}

type job struct {
	ctx    context.Context
	msg    *queue.Message
	result chan error
}

func (s *ProcessorService) messageHandler(ctx context.Context, msg *queue.Message) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ProcessingTimeout)
	defer cancel()

	j := &job{ctx: ctx, msg: msg, result: make(chan error, 1)}

	s.worker.Enqueue(j)

	select {
	case err := <-j.result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for worker: %w", ctx.Err())
	}
}

func (s *ProcessorService) workerHandler(workerIndex int, v interface{}) {
	j, ok := v.(*job)
	if !ok {
		logger.Error("invalid job type in worker", "worker", workerIndex)
		return
	}

	if j.ctx.Err() != nil {
		logger.Warn("job expired before processing started", "worker", workerIndex, "id", j.msg.ID)
		return
	}

	start := time.Now()
	err := s.processor.Process(j.ctx, j.msg)
	if err != nil {
		s.metrics.RecordFailure()
		logger.Warn("failed to process notification", "worker", workerIndex, "id", j.msg.ID, "error", err)
	} else {
		s.metrics.RecordSuccess(time.Since(start))
	}

	// buffered, never blocks
	j.result <- err
}
