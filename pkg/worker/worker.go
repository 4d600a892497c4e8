package worker

import (
	"errors"
	"sync"

	"github.com/allinone-seolbi/site/pkg/logger"
)

var ErrTerminated = errors.New("workers terminated")

type WorkerHandler = func(workerIndex int, job interface{})

type WorkerManager struct {
	jobChannel     chan interface{}
	numberOfWorker int
	done           chan struct{}
	exitOnce       sync.Once
	do             WorkerHandler
	waiter         *sync.WaitGroup
}

// NewWorkerManager
// is a job manager based on go routines. Define the number of internal
// workers and publish jobs with Enqueue or TryEnqueue; they are distributed
// among the pool. Workers stop only on Exit(); the owner decides when, so
// signals stay with main. The job channel is not closed on exit because it
// may be shared with other producers.
func NewWorkerManager(bufferSize, numberOfWorkers int, jobChannel chan interface{}) *WorkerManager {
	if numberOfWorkers < 1 {
		numberOfWorkers = 1
	}
	if jobChannel == nil {
		jobChannel = make(chan interface{}, bufferSize)
	}
	return &WorkerManager{
		numberOfWorker: numberOfWorkers,
		jobChannel:     jobChannel,
		done:           make(chan struct{}),
		waiter:         &sync.WaitGroup{},
	}
}

func (w *WorkerManager) GetUnreadCount() int64 {
	return int64(len(w.jobChannel))
}

func (w *WorkerManager) JobEvents() chan interface{} {
	return w.jobChannel
}

func (w *WorkerManager) SetWorker(worker WorkerHandler) {
	w.do = worker
}

// Enqueue
// Publishes a message onto the channel, blocking while the buffer is full.
func (w *WorkerManager) Enqueue(val interface{}) {
	select {
	case w.jobChannel <- val:
	case <-w.done:
	}
}

// TryEnqueue publishes without blocking and reports whether the job was accepted.
func (w *WorkerManager) TryEnqueue(val interface{}) bool {
	select {
	case <-w.done:
		return false
	default:
	}
	select {
	case w.jobChannel <- val:
		return true
	default:
		return false
	}
}

// Start
// starts off the workers as many as defined
// by w.numberOfWorker and blocks until they stop.
func (w *WorkerManager) Start() error {
	w.waiter.Add(w.numberOfWorker)
	for i := 0; i < w.numberOfWorker; i++ {
		go func(index int) {
			defer w.waiter.Done()
			for {
				select {
				case job := <-w.jobChannel:
					w.do(index, job)
				case <-w.done:
					return
				}
			}
		}(i)
	}
	w.waiter.Wait()

	return ErrTerminated
}

// Exit
// stops all workers. Jobs still buffered are left on the channel.
func (w *WorkerManager) Exit() {
	w.exitOnce.Do(func() {
		logger.Info("Exit() is called and worker manager is going to be shutdown")
		close(w.done)
	})
}
