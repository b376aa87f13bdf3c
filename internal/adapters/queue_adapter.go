package adapters

import (
	"context"
	"errors"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// JobHandler processes one message taken from a queue.
type JobHandler func(ctx context.Context, data []byte) error

// QueueAdapter is the interface to a queueing system. The orchestrator uses
// it to stream sanitized audit events out of the request path.
type QueueAdapter interface {
	Publish(ctx context.Context, queueName string, jobData []byte) error
	StartConsuming(ctx context.Context, queueName string, handler JobHandler) error
	StopConsuming(ctx context.Context, queueName string) error
}

// InMemoryQueueAdapter implements QueueAdapter on buffered Go channels. The
// orchestrator is an in-process layer; no external broker is involved.
type InMemoryQueueAdapter struct {
	queues      map[string]chan []byte
	stopChans   map[string]chan struct{}
	mu          sync.RWMutex
	logger      *log.Logger
	wg          sync.WaitGroup
	consumerCtx context.Context
	cancel      context.CancelFunc
}

func NewInMemoryQueueAdapter(logger *log.Logger) *InMemoryQueueAdapter {
	if logger == nil {
		logger = log.StandardLogger()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &InMemoryQueueAdapter{
		queues:      make(map[string]chan []byte),
		stopChans:   make(map[string]chan struct{}),
		logger:      logger,
		consumerCtx: ctx,
		cancel:      cancel,
	}
}

func (q *InMemoryQueueAdapter) getOrCreateQueue(queueName string) chan []byte {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.queues[queueName]; !ok {
		q.queues[queueName] = make(chan []byte, 100)
		q.stopChans[queueName] = make(chan struct{})
		q.logger.WithField("queue", queueName).Debug("coda in memoria creata")
	}
	return q.queues[queueName]
}

func (q *InMemoryQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	queue := q.getOrCreateQueue(queueName)
	select {
	case queue <- jobData:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(2 * time.Second):
		q.logger.WithField("queue", queueName).Warn("timeout in pubblicazione, coda piena")
		return errors.New("timeout publishing to queue: " + queueName)
	}
}

func (q *InMemoryQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler JobHandler) error {
	queue := q.getOrCreateQueue(queueName)
	q.mu.RLock()
	stopChan := q.stopChans[queueName]
	q.mu.RUnlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		for {
			select {
			case data, ok := <-queue:
				if !ok {
					return
				}
				if err := handler(q.consumerCtx, data); err != nil {
					q.logger.WithField("queue", queueName).
						WithError(err).Error("errore nel processare il messaggio")
				}
			case <-stopChan:
				return
			case <-q.consumerCtx.Done():
				return
			}
		}
	}()
	return nil
}

func (q *InMemoryQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if stopChan, ok := q.stopChans[queueName]; ok {
		close(stopChan)
		delete(q.stopChans, queueName)
	}
	return nil
}

// Shutdown cancels every consumer and waits for them to drain.
func (q *InMemoryQueueAdapter) Shutdown() {
	q.cancel()
	q.wg.Wait()
}
