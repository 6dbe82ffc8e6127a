package adapters

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// PatientEventsQueue carries change events published by the patient service.
const PatientEventsQueue = "patient_events"

// ErrQueueClosed is returned by Publish after GlobalStop.
var ErrQueueClosed = errors.New("queue adapter is stopped")

// JobHandler processes one message received from a queue.
type JobHandler func(ctx context.Context, data []byte) error

// QueueAdapter defines the interactions with a queueing system.
type QueueAdapter interface {
	// Publish sends jobData to the named queue.
	Publish(ctx context.Context, queueName string, jobData []byte) error
	// StartConsuming calls handler for every message on the named queue from a
	// background goroutine.
	StartConsuming(ctx context.Context, queueName string, handler JobHandler) error
	// StopConsuming stops the consumer of the named queue.
	StopConsuming(ctx context.Context, queueName string) error
	// GlobalStop stops every consumer and waits for them to return.
	GlobalStop(ctx context.Context) error
}

// InMemoryQueueAdapter is a QueueAdapter backed by buffered Go channels.
type InMemoryQueueAdapter struct {
	queues         map[string]chan []byte
	stopChan       map[string]chan struct{}
	mu             sync.RWMutex
	logger         zerolog.Logger
	wg             sync.WaitGroup
	consumerCtx    context.Context
	cancelFunc     context.CancelFunc
	bufferSize     int
	publishTimeout time.Duration
	stopped        bool
}

// NewInMemoryQueueAdapter creates an InMemoryQueueAdapter.
func NewInMemoryQueueAdapter(logger zerolog.Logger) *InMemoryQueueAdapter {
	consumerCtx, cancelFunc := context.WithCancel(context.Background())
	return &InMemoryQueueAdapter{
		queues:         make(map[string]chan []byte),
		stopChan:       make(map[string]chan struct{}),
		logger:         logger.With().Str("component", "queue").Logger(),
		consumerCtx:    consumerCtx,
		cancelFunc:     cancelFunc,
		bufferSize:     100,
		publishTimeout: 2 * time.Second,
	}
}

func (q *InMemoryQueueAdapter) getOrCreateQueue(queueName string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.stopped {
		return nil, ErrQueueClosed
	}
	if _, ok := q.queues[queueName]; !ok {
		q.queues[queueName] = make(chan []byte, q.bufferSize)
		q.logger.Debug().Str("queue", queueName).Msg("in-memory queue created")
	}
	return q.queues[queueName], nil
}

// Publish enqueues jobData. It gives up when ctx is done or the queue stays
// full for the publish timeout.
func (q *InMemoryQueueAdapter) Publish(ctx context.Context, queueName string, jobData []byte) error {
	queue, err := q.getOrCreateQueue(queueName)
	if err != nil {
		return err
	}
	select {
	case queue <- jobData:
		q.logger.Debug().Str("queue", queueName).Int("depth", len(queue)).Msg("message published")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(q.publishTimeout):
		q.logger.Warn().Str("queue", queueName).Msg("publish timed out, queue full")
		return fmt.Errorf("timeout publishing to queue %s", queueName)
	}
}

// StartConsuming starts one consumer goroutine for queueName. Only one
// consumer per queue may run at a time.
func (q *InMemoryQueueAdapter) StartConsuming(ctx context.Context, queueName string, handler JobHandler) error {
	queue, err := q.getOrCreateQueue(queueName)
	if err != nil {
		return err
	}

	q.mu.Lock()
	if _, running := q.stopChan[queueName]; running {
		q.mu.Unlock()
		return fmt.Errorf("queue %s already has a consumer", queueName)
	}
	stop := make(chan struct{})
	q.stopChan[queueName] = stop
	q.mu.Unlock()

	q.wg.Add(1)
	go func() {
		defer q.wg.Done()
		log := q.logger.With().Str("queue", queueName).Logger()
		log.Info().Msg("consumer started")
		for {
			select {
			case data := <-queue:
				if err := handler(q.consumerCtx, data); err != nil {
					log.Error().Err(err).Msg("handler failed")
				}
			case <-stop:
				log.Info().Msg("consumer stopped")
				return
			case <-ctx.Done():
				log.Info().Msg("consumer context cancelled")
				return
			case <-q.consumerCtx.Done():
				return
			}
		}
	}()
	return nil
}

// StopConsuming signals the consumer of queueName to return. Messages
// already queued stay in the channel.
func (q *InMemoryQueueAdapter) StopConsuming(ctx context.Context, queueName string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if stop, ok := q.stopChan[queueName]; ok {
		close(stop)
		delete(q.stopChan, queueName)
	}
	return nil
}

// GlobalStop cancels every consumer and waits for them until ctx is done.
func (q *InMemoryQueueAdapter) GlobalStop(ctx context.Context) error {
	q.mu.Lock()
	q.stopped = true
	q.mu.Unlock()
	q.cancelFunc()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		q.logger.Info().Msg("all consumers stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
