package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"patient-management-service/internal/adapters"
	"patient-management-service/internal/domain/dtos"
)

// EventServiceContract fans patient change events out to live subscribers.
type EventServiceContract interface {
	// Start consumes the patient events queue.
	Start(ctx context.Context) error
	// Stop stops consuming and closes every subscription.
	Stop(ctx context.Context) error
	// Subscribe registers a new listener. The channel is closed when the
	// listener is dropped or unsubscribed.
	Subscribe() <-chan dtos.PatientEvent
	// Unsubscribe removes a listener returned by Subscribe.
	Unsubscribe(ch <-chan dtos.PatientEvent)
}

// EventServiceImpl implements EventServiceContract.
type EventServiceImpl struct {
	queue       adapters.QueueAdapter
	logger      zerolog.Logger
	mu          sync.RWMutex
	clients     map[<-chan dtos.PatientEvent]chan dtos.PatientEvent
	dropTimeout time.Duration
	bufferSize  int
}

// NewEventService creates an EventServiceImpl reading from queue.
func NewEventService(queue adapters.QueueAdapter, logger zerolog.Logger) *EventServiceImpl {
	return &EventServiceImpl{
		queue:       queue,
		logger:      logger.With().Str("component", "event_service").Logger(),
		clients:     make(map[<-chan dtos.PatientEvent]chan dtos.PatientEvent),
		dropTimeout: time.Second,
		bufferSize:  16,
	}
}

func (s *EventServiceImpl) Start(ctx context.Context) error {
	return s.queue.StartConsuming(ctx, adapters.PatientEventsQueue, s.handle)
}

func (s *EventServiceImpl) handle(_ context.Context, data []byte) error {
	var event dtos.PatientEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("decoding patient event: %w", err)
	}
	s.Broadcast(event)
	return nil
}

func (s *EventServiceImpl) Stop(ctx context.Context) error {
	err := s.queue.StopConsuming(ctx, adapters.PatientEventsQueue)

	s.mu.Lock()
	defer s.mu.Unlock()
	for key, ch := range s.clients {
		delete(s.clients, key)
		close(ch)
	}
	return err
}

func (s *EventServiceImpl) Subscribe() <-chan dtos.PatientEvent {
	ch := make(chan dtos.PatientEvent, s.bufferSize)
	s.mu.Lock()
	s.clients[ch] = ch
	s.mu.Unlock()
	s.logger.Debug().Msg("subscriber added")
	return ch
}

func (s *EventServiceImpl) Unsubscribe(ch <-chan dtos.PatientEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[ch]; ok {
		delete(s.clients, ch)
		close(c)
	}
}

// Broadcast sends event to every subscriber. Subscribers that have not taken
// the event when the drop timeout expires are removed. The timeout is shared
// by all subscribers of one broadcast.
func (s *EventServiceImpl) Broadcast(event dtos.PatientEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), s.dropTimeout)
	defer cancel()

	var slow []<-chan dtos.PatientEvent
	// Senders hold the read lock so Unsubscribe and Stop cannot close a
	// channel mid-send.
	s.mu.RLock()
	for key, ch := range s.clients {
		select {
		case ch <- event:
			continue
		default:
		}
		select {
		case ch <- event:
		case <-ctx.Done():
			slow = append(slow, key)
		}
	}
	s.mu.RUnlock()
	if len(slow) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range slow {
		if ch, ok := s.clients[key]; ok {
			delete(s.clients, key)
			close(ch)
			s.logger.Warn().Msg("slow subscriber dropped")
		}
	}
}

// Subscribers returns the number of live subscriptions.
func (s *EventServiceImpl) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
