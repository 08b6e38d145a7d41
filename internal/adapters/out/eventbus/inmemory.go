// Package eventbus implements the event bus adapter.
package eventbus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bnema/stevedore/internal/adapters/out/telemetry"
	"github.com/bnema/stevedore/internal/boundaries/out"
	"github.com/bnema/stevedore/internal/domain"
	"github.com/bnema/stevedore/internal/logging"
)

// Ensure InMemory implements out.EventBus.
var _ out.EventBus = (*InMemory)(nil)

const (
	publishTimeout = 5 * time.Second
	handlerTimeout = 30 * time.Second
)

// InMemory implements the EventBus interface using a buffered channel
// drained by a single goroutine.
type InMemory struct {
	handlers   []out.EventHandler
	eventChan  chan domain.Event
	done       chan struct{}
	mu         sync.RWMutex
	ctx        context.Context
	cancel     context.CancelFunc
	bufferSize int
	started    bool
	log        zerolog.Logger
	metrics    *telemetry.Metrics
	now        func() time.Time
}

// NewInMemory creates a new in-memory event bus.
func NewInMemory(bufferSize int, log zerolog.Logger) *InMemory {
	if bufferSize <= 0 {
		bufferSize = 100
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &InMemory{
		handlers:   make([]out.EventHandler, 0),
		eventChan:  make(chan domain.Event, bufferSize),
		done:       make(chan struct{}),
		ctx:        ctx,
		cancel:     cancel,
		bufferSize: bufferSize,
		log: log.With().
			Str(logging.FieldLayer, "adapter").
			Str(logging.FieldAdapter, "eventbus").
			Logger(),
		now: time.Now,
	}
}

// SetMetrics sets the metrics for the event bus. Call before Start.
func (bus *InMemory) SetMetrics(m *telemetry.Metrics) {
	bus.mu.Lock()
	bus.metrics = m
	bus.mu.Unlock()
}

// Publish publishes an event to the bus.
func (bus *InMemory) Publish(eventType domain.EventType, project, subject string) error {
	event := domain.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: bus.now().UTC(),
		Project:   project,
		Subject:   subject,
	}

	select {
	case bus.eventChan <- event:
		bus.log.Debug().
			Str("event_id", event.ID).
			Str(logging.FieldEvent, string(event.Type)).
			Str(logging.FieldProject, project).
			Msg("event published")
		return nil
	case <-bus.ctx.Done():
		return fmt.Errorf("event bus is stopped")
	case <-time.After(publishTimeout):
		bus.log.Error().
			Str("event_id", event.ID).
			Str(logging.FieldEvent, string(event.Type)).
			Msg("event channel is full, dropping event")

		if m := bus.metricsRef(); m != nil {
			m.EventsDropped.WithLabelValues(string(event.Type)).Inc()
		}
		return fmt.Errorf("event channel is full, dropping event %s", event.ID)
	}
}

// Subscribe adds an event handler to the bus.
func (bus *InMemory) Subscribe(handler out.EventHandler) error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.handlers = append(bus.handlers, handler)
	bus.log.Debug().
		Str(logging.FieldHandler, fmt.Sprintf("%T", handler)).
		Int("total_handlers", len(bus.handlers)).
		Msg("event handler subscribed")

	return nil
}

// Start starts the event bus processing loop.
func (bus *InMemory) Start() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	if bus.started {
		return fmt.Errorf("event bus already started")
	}
	bus.started = true

	bus.log.Info().Int("buffer_size", bus.bufferSize).Msg("starting event bus")
	go bus.processEvents()
	return nil
}

// Stop drains queued events and stops the bus.
func (bus *InMemory) Stop() error {
	bus.mu.RLock()
	started := bus.started
	bus.mu.RUnlock()

	bus.cancel()
	if !started {
		return nil
	}

	select {
	case <-bus.done:
		bus.log.Info().Msg("event bus stopped")
		return nil
	case <-time.After(publishTimeout):
		bus.log.Warn().Msg("event bus stop timeout")
		return fmt.Errorf("timeout waiting for event bus to stop")
	}
}

func (bus *InMemory) processEvents() {
	defer close(bus.done)

	for {
		select {
		case event := <-bus.eventChan:
			bus.handleEvent(event)
		case <-bus.ctx.Done():
			for {
				select {
				case event := <-bus.eventChan:
					bus.handleEvent(event)
				default:
					bus.log.Debug().Msg("event bus processing stopped")
					return
				}
			}
		}
	}
}

func (bus *InMemory) metricsRef() *telemetry.Metrics {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return bus.metrics
}

func (bus *InMemory) handleEvent(event domain.Event) {
	bus.mu.RLock()
	handlers := make([]out.EventHandler, len(bus.handlers))
	copy(handlers, bus.handlers)
	metrics := bus.metrics
	bus.mu.RUnlock()

	for _, h := range handlers {
		if !h.CanHandle(event.Type) {
			continue
		}

		start := time.Now()
		// Handlers outlive bus cancellation so queued events still drain on Stop.
		ctx, cancel := context.WithTimeout(context.WithoutCancel(bus.ctx), handlerTimeout)
		ctx = logging.WithLogger(ctx, bus.log)

		done := make(chan error, 1)
		go func() {
			done <- h.Handle(ctx, event)
		}()

		select {
		case err := <-done:
			if err != nil {
				bus.log.Error().
					Err(err).
					Str("event_id", event.ID).
					Str(logging.FieldEvent, string(event.Type)).
					Str(logging.FieldHandler, fmt.Sprintf("%T", h)).
					Msg("error handling event")
			} else {
				bus.log.Debug().
					Str("event_id", event.ID).
					Str(logging.FieldEvent, string(event.Type)).
					Str(logging.FieldHandler, fmt.Sprintf("%T", h)).
					Dur(logging.FieldDuration, time.Since(start)).
					Msg("event handled")
				if metrics != nil {
					metrics.EventsProcessed.WithLabelValues(string(event.Type)).Inc()
				}
			}
		case <-ctx.Done():
			bus.log.Warn().
				Str("event_id", event.ID).
				Str(logging.FieldEvent, string(event.Type)).
				Str(logging.FieldHandler, fmt.Sprintf("%T", h)).
				Dur(logging.FieldDuration, time.Since(start)).
				Msg("handler timeout")
		}
		cancel()
	}
}
