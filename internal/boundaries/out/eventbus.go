package out

import (
	"context"

	"github.com/bnema/stevedore/internal/domain"
)

// EventHandler defines the contract for handling events.
type EventHandler interface {
	Handle(ctx context.Context, event domain.Event) error
	CanHandle(eventType domain.EventType) bool
}

// EventPublisher defines the contract for publishing events.
type EventPublisher interface {
	Publish(eventType domain.EventType, project, subject string) error
}

// EventBus combines publishing and subscribing with lifecycle management.
type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler) error
	Start() error
	Stop() error
}
