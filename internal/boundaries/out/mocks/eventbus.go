package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/bnema/stevedore/internal/domain"
)

// MockEventPublisher is a mock implementation of out.EventPublisher.
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(eventType domain.EventType, project, subject string) error {
	args := m.Called(eventType, project, subject)
	return args.Error(0)
}
