package domain

import "time"

// EventType identifies an audit event.
type EventType string

const (
	EventProjectCreated   EventType = "project.created"
	EventProjectDeleted   EventType = "project.deleted"
	EventServiceAdded     EventType = "service.added"
	EventServiceUpdated   EventType = "service.updated"
	EventServiceDeleted   EventType = "service.deleted"
	EventServiceStarted   EventType = "service.started"
	EventServiceStopped   EventType = "service.stopped"
	EventNetworkAdded     EventType = "network.added"
	EventNetworkUpdated   EventType = "network.updated"
	EventNetworkDeleted   EventType = "network.deleted"
	EventContainerStarted EventType = "container.started"
	EventContainerStopped EventType = "container.stopped"
	EventContainerRemoved EventType = "container.removed"
	EventLogin            EventType = "auth.login"
	EventLoginFailed      EventType = "auth.login_failed"
	EventLogout           EventType = "auth.logout"
)

// Event is a record of a successful mutation or auth action.
type Event struct {
	ID        string
	Type      EventType
	Timestamp time.Time
	Project   string
	Subject   string // service, network, container id or username
}
