package realtime

import "github.com/google/uuid"

// EventKind names a state change mirrored to connected clients. The kind
// doubles as the message name on the wire.
type EventKind string

const (
	ProjectCreated EventKind = "project-created"
	ProjectUpdated EventKind = "project-updated"
	ProjectDeleted EventKind = "project-deleted"
	MemberAdded    EventKind = "member-added"
	MemberRemoved  EventKind = "member-removed"
	TaskCreated    EventKind = "task-created"
	TaskUpdated    EventKind = "task-updated"
	TaskDeleted    EventKind = "task-deleted"
	CommentAdded   EventKind = "comment-added"
	CommentUpdated EventKind = "comment-updated"
	CommentDeleted EventKind = "comment-deleted"
	TaskDueSoon    EventKind = "task-due-soon"
)

// Event is a best-effort notification, not a source of truth: delivery is
// at-most-once and a disconnected client re-fetches state over HTTP.
type Event struct {
	Kind      EventKind `json:"event"`
	ProjectID uuid.UUID `json:"project_id"`
	ActorID   uuid.UUID `json:"actor_id"`
	Payload   any       `json:"payload"`
}

// Broadcaster fans an event out to subscribed sessions. Services never call
// it directly; the boundary publishes the events a service call returns.
type Broadcaster interface {
	Publish(event Event)
}

// NewEvent builds an event for the given project room.
func NewEvent(kind EventKind, projectID, actorID uuid.UUID, payload any) Event {
	return Event{Kind: kind, ProjectID: projectID, ActorID: actorID, Payload: payload}
}
