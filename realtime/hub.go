package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// sessionBuffer bounds the per-session send queue. A session that falls this
// far behind starts losing events; the publisher never blocks on it.
const sessionBuffer = 64

// Hub is the in-process Broadcaster: one room per project id, fan-out over
// buffered per-session channels. Join/Leave are driven by client messages;
// closing a session leaves every room it joined.
type Hub struct {
	mu       sync.RWMutex
	rooms    map[uuid.UUID]map[*Session]struct{}
	sessions map[uuid.UUID]map[*Session]struct{} // keyed by user id
	logger   zerolog.Logger
	dropped  atomic.Uint64
}

func NewHub() *Hub {
	return &Hub{
		rooms:    make(map[uuid.UUID]map[*Session]struct{}),
		sessions: make(map[uuid.UUID]map[*Session]struct{}),
		logger:   log.With().Str("component", "realtimeHub").Logger(),
	}
}

// Session is one connected client. Events queue on C until the write side
// drains them; Close is idempotent.
type Session struct {
	UserID uuid.UUID
	C      chan Event

	hub       *Hub
	closeOnce sync.Once
}

// Register creates a session for a connected user.
func (h *Hub) Register(userID uuid.UUID) *Session {
	s := &Session{
		UserID: userID,
		C:      make(chan Event, sessionBuffer),
		hub:    h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*Session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
	return s
}

// Join subscribes the session to a project room.
func (h *Hub) Join(s *Session, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[projectID] == nil {
		h.rooms[projectID] = make(map[*Session]struct{})
	}
	h.rooms[projectID][s] = struct{}{}
}

// Leave unsubscribes the session from a project room.
func (h *Hub) Leave(s *Session, projectID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s, projectID)
}

func (h *Hub) leaveLocked(s *Session, projectID uuid.UUID) {
	if room, ok := h.rooms[projectID]; ok {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, projectID)
		}
	}
}

// Close removes the session from every room and from its user's session set,
// then closes its event channel.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		h := s.hub
		h.mu.Lock()
		for projectID := range h.rooms {
			h.leaveLocked(s, projectID)
		}
		if set, ok := h.sessions[s.UserID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(h.sessions, s.UserID)
			}
		}
		h.mu.Unlock()
		close(s.C)
	})
}

// Publish fans the event out. Project-created and project-deleted events go
// to the acting user's sessions: the room either does not exist yet or is
// being torn down, and a global broadcast would leak project names to
// non-members. Everything else goes to the project room. Delivery is
// at-most-once: a full session buffer drops the event.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var targets map[*Session]struct{}
	switch event.Kind {
	case ProjectCreated, ProjectDeleted:
		targets = h.sessions[event.ActorID]
	default:
		targets = h.rooms[event.ProjectID]
	}

	for s := range targets {
		select {
		case s.C <- event:
		default:
			h.dropped.Add(1)
			h.logger.Debug().
				Str("event", string(event.Kind)).
				Str("projectID", event.ProjectID.String()).
				Msg("session buffer full, event dropped")
		}
	}
}

// RoomSize reports the number of sessions subscribed to a project room.
func (h *Hub) RoomSize(projectID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[projectID])
}

// Dropped reports how many events were discarded on full session buffers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
