package realtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(c chan Event) []Event {
	var got []Event
	for {
		select {
		case e := <-c:
			got = append(got, e)
		default:
			return got
		}
	}
}

func TestHubRoomFanOut(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	actorID := uuid.New()

	inRoom := hub.Register(uuid.New())
	alsoInRoom := hub.Register(uuid.New())
	outside := hub.Register(uuid.New())
	hub.Join(inRoom, projectID)
	hub.Join(alsoInRoom, projectID)

	event := NewEvent(TaskCreated, projectID, actorID, nil)
	hub.Publish(event)

	require.Len(t, drain(inRoom.C), 1)
	require.Len(t, drain(alsoInRoom.C), 1)
	assert.Empty(t, drain(outside.C))
}

func TestHubLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()

	s := hub.Register(uuid.New())
	hub.Join(s, projectID)
	require.Equal(t, 1, hub.RoomSize(projectID))

	hub.Leave(s, projectID)
	assert.Equal(t, 0, hub.RoomSize(projectID))

	hub.Publish(NewEvent(TaskUpdated, projectID, uuid.New(), nil))
	assert.Empty(t, drain(s.C))
}

func TestHubProjectLifecycleEventsGoToActor(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	actorID := uuid.New()

	// the actor has two tabs open; a third user sits in the room
	tabOne := hub.Register(actorID)
	tabTwo := hub.Register(actorID)
	bystander := hub.Register(uuid.New())
	hub.Join(bystander, projectID)

	hub.Publish(NewEvent(ProjectCreated, projectID, actorID, nil))
	hub.Publish(NewEvent(ProjectDeleted, projectID, actorID, nil))

	assert.Len(t, drain(tabOne.C), 2)
	assert.Len(t, drain(tabTwo.C), 2)
	assert.Empty(t, drain(bystander.C))
}

func TestHubDropsOnFullBuffer(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()

	s := hub.Register(uuid.New())
	hub.Join(s, projectID)

	for i := 0; i < sessionBuffer+5; i++ {
		hub.Publish(NewEvent(TaskUpdated, projectID, uuid.New(), nil))
	}

	// the buffer holds what it can, the rest is dropped, nothing blocks
	assert.Len(t, drain(s.C), sessionBuffer)
	assert.Equal(t, uint64(5), hub.Dropped())
}

func TestSessionCloseIsIdempotent(t *testing.T) {
	hub := NewHub()
	projectA := uuid.New()
	projectB := uuid.New()

	s := hub.Register(uuid.New())
	hub.Join(s, projectA)
	hub.Join(s, projectB)

	s.Close()
	s.Close()

	assert.Equal(t, 0, hub.RoomSize(projectA))
	assert.Equal(t, 0, hub.RoomSize(projectB))

	// publishing after close must not panic or deliver
	hub.Publish(NewEvent(TaskCreated, projectA, uuid.New(), nil))
	_, open := <-s.C
	assert.False(t, open)
}
