package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newClientServer serves one websocket endpoint that hands every upgraded
// connection to a Client, identifying the user from the query string.
func newClientServer(hub *Hub, canJoin MembershipCheck) *httptest.Server {
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := uuid.Parse(r.URL.Query().Get("user"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, hub, userID, canJoin).Run()
	}))
}

func dialClient(t *testing.T, server *httptest.Server, userID uuid.UUID) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "?user=" + userID.String()
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	return conn
}

func waitForRoomSize(t *testing.T, hub *Hub, projectID uuid.UUID, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.RoomSize(projectID) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("room %s never reached size %d (got %d)", projectID, want, hub.RoomSize(projectID))
}

func TestClientJoinChecksMembership(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	memberID := uuid.New()
	outsiderID := uuid.New()

	canJoin := func(pid, uid uuid.UUID) bool {
		return pid == projectID && uid == memberID
	}
	server := newClientServer(hub, canJoin)
	defer server.Close()

	member := dialClient(t, server, memberID)
	defer member.Close()
	outsider := dialClient(t, server, outsiderID)
	defer outsider.Close()

	require.NoError(t, member.WriteJSON(clientMessage{Action: "join-project", ProjectID: projectID}))
	require.NoError(t, outsider.WriteJSON(clientMessage{Action: "join-project", ProjectID: projectID}))

	// only the member's join passes the gate
	waitForRoomSize(t, hub, projectID, 1)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, hub.RoomSize(projectID))

	hub.Publish(NewEvent(TaskCreated, projectID, memberID, nil))

	member.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received Event
	require.NoError(t, member.ReadJSON(&received))
	assert.Equal(t, TaskCreated, received.Kind)
	assert.Equal(t, projectID, received.ProjectID)

	// the refused session gets nothing; the read must time out
	outsider.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var leaked Event
	assert.Error(t, outsider.ReadJSON(&leaked))
}

func TestClientLeaveStopsDelivery(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	memberID := uuid.New()

	server := newClientServer(hub, func(uuid.UUID, uuid.UUID) bool { return true })
	defer server.Close()

	conn := dialClient(t, server, memberID)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join-project", ProjectID: projectID}))
	waitForRoomSize(t, hub, projectID, 1)

	require.NoError(t, conn.WriteJSON(clientMessage{Action: "leave-project", ProjectID: projectID}))
	waitForRoomSize(t, hub, projectID, 0)

	hub.Publish(NewEvent(TaskUpdated, projectID, memberID, nil))

	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	var leaked Event
	assert.Error(t, conn.ReadJSON(&leaked))
}

func TestClientDisconnectLeavesRooms(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	memberID := uuid.New()

	server := newClientServer(hub, func(uuid.UUID, uuid.UUID) bool { return true })
	defer server.Close()

	conn := dialClient(t, server, memberID)
	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join-project", ProjectID: projectID}))
	waitForRoomSize(t, hub, projectID, 1)

	conn.Close()
	waitForRoomSize(t, hub, projectID, 0)
}

func TestClientIgnoresMalformedMessages(t *testing.T) {
	hub := NewHub()
	projectID := uuid.New()
	memberID := uuid.New()

	server := newClientServer(hub, func(uuid.UUID, uuid.UUID) bool { return true })
	defer server.Close()

	conn := dialClient(t, server, memberID)
	defer conn.Close()

	// garbage and unknown actions are discarded, the connection stays up
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteJSON(clientMessage{Action: "self-destruct", ProjectID: projectID}))
	require.NoError(t, conn.WriteJSON(clientMessage{Action: "join-project", ProjectID: projectID}))
	waitForRoomSize(t, hub, projectID, 1)

	hub.Publish(NewEvent(TaskCreated, projectID, memberID, nil))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var received Event
	require.NoError(t, conn.ReadJSON(&received))
	assert.Equal(t, TaskCreated, received.Kind)
}
