package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4096
)

// clientMessage is what a connected client may send: a room join or leave.
type clientMessage struct {
	Action    string    `json:"action"` // "join-project" | "leave-project"
	ProjectID uuid.UUID `json:"project_id"`
}

// MembershipCheck gates room joins. It is the membership authority's IsMember
// behind a function type so this package stays free of service imports.
type MembershipCheck func(projectID, userID uuid.UUID) bool

// Client pumps one websocket connection against the hub. Joins are
// re-checked against the membership authority; the connection closing
// implicitly leaves every room.
type Client struct {
	conn    *websocket.Conn
	session *Session
	hub     *Hub
	canJoin MembershipCheck
	logger  zerolog.Logger
}

func NewClient(conn *websocket.Conn, hub *Hub, userID uuid.UUID, canJoin MembershipCheck) *Client {
	return &Client{
		conn:    conn,
		session: hub.Register(userID),
		hub:     hub,
		canJoin: canJoin,
		logger:  log.With().Str("component", "realtimeClient").Str("userID", userID.String()).Logger(),
	}
}

// Run services the connection until it closes. The read pump runs on the
// calling goroutine; the write pump runs alongside it.
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.session.Close()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug().Err(err).Msg("websocket closed unexpectedly")
			}
			return
		}

		var msg clientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.logger.Debug().Err(err).Msg("discarding malformed client message")
			continue
		}

		switch msg.Action {
		case "join-project":
			if c.canJoin != nil && !c.canJoin(msg.ProjectID, c.session.UserID) {
				c.logger.Debug().
					Str("projectID", msg.ProjectID.String()).
					Msg("join refused, not a member")
				continue
			}
			c.hub.Join(c.session, msg.ProjectID)
		case "leave-project":
			c.hub.Leave(c.session, msg.ProjectID)
		default:
			c.logger.Debug().Str("action", msg.Action).Msg("unknown client action")
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.session.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
