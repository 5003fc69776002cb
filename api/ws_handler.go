package api

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brightboard-Labs/brightboard/backend/errs"
	"github.com/Brightboard-Labs/brightboard/backend/realtime"
	"github.com/Brightboard-Labs/brightboard/backend/services"
)

type wsHandler struct {
	responder  Responder
	logger     zerolog.Logger
	hub        *realtime.Hub
	auth       *services.AuthService
	membership *services.Membership
	upgrader   websocket.Upgrader
}

func newWSHandler(hub *realtime.Hub, auth *services.AuthService, membership *services.Membership, allowedOrigins []string) wsHandler {
	logger := log.With().Str("handlerName", "wsHandler").Logger()

	return wsHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		hub:        hub,
		auth:       auth,
		membership: membership,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == "*" || allowed == origin {
						return true
					}
				}
				return false
			},
		},
	}
}

// connect authenticates the caller, upgrades the connection and hands it to
// the hub. Browser websocket clients cannot set headers, so the token is
// also accepted as a query parameter.
func (h wsHandler) connect() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			authHeader := r.Header.Get("Authorization")
			token = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if token == "" {
			h.responder.WriteError(w, errs.Unauthorized())
			return
		}

		user, err := h.auth.ResolveUser(token)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		conn, err := h.upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Debug().Err(err).Msg("websocket upgrade failed")
			return
		}

		canJoin := func(projectID, userID uuid.UUID) bool {
			ok, err := h.membership.IsMember(projectID, userID)
			if err != nil {
				h.logger.Error().Err(err).Msg("membership check failed on join")
				return false
			}
			return ok
		}

		client := realtime.NewClient(conn, h.hub, user.ID, canJoin)
		go client.Run()
	}
}
