package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Brightboard-Labs/brightboard/backend/services"
)

type userHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *services.AuthService
	dashboard *services.DashboardService
}

func newUserHandler(auth *services.AuthService, dashboard *services.DashboardService) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      auth,
		dashboard: dashboard,
	}
}

func (h userHandler) searchUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := ctxGetUser(r.Context()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := r.URL.Query()
		users, err := h.auth.SearchUsers(query.Get("q"), queryInt(query.Get("limit"), 10))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ListResponse{
			Items:      users,
			Pagination: Pagination{Current: 1, Pages: 1, Total: int64(len(users))},
		})
	}
}

func (h userHandler) myTasks() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		tasks, err := h.dashboard.MyTasks(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, ListResponse{
			Items:      tasks,
			Pagination: Pagination{Current: 1, Pages: 1, Total: int64(len(tasks))},
		})
	}
}

func (h userHandler) myDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		dashboard, err := h.dashboard.Build(user.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, dashboard)
	}
}
