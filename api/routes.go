package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the public auth endpoints, the authenticated API and the
// realtime channel.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Post("/api/auth/register", handlers.authHandler.register())
		r.Post("/api/auth/login", handlers.authHandler.login())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(authMiddleware.authenticate)

		r.Get("/api/auth/me", handlers.authHandler.me())
		r.Put("/api/auth/profile", handlers.authHandler.updateProfile())
		r.Post("/api/auth/change-password", handlers.authHandler.changePassword())

		r.Get("/api/projects", handlers.projectHandler.listProjects())
		r.Post("/api/projects", handlers.projectHandler.createProject())
		r.Get("/api/projects/{projectID}", handlers.projectHandler.getProject())
		r.Put("/api/projects/{projectID}", handlers.projectHandler.updateProject())
		r.Delete("/api/projects/{projectID}", handlers.projectHandler.deleteProject())
		r.Post("/api/projects/{projectID}/members", handlers.projectHandler.addMember())
		r.Delete("/api/projects/{projectID}/members/{userID}", handlers.projectHandler.removeMember())

		r.Get("/api/tasks/project/{projectID}", handlers.taskHandler.listTasks())
		r.Post("/api/tasks/project/{projectID}", handlers.taskHandler.createTask())
		r.Get("/api/tasks/{taskID}", handlers.taskHandler.getTask())
		r.Put("/api/tasks/{taskID}", handlers.taskHandler.updateTask())
		r.Delete("/api/tasks/{taskID}", handlers.taskHandler.deleteTask())
		r.Post("/api/tasks/{taskID}/comments", handlers.taskHandler.addComment())
		r.Put("/api/tasks/{taskID}/comments/{commentID}", handlers.taskHandler.updateComment())
		r.Delete("/api/tasks/{taskID}/comments/{commentID}", handlers.taskHandler.deleteComment())

		r.Get("/api/users/search", handlers.userHandler.searchUsers())
		r.Get("/api/users/me/tasks", handlers.userHandler.myTasks())
		r.Get("/api/users/me/dashboard", handlers.userHandler.myDashboard())
	})

	// The websocket endpoint authenticates inside the handler so the token
	// can arrive as a query parameter.
	r.Get("/api/ws", handlers.wsHandler.connect())
}
