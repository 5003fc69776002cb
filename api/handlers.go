package api

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Dependencies, allowedOrigins []string) *routeHandlers {
	return &routeHandlers{
		authHandler:    newAuthHandler(deps.Auth),
		projectHandler: newProjectHandler(deps.Projects, deps.Broadcaster),
		taskHandler:    newTaskHandler(deps.Tasks, deps.Broadcaster),
		userHandler:    newUserHandler(deps.Auth, deps.Dashboard),
		wsHandler:      newWSHandler(deps.Hub, deps.Auth, deps.Membership, allowedOrigins),
	}
}
