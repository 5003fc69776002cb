package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler    authHandler
	projectHandler projectHandler
	taskHandler    taskHandler
	userHandler    userHandler
	wsHandler      wsHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
}

// ListResponse is the envelope for every paginated list endpoint.
type ListResponse struct {
	Items      any        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

func newListResponse(items any, page, limit int, total int64) ListResponse {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return ListResponse{
		Items: items,
		Pagination: Pagination{
			Current: page,
			Pages:   pages,
			Total:   total,
		},
	}
}
