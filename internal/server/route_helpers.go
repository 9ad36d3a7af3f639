package server

import "net/http"

// RouteHandler is a function type for HTTP handlers
type RouteHandler func(http.ResponseWriter, *http.Request)

// MethodRouter maps HTTP methods to handlers
type MethodRouter map[string]RouteHandler

// RouteByMethod routes requests based on HTTP method with standardized error handling
func RouteByMethod(w http.ResponseWriter, r *http.Request, routes MethodRouter) {
	handler, ok := routes[r.Method]
	if !ok {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	handler(w, r)
}

// byMethod adapts a MethodRouter to a mux handler
func byMethod(routes MethodRouter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RouteByMethod(w, r, routes)
	}
}
