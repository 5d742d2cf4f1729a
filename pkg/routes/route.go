// Package routes declares HTTP routes as data so domain handlers can publish
// their endpoints without owning a mux.
package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// MuxPattern returns the ServeMux pattern for the route mounted under prefix.
func (r Route) MuxPattern(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
