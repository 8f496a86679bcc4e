package authenticator

import "net/http"

// Authenticator is the slice of auth used by the router, so tests can
// substitute a pass-through implementation.
type Authenticator interface {
	AuthenticateUser(h http.Handler) http.Handler
	IssueSession(response http.ResponseWriter, userID string) error
	ClearSession(response http.ResponseWriter)
}
