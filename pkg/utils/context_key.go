package utils

import "net/http"

type ContextKey string

// MemberIDFromRequest returns the authenticated member id placed in the
// request context by the JWT middleware.
func MemberIDFromRequest(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(ContextKey("memberId")).(string)
	return id, ok && id != ""
}

func RoleFromRequest(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(ContextKey("role")).(string)
	return role, ok && role != ""
}
