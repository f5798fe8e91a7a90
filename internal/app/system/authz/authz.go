// Package authz provides read-only authorization checks over the session
// user placed in context by the auth middleware.
package authz

import (
	"net/http"
	"strings"

	"github.com/deephydro/hydrodash/internal/app/system/auth"
)

// UserCtx returns the current user's role (lowercased), display name, and a
// found flag. Without a signed-in user it returns "visitor", "", false.
func UserCtx(r *http.Request) (role string, name string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", false
	}
	return strings.ToLower(user.Role), user.Name, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsLoggedIn reports whether there is a user in the request context.
func IsLoggedIn(r *http.Request) bool {
	_, ok := auth.CurrentUser(r)
	return ok
}

// HasRole reports whether the current user has one of the specified roles.
func HasRole(r *http.Request, roles ...string) bool {
	role, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, allowed := range roles {
		if strings.ToLower(allowed) == role {
			return true
		}
	}
	return false
}
