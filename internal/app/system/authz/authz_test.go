package authz

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/deephydro/hydrodash/internal/app/system/auth"
)

func reqWithUser(role string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if role == "" {
		return r
	}
	return auth.WithTestUser(r, &auth.SessionUser{Name: "Administrator", LoginID: "admin", Role: role})
}

func TestUserCtx(t *testing.T) {
	role, name, ok := UserCtx(reqWithUser("Admin"))
	if !ok || role != "admin" || name != "Administrator" {
		t.Errorf("UserCtx() = %q, %q, %v; want admin, Administrator, true", role, name, ok)
	}

	role, _, ok = UserCtx(reqWithUser(""))
	if ok || role != "visitor" {
		t.Errorf("UserCtx() without user = %q, %v; want visitor, false", role, ok)
	}
}

func TestIsAdmin(t *testing.T) {
	if !IsAdmin(reqWithUser("admin")) {
		t.Error("IsAdmin() = false for admin user")
	}
	if IsAdmin(reqWithUser("viewer")) {
		t.Error("IsAdmin() = true for viewer")
	}
	if IsAdmin(reqWithUser("")) {
		t.Error("IsAdmin() = true without a user")
	}
}

func TestHasRole(t *testing.T) {
	r := reqWithUser("admin")
	if !HasRole(r, "viewer", "Admin") {
		t.Error("HasRole() = false when the list contains the user's role")
	}
	if HasRole(r, "viewer") {
		t.Error("HasRole() = true for a role the user lacks")
	}
	if HasRole(reqWithUser(""), "admin") {
		t.Error("HasRole() = true without a user")
	}
}
