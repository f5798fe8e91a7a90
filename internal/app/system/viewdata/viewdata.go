// Package viewdata builds the common view-model fields shared by every
// rendered page.
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/deephydro/hydrodash/internal/app/system/auth"
	"github.com/deephydro/hydrodash/internal/app/system/authz"
	"github.com/gorilla/csrf"
)

// SiteName is the product name shown in the layout header and page titles.
const SiteName = "HydroDash"

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type pageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
type BaseVM struct {
	SiteName string

	// User context from the auth middleware.
	IsLoggedIn bool
	LoginID    string
	Role       string
	UserName   string

	// Page context.
	Title       string
	BackURL     string
	CurrentPath string

	// CSRF token for forms (use in a hidden input field).
	CSRFToken string
}

// NewBaseVM creates a populated BaseVM for a page. backDefault is used for
// the back button when the request carries no return target.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    SiteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}

	if signedIn {
		if user, ok := auth.CurrentUser(r); ok {
			vm.LoginID = user.LoginID
		}
	}
	return vm
}
