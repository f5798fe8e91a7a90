// Package remoteerr maps DeepHydro client errors onto API responses in one
// place, so every handler surfaces remote failures the same way: service
// errors pass through with the service's own message and status, transport
// failures become a generic 502.
package remoteerr

import (
	"errors"
	"net/http"

	"github.com/deephydro/hydrodash/internal/app/remote"
	"github.com/deephydro/hydrodash/internal/app/system/jsonutil"
)

// TransportMessage is the user-visible text for network and decode
// failures, which carry no message worth relaying.
const TransportMessage = "The analysis service could not be reached. Please try again."

// Write writes the JSON error response for a failed remote call.
func Write(w http.ResponseWriter, err error) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		jsonutil.Error(w, apiErr.Status, apiErr.Message)
		return
	}
	jsonutil.Error(w, http.StatusBadGateway, TransportMessage)
}

// Message returns the user-visible message for a failed remote call without
// writing a response.
func Message(err error) string {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return TransportMessage
}
