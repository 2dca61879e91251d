package console

import (
	"errors"

	"fleetflow/internal/client"
)

const (
	// GenericFailure is shown for errors that carry no message of their own.
	GenericFailure = "Failed, please try again."

	// SessionExpired is shown after the server rejected the session.
	SessionExpired = "Your session has expired. Please log in again."
)

// Message turns an error from the console or the API client into the
// text shown to the operator.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	if errors.Is(err, client.ErrUnauthorized) {
		return SessionExpired
	}
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	switch {
	case errors.Is(err, ErrBusy):
		return "Another action is still in progress."
	case errors.Is(err, ErrTransitionNotOffered):
		return "This action is not available for the trip's current status."
	case errors.Is(err, ErrRefreshFailed):
		return "Saved, but the list could not be refreshed."
	}
	return GenericFailure
}
