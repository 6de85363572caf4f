package api

import (
	"fmt"
	"net/http"
)

// Kind classifies a request failure into the bucket that decides the
// user-facing message and whether the session must be torn down.
type Kind int

const (
	// KindConnect means no response was received at all.
	KindConnect Kind = iota
	// KindNoToken means an authenticated call was attempted while anonymous.
	KindNoToken
	// KindAuth is an HTTP 401: the stored token is no longer valid.
	KindAuth
	// KindTooLarge is an HTTP 413.
	KindTooLarge
	// KindValidation is an HTTP 400; the server's detail text is surfaced.
	KindValidation
	// KindNotFound is an HTTP 404, almost always a misconfigured base URL.
	KindNotFound
	// KindServer is an HTTP 500.
	KindServer
	// KindOther is any other non-2xx status.
	KindOther
)

// Error is a classified request failure with a presentable message.
type Error struct {
	Kind       Kind
	Message    string
	StatusCode int
}

func (e *Error) Error() string { return e.Message }

// RequiresLogin reports whether this failure must force the user back
// through the login flow.
func (e *Error) RequiresLogin() bool {
	return e.Kind == KindAuth || e.Kind == KindNoToken
}

// connectError builds the distinguished cannot-connect condition.
func connectError(baseURL string) *Error {
	return &Error{
		Kind: KindConnect,
		Message: fmt.Sprintf(
			"Cannot connect to backend server. Please make sure the server is running on %s", baseURL),
	}
}

// noTokenError is returned before any network attempt when no token is held.
func noTokenError() *Error {
	return &Error{Kind: KindNoToken, Message: "Please login to use this feature."}
}

// classifyStatus maps a non-2xx response to its normalized error. detail is
// the server-provided explanation from the response body, when present.
func classifyStatus(status int, detail string) *Error {
	e := &Error{StatusCode: status}

	switch status {
	case http.StatusUnauthorized:
		e.Kind = KindAuth
		e.Message = "Authentication required. Please login again."
	case http.StatusRequestEntityTooLarge:
		e.Kind = KindTooLarge
		e.Message = "File is too large. Maximum file size is 10MB."
	case http.StatusBadRequest:
		e.Kind = KindValidation
		e.Message = detail
		if e.Message == "" {
			e.Message = "Invalid request. Please check your input."
		}
	case http.StatusNotFound:
		e.Kind = KindNotFound
		e.Message = "API endpoint not found. Please check backend configuration."
	case http.StatusInternalServerError:
		e.Kind = KindServer
		e.Message = "Server error. Please try again later."
	default:
		e.Kind = KindOther
		e.Message = "An error occurred while processing your request."
	}
	return e
}
