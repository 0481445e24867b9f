package oauthmodel

import "fmt"

// ErrorKind is the standardized OAuth2 error identifier returned to callers.
// The HTTP layer maps each kind onto its RFC 6749 / RFC 7009 status code;
// this package only guarantees that the kind and description are stable.
type ErrorKind string

const (
	// ErrorInvalidClient indicates client authentication failed, or the
	// client is not permitted to use the requested grant/response type.
	ErrorInvalidClient ErrorKind = "invalid_client"

	// ErrorInvalidGrant indicates the authorization code or refresh token is
	// invalid, expired or mismatched, or resource owner credentials failed.
	ErrorInvalidGrant ErrorKind = "invalid_grant"

	// ErrorInvalidScope indicates the requested scope exceeds what the
	// client is permitted.
	ErrorInvalidScope ErrorKind = "invalid_scope"

	// ErrorInvalidToken indicates a token submitted for revocation was not
	// found or is not owned by the revoking client.
	ErrorInvalidToken ErrorKind = "invalid_token"

	// ErrorServerError indicates a persistence or signing failure that must
	// not leak internals to the caller.
	ErrorServerError ErrorKind = "server_error"
)

// Error is a protocol-level failure carrying its taxonomy kind and a
// human-readable description. Grant handlers return these for every domain
// validation failure; persistence errors are logged and re-surfaced as
// ErrorServerError.
type Error struct {
	Kind        ErrorKind
	Description string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Description)
}

// NewError creates a protocol error of the given kind.
func NewError(kind ErrorKind, description string) *Error {
	return &Error{Kind: kind, Description: description}
}

func InvalidClient(description string) *Error {
	return NewError(ErrorInvalidClient, description)
}

func InvalidGrant(description string) *Error {
	return NewError(ErrorInvalidGrant, description)
}

func InvalidScope(description string) *Error {
	return NewError(ErrorInvalidScope, description)
}

func InvalidToken(description string) *Error {
	return NewError(ErrorInvalidToken, description)
}

func ServerError(description string) *Error {
	return NewError(ErrorServerError, description)
}

// KindOf extracts the protocol error kind from err, returning ok=false when
// err is not a protocol error (argument errors and plain failures).
func KindOf(err error) (ErrorKind, bool) {
	protoErr, ok := err.(*Error)
	if !ok {
		return "", false
	}
	return protoErr.Kind, true
}

// ArgumentError reports a nil or empty required input. It is raised before
// any protocol validation runs and signals a caller bug rather than a
// protocol violation, so it deliberately does not carry an ErrorKind.
type ArgumentError struct {
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("argument %q must not be nil or empty", e.Name)
}

// NewArgumentError creates an ArgumentError for the named parameter.
func NewArgumentError(name string) *ArgumentError {
	return &ArgumentError{Name: name}
}
