package domain

import "errors"

// Sentinel errors for the user/auth domain. The API layer maps each of these
// to a status code and envelope error code exactly once, in the central
// error handler.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")

	// Bearer-token failure modes. Each maps to 401 with its own message so a
	// client can tell an expired token from a tampered one.
	ErrTokenMissing   = errors.New("no token provided")
	ErrTokenMalformed = errors.New("malformed authorization header")
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenUserGone  = errors.New("user no longer exists")
)

// UpstreamKind tags the failure class of a third-party call.
type UpstreamKind string

const (
	UpstreamRateLimited  UpstreamKind = "rate_limited"
	UpstreamUnauthorized UpstreamKind = "unauthorized"
	UpstreamMalformed    UpstreamKind = "malformed"
	UpstreamNotFound     UpstreamKind = "not_found"
)

// UpstreamError is a normalized third-party failure. The kind drives the
// status mapping at the API edge; the message is what clients see and keeps
// the wording of the upstream integrations ("Rate limit exceeded…",
// "Invalid API key", "Invalid response format…").
type UpstreamError struct {
	Kind    UpstreamKind
	Message string
}

func (e *UpstreamError) Error() string { return e.Message }

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every failing field of one request part.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string { return "validation failed" }

// NewValidationError builds a ValidationError from field/message pairs.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}
