// Package response owns the API's single envelope shape. Every response,
// success or failure, flows through it:
//
//	{"success": true,  "data": …}
//	{"success": false, "error": {"code": …, "message": …, "details": …}}
package response

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Error codes carried in the envelope. Each pairs with exactly one status.
const (
	CodeValidation      = "VALIDATION_ERROR"      // 400
	CodeUnauthorized    = "UNAUTHORIZED"          // 401
	CodeForbidden       = "FORBIDDEN"             // 403
	CodeNotFound        = "NOT_FOUND"             // 404
	CodeConflict        = "CONFLICT"              // 409
	CodeTooManyRequests = "TOO_MANY_REQUESTS"     // 429
	CodeInternal        = "INTERNAL_SERVER_ERROR" // 500
)

// ErrorDetails is the error half of the envelope.
type ErrorDetails struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Envelope is the wire shape of every response.
type Envelope struct {
	Success bool          `json:"success"`
	Data    any           `json:"data,omitempty"`
	Error   *ErrorDetails `json:"error,omitempty"`
}

// Success writes a 200 envelope around data.
func Success(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 envelope around data.
func Created(c echo.Context, data any) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error writes an error envelope with the given status.
func Error(c echo.Context, status int, code, message string, details any) error {
	return c.JSON(status, Envelope{
		Success: false,
		Error:   &ErrorDetails{Code: code, Message: message, Details: details},
	})
}

// TooManyRequests is the limiter rejection helper; the message is uniform
// per route scope.
func TooManyRequests(c echo.Context, message string) error {
	return Error(c, http.StatusTooManyRequests, CodeTooManyRequests, message, nil)
}
