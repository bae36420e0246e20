package dto

import "net/http"

// Generic error codes used directly by the HTTP layer
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed request payloads
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// domainCodeHTTPStatus maps domain error codes that are not plain
// validation failures to their HTTP status. Validation-style codes
// (INVALID_QUANTITY, EMPLOYEE_REQUIRED and friends) fall through to
// 400 via GetHTTPStatus.
var domainCodeHTTPStatus = map[string]int{
	"NOT_FOUND":      http.StatusNotFound,
	"ALREADY_EXISTS": http.StatusConflict,
	"FORBIDDEN":      http.StatusForbidden,

	// Conflicts between the request and the document's ledger state
	"INSUFFICIENT_STOCK":      http.StatusConflict,
	"LOCATION_LOCKED":         http.StatusConflict,
	"REQUEST_APPROVED_LOCKED": http.StatusConflict,
	"CONCURRENCY_CONFLICT":    http.StatusConflict,
	"INVALID_STATE":           http.StatusConflict,
	"INVALID_RELEASE":         http.StatusConflict,

	// Completed documents are locked for non-admin actors
	"SALE_LOCKED": http.StatusForbidden,

	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
}

// GetHTTPStatus returns the HTTP status for a domain error code.
// Unmapped codes are treated as input validation failures.
func GetHTTPStatus(code string) int {
	if status, ok := domainCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusBadRequest
}
