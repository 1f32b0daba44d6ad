package dto

import "net/http"

// Error codes surfaced at the HTTP boundary. Domain codes pass through
// verbatim so callers can act on the specific rule that rejected them.
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	// Input rejections
	"BAD_REQUEST":      http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"VALIDATION_ERROR": http.StatusBadRequest,

	// Resource errors
	"NOT_FOUND":            http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Tenant resolution
	"UNKNOWN_TENANT":     http.StatusNotFound,
	"TENANT_INIT_FAILED": http.StatusServiceUnavailable,

	// Ledger business rules
	"UNBALANCED_VOUCHER":       http.StatusUnprocessableEntity,
	"INVALID_LINE":             http.StatusUnprocessableEntity,
	"SYSTEM_ACCOUNT_IMMUTABLE": http.StatusUnprocessableEntity,
	"ACCOUNT_IN_USE":           http.StatusConflict,
	"ALREADY_CANCELLED":        http.StatusConflict,
	"INVALID_STATE":            http.StatusUnprocessableEntity,

	// Fallbacks
	"INTERNAL_ERROR": http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code, defaulting
// to 500 for unknown codes.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
