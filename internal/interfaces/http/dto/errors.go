package dto

import "net/http"

// General error codes
const (
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeValidation = "VALIDATION_ERROR"
)

// Authentication error codes
const (
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid = "TOKEN_INVALID"
)

// Rate limiting error codes
const (
	ErrCodeRateLimited = "RATE_LIMIT_EXCEEDED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes. Codes emitted
// by the domain and application layers are listed explicitly; anything not
// listed falls back to 500 so a new code is never silently treated as a
// client error.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Auth
	ErrCodeUnauthorized:   http.StatusUnauthorized,
	ErrCodeForbidden:      http.StatusForbidden,
	ErrCodeTokenExpired:   http.StatusUnauthorized,
	ErrCodeTokenInvalid:   http.StatusUnauthorized,
	"INVALID_CREDENTIALS": http.StatusUnauthorized,
	"ACCOUNT_LOCKED":      http.StatusForbidden,
	"ACCOUNT_DISABLED":    http.StatusForbidden,
	"EMAIL_NOT_VERIFIED":  http.StatusForbidden,

	// Resources
	"NOT_FOUND":            http.StatusNotFound,
	"ITEM_NOT_FOUND":       http.StatusNotFound,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	// Input validation
	"INVALID_INPUT":          http.StatusBadRequest,
	"INVALID_EMAIL":          http.StatusBadRequest,
	"INVALID_PASSWORD":       http.StatusBadRequest,
	"INVALID_NAME":           http.StatusBadRequest,
	"INVALID_PHONE":          http.StatusBadRequest,
	"INVALID_ADDRESS":        http.StatusBadRequest,
	"INVALID_CODE":           http.StatusBadRequest,
	"INVALID_PRICE":          http.StatusBadRequest,
	"INVALID_QUANTITY":       http.StatusBadRequest,
	"INVALID_CATEGORY":       http.StatusBadRequest,
	"INVALID_STATUS":         http.StatusBadRequest,
	"INVALID_PAYMENT_METHOD": http.StatusBadRequest,
	"INVALID_CARD":           http.StatusBadRequest,
	"INVALID_OTP":            http.StatusBadRequest,
	"OTP_EXPIRED":            http.StatusBadRequest,
	"INVALID_RESET_TOKEN":    http.StatusBadRequest,
	"RESET_TOKEN_EXPIRED":    http.StatusBadRequest,
	"INVALID_STORAGE_KEY":    http.StatusBadRequest,
	"IMAGE_NOT_UPLOADED":     http.StatusBadRequest,
	"INVALID_IMAGE_URL":      http.StatusBadRequest,
	"INVALID_AMOUNT":         http.StatusBadRequest,
	"INVALID_MIN_STOCK":      http.StatusBadRequest,
	"INVALID_PRODUCT":        http.StatusBadRequest,
	"INVALID_PRODUCT_NAME":   http.StatusBadRequest,
	"UNSUPPORTED_MEDIA_TYPE": http.StatusUnsupportedMediaType,

	// Business rules
	"INVALID_STATE":          http.StatusUnprocessableEntity,
	"EMPTY_CART":             http.StatusUnprocessableEntity,
	"INSUFFICIENT_STOCK":     http.StatusUnprocessableEntity,
	"INSUFFICIENT_BALANCE":   http.StatusUnprocessableEntity,
	"ALREADY_PAID":           http.StatusUnprocessableEntity,
	"ORDER_CANCELLED":        http.StatusUnprocessableEntity,
	"REFUND_WINDOW_EXPIRED":  http.StatusUnprocessableEntity,
	"ALREADY_VERIFIED":       http.StatusUnprocessableEntity,
	"ALREADY_ACTIVE":         http.StatusUnprocessableEntity,
	"ALREADY_DEACTIVATED":    http.StatusUnprocessableEntity,
	"PRODUCT_UNAVAILABLE":    http.StatusUnprocessableEntity,
	"CATEGORY_IN_USE":        http.StatusUnprocessableEntity,
	"STORAGE_DISABLED":       http.StatusNotImplemented,
	"ORDER_NUMBER_EXHAUSTED": http.StatusServiceUnavailable,
	"INVARIANT_VIOLATION":    http.StatusInternalServerError,
	"UPSTREAM_FAILURE":       http.StatusBadGateway,

	// Rate limiting
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500 Internal Server Error.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
