package dto

import "net/http"

// Error codes returned to clients.
// Format: ERR_<DESCRIPTION>

// General error codes
const (
	ErrCodeUnknown  = "ERR_UNKNOWN"
	ErrCodeInternal = "ERR_INTERNAL"
)

// Validation error codes
const (
	ErrCodeValidation         = "ERR_VALIDATION"
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	ErrCodeValidationFormat   = "ERR_VALIDATION_FORMAT"
	ErrCodeValidationRange    = "ERR_VALIDATION_RANGE"
	ErrCodeValidationLength   = "ERR_VALIDATION_LENGTH"
)

// Resource error codes
const (
	ErrCodeNotFound            = "ERR_NOT_FOUND"
	ErrCodeProductNotFound     = "ERR_PRODUCT_NOT_FOUND"
	ErrCodeCustomerNotFound    = "ERR_CUSTOMER_NOT_FOUND"
	ErrCodeSaleNotFound        = "ERR_SALE_NOT_FOUND"
	ErrCodeAlreadyExists       = "ERR_ALREADY_EXISTS"
	ErrCodeConflict            = "ERR_CONFLICT"
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
	ErrCodeDuplicateRequest    = "ERR_DUPLICATE_REQUEST"
)

// Business rule error codes
const (
	ErrCodeInvalidState                  = "ERR_INVALID_STATE"
	ErrCodeInsufficientStock             = "ERR_INSUFFICIENT_STOCK"
	ErrCodeInsufficientStockUnauthorized = "ERR_INSUFFICIENT_STOCK_UNAUTHORIZED"
	ErrCodeBelowCostUnauthorized         = "ERR_BELOW_COST_UNAUTHORIZED"
	ErrCodeInvalidAuthorization          = "ERR_INVALID_AUTHORIZATION"
	ErrCodePaymentExceedsBalance         = "ERR_PAYMENT_EXCEEDS_BALANCE"
)

// Input error codes
const (
	ErrCodeBadRequest             = "ERR_BAD_REQUEST"
	ErrCodeInvalidInput           = "ERR_INVALID_INPUT"
	ErrCodeInvalidJSON            = "ERR_INVALID_JSON"
	ErrCodeInvalidQuantityOrPrice = "ERR_INVALID_QUANTITY_OR_PRICE"
	ErrCodeInvalidPaymentMode     = "ERR_INVALID_PAYMENT_MODE"
	ErrCodeInvalidPeriod          = "ERR_INVALID_PERIOD"
	ErrCodeInvalidPrice           = "ERR_INVALID_PRICE"
	ErrCodeInvalidReorderLevel    = "ERR_INVALID_REORDER_LEVEL"
	ErrCodeInvalidName            = "ERR_INVALID_NAME"
	ErrCodeInvalidUnit            = "ERR_INVALID_UNIT"
	ErrCodeInvalidProduct         = "ERR_INVALID_PRODUCT"
	ErrCodeInvalidPhone           = "ERR_INVALID_PHONE"
	ErrCodeRequestTooLarge        = "ERR_REQUEST_TOO_LARGE"
	ErrCodeRateLimited            = "ERR_RATE_LIMITED"
	ErrCodeServiceUnavailable     = "ERR_SERVICE_UNAVAILABLE"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Validation errors -> 400 Bad Request
	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,
	ErrCodeValidationLength:   http.StatusBadRequest,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeProductNotFound:     http.StatusNotFound,
	ErrCodeCustomerNotFound:    http.StatusNotFound,
	ErrCodeSaleNotFound:        http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeDuplicateRequest:    http.StatusConflict,

	// Overrides the caller was not allowed to make -> 403 Forbidden
	ErrCodeInsufficientStockUnauthorized: http.StatusForbidden,
	ErrCodeBelowCostUnauthorized:         http.StatusForbidden,
	ErrCodeInvalidAuthorization:          http.StatusForbidden,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState:          http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock:     http.StatusUnprocessableEntity,
	ErrCodePaymentExceedsBalance: http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:             http.StatusBadRequest,
	ErrCodeInvalidInput:           http.StatusBadRequest,
	ErrCodeInvalidJSON:            http.StatusBadRequest,
	ErrCodeInvalidQuantityOrPrice: http.StatusBadRequest,
	ErrCodeInvalidPaymentMode:     http.StatusBadRequest,
	ErrCodeInvalidPeriod:          http.StatusBadRequest,
	ErrCodeInvalidPrice:           http.StatusBadRequest,
	ErrCodeInvalidReorderLevel:    http.StatusBadRequest,
	ErrCodeInvalidName:            http.StatusBadRequest,
	ErrCodeInvalidUnit:            http.StatusBadRequest,
	ErrCodeInvalidProduct:         http.StatusBadRequest,
	ErrCodeInvalidPhone:           http.StatusBadRequest,
	ErrCodeRequestTooLarge:        http.StatusRequestEntityTooLarge,

	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// NormalizeErrorCode converts a domain error code (e.g. "SALE_NOT_FOUND")
// into its client-facing form ("ERR_SALE_NOT_FOUND").
// Codes already carrying the prefix are returned unchanged.
func NormalizeErrorCode(code string) string {
	if code == "" {
		return ErrCodeUnknown
	}
	if len(code) > 4 && code[:4] == "ERR_" {
		return code
	}
	return "ERR_" + code
}
