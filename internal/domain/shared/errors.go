package shared

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrDuplicateRequest    = NewDomainError("DUPLICATE_REQUEST", "Request with this idempotency key was already processed")
)

// Sale, stock and payment errors. Callers match them with errors.Is.
var (
	ErrInsufficientStock             = NewDomainError("INSUFFICIENT_STOCK", "Insufficient stock available")
	ErrInsufficientStockUnauthorized = NewDomainError("INSUFFICIENT_STOCK_UNAUTHORIZED", "Quantity exceeds available stock and no valid authorization code was supplied")
	ErrBelowCostUnauthorized         = NewDomainError("BELOW_COST_UNAUTHORIZED", "Selling price is below cost and no valid authorization code was supplied")
	ErrInvalidAuthorization          = NewDomainError("INVALID_AUTHORIZATION", "Authorization code is invalid")
	ErrPaymentExceedsBalance         = NewDomainError("PAYMENT_EXCEEDS_BALANCE", "Payment amount exceeds the remaining balance")
	ErrProductNotFound               = NewDomainError("PRODUCT_NOT_FOUND", "Product not found")
	ErrCustomerNotFound              = NewDomainError("CUSTOMER_NOT_FOUND", "Customer not found")
	ErrSaleNotFound                  = NewDomainError("SALE_NOT_FOUND", "Sale not found")
	ErrInvalidQuantityOrPrice        = NewDomainError("INVALID_QUANTITY_OR_PRICE", "Quantity must be positive and prices/amounts cannot be negative")
	ErrInvalidPaymentMode            = NewDomainError("INVALID_PAYMENT_MODE", "Payment mode is not valid")
)
