package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON        = "INVALID_JSON"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorised       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodePersistence        = "PERSISTENCE_ERROR"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// DomainError carries a stable code alongside a human-readable message so
// handlers can map business failures to HTTP statuses without string
// matching.
type DomainError struct {
	Code    string
	Message string
}

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
	ErrEmptyCart          = NewDomainError(ErrCodeValidation, "Cart must contain at least one item")
	ErrBlankCustomerName  = NewDomainError(ErrCodeValidation, "Customer name is required")
	ErrBlankContact       = NewDomainError(ErrCodeValidation, "Customer contact is required")
	ErrBlankItemName      = NewDomainError(ErrCodeValidation, "Menu item name is required")
	ErrBlankItemCategory  = NewDomainError(ErrCodeValidation, "Menu item category is required")
	ErrNegativePrice      = NewDomainError(ErrCodeValidation, "Menu item price must not be negative")
	ErrUnauthorised       = NewDomainError(ErrCodeUnauthorised, "Staff capability is required")
	ErrInvalidCredentials = NewDomainError(ErrCodeInvalidCredentials, "Email or password is incorrect")
	ErrOrderNotFound      = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrMenuItemNotFound   = NewDomainError(ErrCodeNotFound, "Menu item not found")
)
