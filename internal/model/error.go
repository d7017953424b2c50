package model

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON          = "INVALID_JSON"
	ErrCodeMissingField         = "MISSING_FIELD"
	ErrCodeOrderNotFound        = "ORDER_NOT_FOUND"
	ErrCodeOrderNotOpen         = "ORDER_NOT_OPEN"
	ErrCodeEventNotFound        = "EVENT_NOT_FOUND"
	ErrCodeRegistrationNotFound = "REGISTRATION_NOT_FOUND"
	ErrCodeAlreadyRegistered    = "ALREADY_REGISTERED"
	ErrCodeInvalidDiscount      = "INVALID_DISCOUNT"
	ErrCodeUnauthorised         = "UNAUTHORIZED"
	ErrCodeInternalError        = "INTERNAL_ERROR"
)

// Domain errors for business logic
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
	ErrOrderNotFound        = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrOrderNotOpen         = NewDomainError(ErrCodeOrderNotOpen, "Order is no longer a cart")
	ErrEventNotFound        = NewDomainError(ErrCodeEventNotFound, "Event not found")
	ErrRegistrationNotFound = NewDomainError(ErrCodeRegistrationNotFound, "Registration is not part of this order")
	ErrAlreadyRegistered    = NewDomainError(ErrCodeAlreadyRegistered, "Athlete is already registered for this event")
	ErrInvalidDiscount      = NewDomainError(ErrCodeInvalidDiscount, "Invalid discount definition")
)
