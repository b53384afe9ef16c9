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

// Is reports whether target is a DomainError with the same code, so that
// errors.Is(err, ErrNotFound) matches errors created with a custom message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Error codes shared by all farm domains
const (
	CodeNotFound           = "NOT_FOUND"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
)

// Common domain errors
var (
	ErrNotFound           = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists      = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput       = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrUnauthorized       = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInvalidCredentials = NewDomainError(CodeInvalidCredentials, "Invalid email or password")
)

// NewValidationError creates an INVALID_INPUT error with a specific message
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeInvalidInput, message)
}

// NewNotFoundError creates a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}
