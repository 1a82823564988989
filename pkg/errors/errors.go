package custom_error

import "fmt"

type CustomError interface {
	Error() string
}

// UniqueViolationError maps PostgreSQL code 23505 (e.g. duplicate client
// consumer number).
type UniqueViolationError struct {
	message string
	code    string
}

type ForeignKeyViolationError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is still referenced by other resources " + message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// NotFoundError reports that a material or client id did not resolve.
type NotFoundError struct {
	Resource string
	ID       int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id int) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError carries per-field messages for the form layer.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// InsufficientStockError rejects an "out" that would drive stock negative.
type InsufficientStockError struct {
	MaterialID int
	Available  int
	Requested  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for material %d: available %d, requested %d", e.MaterialID, e.Available, e.Requested)
}

// OverReturnError rejects a client return exceeding the outstanding net
// usage for that client/material pair.
type OverReturnError struct {
	MaterialID    int
	MaxReturnable int
}

func (e *OverReturnError) Error() string {
	return fmt.Sprintf("return exceeds outstanding usage for material %d: max returnable %d", e.MaterialID, e.MaxReturnable)
}
