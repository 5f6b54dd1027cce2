package error

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidQuantity     = 4001
	CodeValidation          = 4002
	CodeInvalidDuration     = 4003
	CodeInvalidTransition   = 4004
	CodeConstraintViolation = 4005
	CodeItemNotFound        = 4040
	CodeUserNotFound        = 4041
	CodeTransactionNotFound = 4042
	CodeConflict            = 4090
	CodeDuplicateItem       = 4091

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInvalidQuantity is returned when a requested borrow exceeds availability
	// or a returned quantity would exceed the borrowed quantity
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrValidation is returned when required transaction metadata is missing or malformed
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDuration is returned when a borrow duration is zero, negative,
	// or an extension would not move the due date forward
	ErrInvalidDuration = errors.New("invalid borrow duration")

	// ErrInvalidTransition is returned when an operation is not permitted in the
	// transaction's current state
	ErrInvalidTransition = errors.New("operation not permitted in current state")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrItemNotFound is returned when the referenced item barcode doesn't exist
	ErrItemNotFound = errors.New("item not found")

	// ErrUserNotFound is returned when the referenced borrower doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a concurrent modification is detected via
	// a version mismatch on the transaction document
	ErrConflict = errors.New("transaction was modified concurrently")

	// ErrDuplicateItem is returned when an item with the same barcode already exists
	ErrDuplicateItem = errors.New("item with this barcode already exists")

	// ErrDuplicateUser is returned when a user with the same contact already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotApproved is returned when a borrower has not been approved yet
	ErrUserNotApproved = errors.New("user is not approved for borrowing")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrDatabaseConnection is returned when there's a problem connecting to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidQuantity):
		return CodeInvalidQuantity
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrInvalidDuration):
		return CodeInvalidDuration
	case errors.Is(err, ErrInvalidTransition):
		return CodeInvalidTransition
	case errors.Is(err, ErrItemNotFound):
		return CodeItemNotFound
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrDuplicateItem), errors.Is(err, ErrDuplicateUser):
		return CodeDuplicateItem
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	default:
		return CodeInternalServer
	}
}

// QuantityError carries the item and numeric limit so the caller can correct
// the input. Used for both over-borrowing and over-returning.
type QuantityError struct {
	ItemBarcode string
	ItemName    string
	Requested   int
	Limit       int
	Reason      string
}

// Error implements the error interface for QuantityError
func (e *QuantityError) Error() string {
	return fmt.Sprintf("%s for item %q (%s): requested %d, limit %d",
		e.Reason, e.ItemName, e.ItemBarcode, e.Requested, e.Limit)
}

// Is checks if the target error is an ErrInvalidQuantity
func (e *QuantityError) Is(target error) bool {
	return target == ErrInvalidQuantity
}

// LogFields returns a map of fields for structured logging
func (e *QuantityError) LogFields() map[string]any {
	return map[string]any{
		"error_type":   "quantity_error",
		"item_barcode": e.ItemBarcode,
		"item_name":    e.ItemName,
		"requested":    e.Requested,
		"limit":        e.Limit,
		"reason":       e.Reason,
		"error_code":   CodeInvalidQuantity,
	}
}

// NewAvailabilityError reports a borrow request that exceeds current availability
func NewAvailabilityError(barcode, name string, requested, available int) error {
	return &QuantityError{
		ItemBarcode: barcode,
		ItemName:    name,
		Requested:   requested,
		Limit:       available,
		Reason:      "insufficient availability",
	}
}

// NewReturnExceededError reports a return that would exceed the borrowed quantity
func NewReturnExceededError(barcode, name string, requested, borrowed int) error {
	return &QuantityError{
		ItemBarcode: barcode,
		ItemName:    name,
		Requested:   requested,
		Limit:       borrowed,
		Reason:      "returned quantity exceeds borrowed quantity",
	}
}

// ValidationError carries a field-level message list for missing or malformed
// request metadata
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface for ValidationError
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is checks if the target error is an ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// LogFields returns a map of fields for structured logging
func (e *ValidationError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "validation_error",
		"fields":     e.Fields,
		"error_code": CodeValidation,
	}
}

// NewValidationError creates a field-level validation error
func NewValidationError(fields map[string]string) error {
	return &ValidationError{Fields: fields}
}

// ConflictError reports a concurrent modification detected via version mismatch
type ConflictError struct {
	TransactionID   string
	ExpectedVersion uint64
}

// Error implements the error interface for ConflictError
func (e *ConflictError) Error() string {
	return fmt.Sprintf("transaction %s was modified concurrently (expected version %d)",
		e.TransactionID, e.ExpectedVersion)
}

// Is checks if the target error is an ErrConflict
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// LogFields returns a map of fields for structured logging
func (e *ConflictError) LogFields() map[string]any {
	return map[string]any{
		"error_type":       "conflict_error",
		"transaction_id":   e.TransactionID,
		"expected_version": e.ExpectedVersion,
		"error_code":       CodeConflict,
	}
}

// NewConflictError creates a new detailed conflict error
func NewConflictError(transactionID string, expectedVersion uint64) error {
	return &ConflictError{
		TransactionID:   transactionID,
		ExpectedVersion: expectedVersion,
	}
}

// TransitionError reports an operation attempted in a state that does not allow it
type TransitionError struct {
	TransactionID string
	Status        string
	Operation     string
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s transaction %s in status %q",
		e.Operation, e.TransactionID, e.Status)
}

// Is checks if the target error is an ErrInvalidTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "transition_error",
		"transaction_id": e.TransactionID,
		"status":         e.Status,
		"operation":      e.Operation,
		"error_code":     CodeInvalidTransition,
	}
}

// NewTransitionError creates a new invalid transition error
func NewTransitionError(transactionID, status, operation string) error {
	return &TransitionError{
		TransactionID: transactionID,
		Status:        status,
		Operation:     operation,
	}
}

// IsInvalidQuantityError checks if the error is a quantity violation
func IsInvalidQuantityError(err error) bool {
	return errors.Is(err, ErrInvalidQuantity)
}

// IsValidationError checks if the error is a field validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsConflictError checks if the error is a concurrent modification conflict
func IsConflictError(err error) bool {
	return errors.Is(err, ErrConflict)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrItemNotFound) ||
		errors.Is(err, ErrTransactionNotFound)
}
