package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// ErrInvalidJournalMethod is returned when a staged posting names a method
// other than debit or credit.
var ErrInvalidJournalMethod = errors.New("journal methods must be credit or debit")

// ErrInvalidJournalEntryValue is returned when a staged posting amount is
// zero or negative.
var ErrInvalidJournalEntryValue = errors.New("journal transaction entries must be a positive value")

// ErrJournalAlreadyExists is returned when initializing a journal for an
// owner that already has one.
var ErrJournalAlreadyExists = errors.New("journal already exists")

// ErrUnbalancedTransaction is the sentinel behind UnbalancedError.
var ErrUnbalancedTransaction = errors.New("double entry requires that debits equal credits")

// ErrTransactionNotProcessed wraps storage failures during the atomic apply
// phase of a commit; the atomic scope has already rolled back when it is
// returned.
var ErrTransactionNotProcessed = errors.New("double entry transaction could not be processed")

// ErrReferenceResolution is returned when a stored reference tag cannot be
// resolved by the reference collaborator.
var ErrReferenceResolution = errors.New("referenced object could not be resolved")

// UnbalancedError reports a failed commit invariant check with both totals
// for diagnosability.
type UnbalancedError struct {
	Credits int64
	Debits  int64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%s: in this transaction, credits == %d and debits == %d", ErrUnbalancedTransaction, e.Credits, e.Debits)
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalancedTransaction
}

// NewTransactionNotProcessed wraps the underlying cause of a rolled-back
// commit.
func NewTransactionNotProcessed(cause error) error {
	return fmt.Errorf("%w: rolling back database: %w", ErrTransactionNotProcessed, cause)
}

// AppError carries an HTTP-like status code alongside a message and an
// optional wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}
