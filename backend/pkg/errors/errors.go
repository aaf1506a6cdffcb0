package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeConnectivity represents a database that is unreachable or missing
	ErrorTypeConnectivity ErrorType = "connectivity"
	// ErrorTypeSchemaSyntax represents a DDL statement the database rejected as invalid
	ErrorTypeSchemaSyntax ErrorType = "schema_syntax"
	// ErrorTypeSchemaTimeout represents a DDL operation that exceeded its bounded wait
	ErrorTypeSchemaTimeout ErrorType = "schema_timeout"
	// ErrorTypeSchemaBenign represents a DDL object that already exists
	ErrorTypeSchemaBenign ErrorType = "schema_benign"
	// ErrorTypeRowValidation represents a seed row that failed local validation
	ErrorTypeRowValidation ErrorType = "row_validation"
	// ErrorTypeTransactionAborted represents a commit lost to contention
	ErrorTypeTransactionAborted ErrorType = "transaction_aborted"
	// ErrorTypeUnexpected represents anything not covered by the other kinds
	ErrorTypeUnexpected ErrorType = "unexpected"

	// Read-path query failures
	ErrorTypeNotFound         ErrorType = "not_found"
	ErrorTypePermissionDenied ErrorType = "permission_denied"
	ErrorTypeInvalidArgument  ErrorType = "invalid_argument"

	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// Kind reports the error category. Promoted to every error embedding BaseError.
func (e *BaseError) Kind() ErrorType {
	return e.Type
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Connectivity Errors

// ErrConnectivity is returned when the target database cannot be reached or does not exist
type ErrConnectivity struct {
	*BaseError
	Target string
}

func NewConnectivity(target string, err error) *ErrConnectivity {
	return &ErrConnectivity{
		BaseError: NewBaseError(ErrorTypeConnectivity, fmt.Sprintf("database unavailable: %s", target), err),
		Target:    target,
	}
}

// Schema Errors

// ErrSchemaSyntax is returned when a DDL statement is rejected as invalid
type ErrSchemaSyntax struct {
	*BaseError
	Statement string
}

func NewSchemaSyntax(statement string, err error) *ErrSchemaSyntax {
	return &ErrSchemaSyntax{
		BaseError: NewBaseError(ErrorTypeSchemaSyntax, fmt.Sprintf("invalid DDL statement: %s", statement), err),
		Statement: statement,
	}
}

// ErrSchemaTimeout is returned when a DDL operation does not finish within its wait
type ErrSchemaTimeout struct {
	*BaseError
	Operation string
	Timeout   time.Duration
}

func NewSchemaTimeout(operation string, timeout time.Duration, err error) *ErrSchemaTimeout {
	return &ErrSchemaTimeout{
		BaseError: NewBaseError(ErrorTypeSchemaTimeout, fmt.Sprintf("schema operation timed out: %s (timeout: %v)", operation, timeout), err),
		Operation: operation,
		Timeout:   timeout,
	}
}

// ErrSchemaBenign is returned when a DDL object already exists or its precondition already holds
type ErrSchemaBenign struct {
	*BaseError
	Operation string
}

func NewSchemaBenign(operation string, err error) *ErrSchemaBenign {
	return &ErrSchemaBenign{
		BaseError: NewBaseError(ErrorTypeSchemaBenign, fmt.Sprintf("schema object already present: %s", operation), err),
		Operation: operation,
	}
}

// Seed Errors

// ErrRowValidation is returned for a seed row that is skipped instead of inserted
type ErrRowValidation struct {
	*BaseError
	Entity string
	Reason string
}

func NewRowValidation(entity, reason string) *ErrRowValidation {
	return &ErrRowValidation{
		BaseError: NewBaseError(ErrorTypeRowValidation, fmt.Sprintf("skipped %s: %s", entity, reason), nil),
		Entity:    entity,
		Reason:    reason,
	}
}

// ErrTransactionAborted is returned when the database aborted a commit because of contention.
// The caller may retry the whole unit of work.
type ErrTransactionAborted struct {
	*BaseError
}

func NewTransactionAborted(err error) *ErrTransactionAborted {
	return &ErrTransactionAborted{
		BaseError: NewBaseError(ErrorTypeTransactionAborted, "transaction aborted, safe to retry", err),
	}
}

// ErrUnexpected wraps any failure outside the other kinds
type ErrUnexpected struct {
	*BaseError
	Operation string
}

func NewUnexpected(operation string, err error) *ErrUnexpected {
	return &ErrUnexpected{
		BaseError: NewBaseError(ErrorTypeUnexpected, fmt.Sprintf("unexpected failure: %s", operation), err),
		Operation: operation,
	}
}

// Query Errors

// ErrQueryFailed is returned by read queries. Kind is one of not_found,
// permission_denied, invalid_argument or unexpected.
type ErrQueryFailed struct {
	*BaseError
	Query string
}

func NewQueryFailed(kind ErrorType, query string, err error) *ErrQueryFailed {
	return &ErrQueryFailed{
		BaseError: NewBaseError(kind, "query failed", err),
		Query:     query,
	}
}

// Config Errors

// ErrConfigValidationFailed is returned when configuration validation fails
type ErrConfigValidationFailed struct {
	*BaseError
	Field  string
	Reason string
}

func NewConfigValidationFailed(field, reason string) *ErrConfigValidationFailed {
	return &ErrConfigValidationFailed{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("config validation failed: %s - %s", field, reason), nil),
		Field:     field,
		Reason:    reason,
	}
}

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

type kinded interface {
	Kind() ErrorType
}

// KindOf returns the category of the first classified error in the chain,
// or an empty ErrorType when none is found.
func KindOf(err error) ErrorType {
	var k kinded
	if stderrors.As(err, &k) {
		return k.Kind()
	}
	return ""
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	return err != nil && KindOf(err) == errType
}

// IsRetryable checks if an error is retryable. Only contention aborts are;
// the caller reruns the whole unit of work.
func IsRetryable(err error) bool {
	return IsErrorType(err, ErrorTypeTransactionAborted)
}

// IsFatal reports whether err must stop setup. Benign schema errors and
// skipped rows are not fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case ErrorTypeSchemaBenign, ErrorTypeRowValidation:
		return false
	}
	return true
}
