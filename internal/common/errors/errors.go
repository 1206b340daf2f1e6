// Package errors provides standardized error handling for the Pharmelo API.
package errors

import (
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeDuplicateEmail       ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeDuplicateValue       ErrorCode = "DUPLICATE_VALUE"
	ErrCodeEmptyField           ErrorCode = "EMPTY_FIELD"
	ErrCodeInvalidRole          ErrorCode = "INVALID_ROLE"
	ErrCodeSurveyInvalid        ErrorCode = "SURVEY_INVALID"
	ErrCodeSchemaNotProvisioned ErrorCode = "SCHEMA_NOT_PROVISIONED"

	ErrCodeDatabaseInsertFailed ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDatabaseQueryFailed  ErrorCode = "DATABASE_QUERY_FAILED"
	ErrCodeConfigFetchFailed    ErrorCode = "CONFIG_FETCH_FAILED"

	ErrCodeAIGenerationFailed ErrorCode = "AI_GENERATION_FAILED"
	ErrCodeNewsletterFailed   ErrorCode = "NEWSLETTER_FAILED"

	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// New creates a StandardError with the given code and message.
func New(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Wrap creates a StandardError carrying the underlying error as details.
func Wrap(code ErrorCode, message string, err error) *StandardError {
	se := New(code, message)
	if err != nil {
		se.Details = err.Error()
	}
	return se
}

// CodeOf extracts the ErrorCode from an error chain, or "" if none.
func CodeOf(err error) ErrorCode {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// ==========================
// 2. Postgres Error Mapping
// ==========================

// Postgres error codes the duplicate/provisioning detection relies on.
const (
	pgUniqueViolation = "23505"
	pgUndefinedTable  = "42P01"
)

// IsDuplicateKey reports whether err is a unique-constraint violation.
func IsDuplicateKey(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}
	code := CodeOf(err)
	return code == ErrCodeDuplicateEmail || code == ErrCodeDuplicateValue
}

// IsUndefinedTable reports whether err indicates the schema was never
// provisioned. The admin dashboard turns this into a "run the setup
// script" instruction.
func IsUndefinedTable(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUndefinedTable
	}
	return CodeOf(err) == ErrCodeSchemaNotProvisioned
}

// FromStoreError translates a raw store error into a StandardError with the
// matching code, so handlers can pick user-facing messages without touching
// driver types. A unique-constraint hit maps to the neutral duplicate-value
// code; email-unique inserts use FromSignupError for the email-specific one.
func FromStoreError(err error, op string) *StandardError {
	switch {
	case IsDuplicateKey(err):
		return Wrap(ErrCodeDuplicateValue, fmt.Sprintf("%s: duplicate entry", op), err)
	case IsUndefinedTable(err):
		return Wrap(ErrCodeSchemaNotProvisioned,
			fmt.Sprintf("%s: backing table missing, run scripts/setup (cmd/tools/schema-setup)", op), err)
	default:
		return Wrap(ErrCodeDatabaseQueryFailed, op, err)
	}
}

// FromSignupError is FromStoreError for the email-unique signup tables: a
// duplicate there means the address is already registered, which gets its
// own message.
func FromSignupError(err error, op string) *StandardError {
	if IsDuplicateKey(err) {
		return Wrap(ErrCodeDuplicateEmail, fmt.Sprintf("%s: email already registered", op), err)
	}
	return FromStoreError(err, op)
}

// ==========================
// 3. User-Facing Messages
// ==========================

const (
	// MsgAlreadyRegistered is shown for duplicate-email submissions and must
	// stay distinct from MsgGenericFailure.
	MsgAlreadyRegistered = "You're already on the list!"
	MsgDuplicateValue    = "That value is already in use."
	MsgGenericFailure    = "Something went wrong. Please try again."
	MsgSchemaMissing     = "Database tables are missing. Run the setup script to provision the schema."
)

// UserMessage maps an error to the message a form or dashboard should show.
func UserMessage(err error) string {
	switch CodeOf(err) {
	case ErrCodeDuplicateEmail:
		return MsgAlreadyRegistered
	case ErrCodeDuplicateValue:
		return MsgDuplicateValue
	case ErrCodeSchemaNotProvisioned:
		return MsgSchemaMissing
	case ErrCodeEmptyField, ErrCodeInvalidRole, ErrCodeSurveyInvalid:
		var se *StandardError
		if errors.As(err, &se) && se.Message != "" {
			return se.Message
		}
		return MsgGenericFailure
	default:
		return MsgGenericFailure
	}
}
