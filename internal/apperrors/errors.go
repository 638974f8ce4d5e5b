package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInternal is returned when an unexpected failure is hidden from the caller.
var ErrInternal = errors.New("internal error")

// ErrUsage marks a caller-side contract violation (contradictory or insufficient arguments).
// It is raised before any pipeline logic runs.
var ErrUsage = errors.New("usage error")

// ErrMissingCredentials indicates that the configuration lacks credentials required for the operation.
var ErrMissingCredentials = errors.New("missing credentials")

// ErrExtraction is the class of terminal extraction failures.
var ErrExtraction = errors.New("extraction failed")

// ErrUnmappedAccount is the class of mapping failures during transform.
var ErrUnmappedAccount = errors.New("unmapped account")

// ErrIntegrity is the class of referential integrity failures during load.
var ErrIntegrity = errors.New("integrity violation")

// ErrCoverage is the class of reconciliation coverage failures (missing external balances).
var ErrCoverage = errors.New("coverage failure")

// ErrScopeUnresolved means storage cannot resolve any account for the requested scope.
var ErrScopeUnresolved = errors.New("scope unresolved")

// ErrGateFailed means one or more reconciliation gates did not pass.
var ErrGateFailed = errors.New("reconciliation gate failed")

// AppError carries an HTTP-ish status code together with a message and an underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError wraps err with a status code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// Exit statuses of command-line wrappers around the pipeline.
const (
	ExitSuccess     = 0
	ExitOperational = 1
	ExitUsage       = 2
	ExitInfra       = 3
)

// operational lists the error classes that map to ExitOperational.
var operational = []error{
	ErrGateFailed,
	ErrCoverage,
	ErrScopeUnresolved,
	ErrUnmappedAccount,
	ErrIntegrity,
	ErrExtraction,
	ErrMissingCredentials,
	ErrValidation,
	ErrNotFound,
}

// ExitCode maps an error to the exit-status contract: 0 for nil, 2 for usage errors,
// 1 for operational and gate failures, 3 for anything else (storage, I/O, unexpected).
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, ErrUsage) {
		return ExitUsage
	}
	for _, target := range operational {
		if errors.Is(err, target) {
			return ExitOperational
		}
	}
	return ExitInfra
}

// HTTPStatus maps an error to the status code the admin API responds with.
func HTTPStatus(err error) int {
	var appErr *AppError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrUsage), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrScopeUnresolved):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrGateFailed), errors.Is(err, ErrCoverage),
		errors.Is(err, ErrUnmappedAccount), errors.Is(err, ErrIntegrity):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrExtraction):
		return http.StatusBadGateway
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusServiceUnavailable
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// IntegrityError reports a journal line whose account cannot be resolved in the chart of accounts.
type IntegrityError struct {
	TxnID       string
	AccountCode string
	AccountID   string
	Err         error // Storage cause, if any
}

func (e *IntegrityError) Error() string {
	ref := e.AccountCode
	if ref == "" {
		ref = e.AccountID
	}
	msg := fmt.Sprintf("No ledger account found for code: %s (txn %s)", ref, e.TxnID)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *IntegrityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrIntegrity}
	}
	return []error{ErrIntegrity, e.Err}
}
