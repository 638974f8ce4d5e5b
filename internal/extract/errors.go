package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
)

var (
	// ErrSequenceConsumed is yielded when a FetchAll sequence is ranged over a second time.
	ErrSequenceConsumed = errors.New("extract: sequence already consumed")
	// ErrPageLimitExceeded means the source still reported more pages when the page budget ran out.
	ErrPageLimitExceeded = errors.New("extract: page limit exceeded")
)

// TransientError marks a failure that is worth retrying (rate limiting, server errors).
type TransientError struct {
	StatusCode int
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("transient failure (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transient failure: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// StatusError is a non-retryable HTTP failure such as an auth or validation error.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// ExtractionError is the terminal failure of a page fetch, naming the page index and the last error.
// Attempts is zero when the page was never requested, as when the page limit stops the run.
type ExtractionError struct {
	Page     int
	Attempts int
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Attempts == 0 {
		return fmt.Sprintf("extraction stopped before page %d: %v", e.Page, e.Err)
	}
	return fmt.Sprintf("extraction failed on page %d after %d attempt(s): %v", e.Page, e.Attempts, e.Err)
}

func (e *ExtractionError) Unwrap() []error { return []error{apperrors.ErrExtraction, e.Err} }

// ClassifyStatus converts an HTTP status into nil, a *TransientError for 429/500/502/503/504, or a
// *StatusError for any other non-2xx code.
func ClassifyStatus(code int, body string) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusTooManyRequests,
		code == http.StatusInternalServerError,
		code == http.StatusBadGateway,
		code == http.StatusServiceUnavailable,
		code == http.StatusGatewayTimeout:
		return &TransientError{StatusCode: code, Err: &StatusError{StatusCode: code, Body: body}}
	default:
		return &StatusError{StatusCode: code, Body: body}
	}
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var te *TransientError
	if errors.As(err, &te) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	var oe *net.OpError
	if errors.As(err, &oe) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF)
}
