// Package extract pulls ordered pages of raw transaction records from a remote source with bounded,
// jittered retries.
package extract

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
)

// Window bounds the transaction dates requested from the source, both ends inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// Page is one response of the source. An empty NextCursor means no further pages.
type Page struct {
	Records    []domain.RawRecord
	NextCursor string
}

// PageFetcher fetches a single page. Failures should be classified with TransientError or ClassifyStatus.
type PageFetcher interface {
	FetchPage(ctx context.Context, window Window, cursor string) (Page, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc func(ctx context.Context, window Window, cursor string) (Page, error)

func (f PageFetcherFunc) FetchPage(ctx context.Context, window Window, cursor string) (Page, error) {
	return f(ctx, window, cursor)
}

// RetryPolicy controls per-page retries. Delays are BaseDelay*2^n scaled by (1±Jitter).
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Jitter      float64
}

// DefaultRetryPolicy gives roughly 0.5s then 1s between three attempts.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Jitter: 0.2}

// Delay returns the pause after the given zero-based failed attempt. r must lie in [0, 1).
func (p RetryPolicy) Delay(attempt int, r float64) time.Duration {
	base := float64(p.BaseDelay) * float64(int64(1)<<attempt)
	return time.Duration(base * (1 + p.Jitter*(2*r-1)))
}

// Extractor turns a PageFetcher into a lazy record sequence.
type Extractor struct {
	fetcher PageFetcher
	policy  RetryPolicy
	sleep   func(ctx context.Context, d time.Duration) error
	random  func() float64
	logger  *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option { return func(e *Extractor) { e.policy = p } }

// WithSleep replaces the context-aware timer used between attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(e *Extractor) { e.sleep = fn }
}

// WithRandom replaces the jitter source.
func WithRandom(fn func() float64) Option { return func(e *Extractor) { e.random = fn } }

// WithLogger sets the logger used for retry diagnostics.
func WithLogger(l *slog.Logger) Option { return func(e *Extractor) { e.logger = l } }

// New returns an Extractor over fetcher.
func New(fetcher PageFetcher, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher: fetcher,
		policy:  DefaultRetryPolicy,
		sleep:   sleepCtx,
		random:  rand.Float64,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FetchAll yields records in exactly the order the source returns them, page after page, fetching at
// most maxPages pages. The sequence can be ranged over once; a second range yields ErrSequenceConsumed.
// Cancellation is checked before each page.
func (e *Extractor) FetchAll(ctx context.Context, window Window, maxPages int) iter.Seq2[domain.RawRecord, error] {
	var used atomic.Bool
	return func(yield func(domain.RawRecord, error) bool) {
		if used.Swap(true) {
			yield(nil, ErrSequenceConsumed)
			return
		}
		if maxPages <= 0 {
			yield(nil, fmt.Errorf("max pages must be positive, got %d: %w", maxPages, apperrors.ErrUsage))
			return
		}
		if !window.End.IsZero() && window.End.Before(window.Start) {
			yield(nil, fmt.Errorf("window end %s before start %s: %w",
				window.End.Format(time.DateOnly), window.Start.Format(time.DateOnly), apperrors.ErrUsage))
			return
		}

		cursor := ""
		for page := 0; ; page++ {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			p, attempts, err := e.fetchPage(ctx, window, cursor, page)
			if err != nil {
				yield(nil, &ExtractionError{Page: page, Attempts: attempts, Err: err})
				return
			}
			for _, rec := range p.Records {
				if !yield(rec, nil) {
					return
				}
			}
			if p.NextCursor == "" {
				return
			}
			if page+1 >= maxPages {
				yield(nil, &ExtractionError{Page: page + 1, Err: fmt.Errorf("%w: %d pages", ErrPageLimitExceeded, maxPages)})
				return
			}
			cursor = p.NextCursor
		}
	}
}

func (e *Extractor) fetchPage(ctx context.Context, window Window, cursor string, page int) (Page, int, error) {
	attempts := max(e.policy.MaxAttempts, 1)
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := e.policy.Delay(attempt-1, e.random())
			e.logger.Warn("Retrying page fetch",
				slog.Int("page", page),
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay),
				slog.String("error", lastErr.Error()))
			if err := e.sleep(ctx, delay); err != nil {
				return Page{}, attempt, err
			}
		}
		p, err := e.fetcher.FetchPage(ctx, window, cursor)
		if err == nil {
			return p, attempt + 1, nil
		}
		lastErr = err
		if !IsTransient(err) {
			return Page{}, attempt + 1, err
		}
	}
	return Page{}, attempts, lastErr
}

// Collect materializes a record sequence, stopping at the first error.
func Collect(seq iter.Seq2[domain.RawRecord, error]) ([]domain.RawRecord, error) {
	var out []domain.RawRecord
	for rec, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
