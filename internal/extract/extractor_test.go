package extract_test

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/SscSPs/plaid_ledger_recon/internal/apperrors"
	"github.com/SscSPs/plaid_ledger_recon/internal/core/domain"
	"github.com/SscSPs/plaid_ledger_recon/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var window = extract.Window{
	Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
}

type recordedSleeps struct {
	delays []time.Duration
}

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func rec(id string) domain.RawRecord { return domain.RawRecord{"transaction_id": id} }

func ids(records []domain.RawRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.TxnID())
	}
	return out
}

type pagedSource struct {
	pages map[string]extract.Page
	calls []string
}

func (s *pagedSource) FetchPage(_ context.Context, _ extract.Window, cursor string) (extract.Page, error) {
	s.calls = append(s.calls, cursor)
	return s.pages[cursor], nil
}

func threePages() *pagedSource {
	return &pagedSource{pages: map[string]extract.Page{
		"":   {Records: []domain.RawRecord{rec("t3"), rec("t1")}, NextCursor: "c1"},
		"c1": {Records: []domain.RawRecord{rec("t2")}, NextCursor: "c2"},
		"c2": {Records: []domain.RawRecord{rec("t5"), rec("t4")}},
	}}
}

func TestFetchAll_PreservesSourceOrderAcrossPages(t *testing.T) {
	src := threePages()
	ex := extract.New(src)

	records, err := extract.Collect(ex.FetchAll(context.Background(), window, 10))
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t1", "t2", "t5", "t4"}, ids(records))
	assert.Equal(t, []string{"", "c1", "c2"}, src.calls)
}

func TestFetchAll_RetryExhaustionAfterExactlyThreeAttempts(t *testing.T) {
	attempts := 0
	fetcher := extract.PageFetcherFunc(func(context.Context, extract.Window, string) (extract.Page, error) {
		attempts++
		return extract.Page{}, extract.ClassifyStatus(503, "service unavailable")
	})
	sleeps := &recordedSleeps{}
	ex := extract.New(fetcher, extract.WithSleep(sleeps.sleep))

	_, err := extract.Collect(ex.FetchAll(context.Background(), window, 5))

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Len(t, sleeps.delays, 2)
	assert.ErrorIs(t, err, apperrors.ErrExtraction)

	var extErr *extract.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 0, extErr.Page)
	assert.Equal(t, 3, extErr.Attempts)
	var statusErr *extract.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 503, statusErr.StatusCode)
}

func TestFetchAll_RecoversFromTransientFailure(t *testing.T) {
	attempts := 0
	fetcher := extract.PageFetcherFunc(func(context.Context, extract.Window, string) (extract.Page, error) {
		attempts++
		if attempts < 3 {
			return extract.Page{}, &net.OpError{Op: "dial", Err: errors.New("connection refused")}
		}
		return extract.Page{Records: []domain.RawRecord{rec("t1")}}, nil
	})
	sleeps := &recordedSleeps{}
	ex := extract.New(fetcher, extract.WithSleep(sleeps.sleep))

	records, err := extract.Collect(ex.FetchAll(context.Background(), window, 5))
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, ids(records))
	assert.Equal(t, 3, attempts)
}

func TestFetchAll_PermanentErrorIsNotRetried(t *testing.T) {
	attempts := 0
	fetcher := extract.PageFetcherFunc(func(context.Context, extract.Window, string) (extract.Page, error) {
		attempts++
		return extract.Page{}, extract.ClassifyStatus(400, "INVALID_ACCESS_TOKEN")
	})
	sleeps := &recordedSleeps{}
	ex := extract.New(fetcher, extract.WithSleep(sleeps.sleep))

	_, err := extract.Collect(ex.FetchAll(context.Background(), window, 5))
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, sleeps.delays)
	assert.False(t, extract.IsTransient(err))
}

func TestFetchAll_FailureOnLaterPageNamesPageIndex(t *testing.T) {
	fetcher := extract.PageFetcherFunc(func(_ context.Context, _ extract.Window, cursor string) (extract.Page, error) {
		if cursor == "" {
			return extract.Page{Records: []domain.RawRecord{rec("t1")}, NextCursor: "c1"}, nil
		}
		return extract.Page{}, extract.ClassifyStatus(429, "rate limited")
	})
	ex := extract.New(fetcher, extract.WithSleep((&recordedSleeps{}).sleep))

	records, err := extract.Collect(ex.FetchAll(context.Background(), window, 5))
	assert.Equal(t, []string{"t1"}, ids(records))
	var extErr *extract.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, 1, extErr.Page)
}

func TestFetchAll_PageLimitExceeded(t *testing.T) {
	ex := extract.New(threePages())

	records, err := extract.Collect(ex.FetchAll(context.Background(), window, 2))
	assert.Equal(t, []string{"t3", "t1", "t2"}, ids(records))
	assert.ErrorIs(t, err, extract.ErrPageLimitExceeded)
	assert.ErrorIs(t, err, apperrors.ErrExtraction)
	assert.EqualError(t, err, "extraction stopped before page 2: extract: page limit exceeded: 2 pages")
	assert.NotContains(t, err.Error(), "attempt")
}

func TestFetchAll_InvalidMaxPagesIsUsageError(t *testing.T) {
	ex := extract.New(threePages())

	_, err := extract.Collect(ex.FetchAll(context.Background(), window, 0))
	assert.ErrorIs(t, err, apperrors.ErrUsage)
}

func TestFetchAll_IsNotRestartable(t *testing.T) {
	src := threePages()
	seq := extract.New(src).FetchAll(context.Background(), window, 10)

	_, err := extract.Collect(seq)
	require.NoError(t, err)

	_, err = extract.Collect(seq)
	assert.ErrorIs(t, err, extract.ErrSequenceConsumed)
	assert.Len(t, src.calls, 3)
}

func TestFetchAll_EarlyBreakStopsFetching(t *testing.T) {
	src := threePages()
	seq := extract.New(src).FetchAll(context.Background(), window, 10)

	for r, err := range seq {
		require.NoError(t, err)
		assert.Equal(t, "t3", r.TxnID())
		break
	}
	assert.Equal(t, []string{""}, src.calls)
}

func TestFetchAll_CancellationHonoredAtPageBoundary(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := threePages()
	seq := extract.New(src).FetchAll(ctx, window, 10)

	var got []string
	var lastErr error
	for r, err := range seq {
		if err != nil {
			lastErr = err
			break
		}
		got = append(got, r.TxnID())
		cancel()
	}

	assert.Equal(t, []string{"t3", "t1"}, got)
	assert.ErrorIs(t, lastErr, context.Canceled)
	assert.Equal(t, []string{""}, src.calls)
}

func TestRetryPolicy_DelayBounds(t *testing.T) {
	p := extract.DefaultRetryPolicy
	bases := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}

	for attempt, base := range bases {
		low := p.Delay(attempt, 0)
		mid := p.Delay(attempt, 0.5)
		high := p.Delay(attempt, 0.999999)

		assert.InDelta(t, float64(base)*0.8, float64(low), 1e3)
		assert.InDelta(t, float64(base), float64(mid), 1e3)
		assert.InDelta(t, float64(base)*1.2, float64(high), float64(time.Millisecond))
		assert.Greater(t, high, mid)
	}
}

func TestFetchAll_UsesJitteredDelays(t *testing.T) {
	fetcher := extract.PageFetcherFunc(func(context.Context, extract.Window, string) (extract.Page, error) {
		return extract.Page{}, &extract.TransientError{StatusCode: 500, Err: errors.New("boom")}
	})
	sleeps := &recordedSleeps{}
	ex := extract.New(fetcher, extract.WithSleep(sleeps.sleep), extract.WithRandom(func() float64 { return 1 }))

	_, _ = extract.Collect(ex.FetchAll(context.Background(), window, 1))

	require.Len(t, sleeps.delays, 2)
	assert.InDelta(t, float64(600*time.Millisecond), float64(sleeps.delays[0]), 1e3)
	assert.InDelta(t, float64(1200*time.Millisecond), float64(sleeps.delays[1]), 1e3)
}

func TestClassifyStatus(t *testing.T) {
	assert.NoError(t, extract.ClassifyStatus(200, ""))
	for _, code := range []int{429, 500, 502, 503, 504} {
		assert.True(t, extract.IsTransient(extract.ClassifyStatus(code, "")), code)
	}
	for _, code := range []int{400, 401, 403, 404, 501} {
		err := extract.ClassifyStatus(code, "")
		assert.Error(t, err)
		assert.False(t, extract.IsTransient(err), code)
	}
	assert.False(t, extract.IsTransient(context.Canceled))
}
