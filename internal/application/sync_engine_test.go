package application

import (
	"context"
	"testing"
	"time"

	"github.com/egemenh/salestracker/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCreds = domain.Credentials{GroupID: "123", Cookie: "session-cookie"}

type pageResponse struct {
	page domain.TransactionPage
	err  error
}

type scriptedFeed struct {
	stats      domain.Stats
	statsErr   error
	statsCalls int

	responses []pageResponse
	cursors   []string
}

func (f *scriptedFeed) GetStats(_ context.Context, _ domain.Credentials) (domain.Stats, error) {
	f.statsCalls++
	if f.statsErr != nil {
		return domain.Stats{}, f.statsErr
	}
	return f.stats, nil
}

func (f *scriptedFeed) GetTransactions(_ context.Context, _ domain.Credentials, cursor string) (domain.TransactionPage, error) {
	f.cursors = append(f.cursors, cursor)
	if len(f.responses) == 0 {
		return domain.TransactionPage{}, &domain.FeedError{Status: 404, Message: "no scripted response left"}
	}
	next := f.responses[0]
	f.responses = f.responses[1:]
	return next.page, next.err
}

type recordingSleeper struct {
	slept []time.Duration
}

func (s *recordingSleeper) Sleep(_ context.Context, d time.Duration) error {
	s.slept = append(s.slept, d)
	return nil
}

func transactions(ids ...int64) []domain.Transaction {
	result := make([]domain.Transaction, 0, len(ids))
	for _, id := range ids {
		result = append(result, domain.Transaction{ID: id})
	}
	return result
}

func newTestEngine(feed *scriptedFeed, sleeper *recordingSleeper) *SyncEngine {
	return NewSyncEngine(feed, sleeper, nil)
}

func TestRunPassMissingCredentialsMakesNoNetworkCalls(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{}
	engine := newTestEngine(feed, &recordingSleeper{})

	result := engine.RunPass(context.Background(), PassRequest{})
	require.ErrorIs(t, result.Err, domain.ErrMissingCredentials)
	assert.Zero(t, feed.statsCalls)
	assert.Empty(t, feed.cursors)
}

func TestRunPassStopsAtWatermark(t *testing.T) {
	t.Parallel()

	known := domain.TransactionHistory{{ID: 42}, {ID: 40}}
	feed := &scriptedFeed{
		stats: domain.Stats{Robux: 1000, PendingRobux: 50},
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(50, 45, 42, 40), NextPageCursor: "next"}},
		},
	}
	engine := newTestEngine(feed, &recordingSleeper{})

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds, Known: known})
	require.NoError(t, result.Err)
	require.Len(t, feed.cursors, 1)
	assert.Equal(t, 2, result.Merged)
	require.Len(t, result.History, 4)
	assert.Equal(t, int64(50), result.History[0].ID)
	assert.Equal(t, int64(45), result.History[1].ID)
	assert.Equal(t, int64(42), result.History[2].ID)
	assert.Equal(t, int64(40), result.History[3].ID)
	require.NotNil(t, result.Stats)
	assert.Equal(t, int64(1000), result.Stats.Robux)
}

func TestRunPassIdempotentWhenNothingNew(t *testing.T) {
	t.Parallel()

	known := domain.TransactionHistory{{ID: 42}, {ID: 40}}
	feed := &scriptedFeed{
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(42, 40), NextPageCursor: "next"}},
		},
	}
	engine := newTestEngine(feed, &recordingSleeper{})

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds, Known: known})
	require.NoError(t, result.Err)
	assert.Zero(t, result.Merged)
	assert.Equal(t, known, result.History)
}

func TestRunPassFullBackfillWalksEveryPage(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(60, 59), NextPageCursor: "A"}},
			{page: domain.TransactionPage{Transactions: transactions(58, 57), NextPageCursor: "B"}},
			{page: domain.TransactionPage{Transactions: transactions(56, 55)}},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(feed, sleeper)

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds})
	require.NoError(t, result.Err)
	assert.Equal(t, []string{"", "A", "B"}, feed.cursors)
	assert.Equal(t, 6, result.Merged)
	require.Len(t, result.History, 6)
	assert.Equal(t, int64(60), result.History[0].ID)
	assert.Equal(t, int64(55), result.History[5].ID)

	// One fixed inter-page delay between each of the three requests.
	assert.Equal(t, []time.Duration{DefaultPageDelay, DefaultPageDelay}, sleeper.slept)
}

func TestRunPassBackoffDelaysAreMonotonicAndCapped(t *testing.T) {
	t.Parallel()

	want := []int{5, 10, 15, 20, 25, 30, 30, 30, 30, 30}
	for consecutive, seconds := range want {
		assert.Equal(t, time.Duration(seconds)*time.Second, backoffDelay(consecutive))
	}
}

func TestRunPassRetriesSamePageOnRateLimit(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		responses: []pageResponse{
			{err: &domain.FeedError{Status: 429}},
			{err: &domain.FeedError{Status: 503}},
			{page: domain.TransactionPage{Transactions: transactions(50)}},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(feed, sleeper)

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds, Background: true})
	require.NoError(t, result.Err)
	// Cursor unchanged across retries of the same page.
	assert.Equal(t, []string{"", "", ""}, feed.cursors)
	assert.Equal(t, 1, result.Merged)
	// Background mode sleeps each backoff in one piece: 5s then 10s.
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second}, sleeper.slept)
}

func TestRunPassForegroundBackoffCountsDownInSecondSteps(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		responses: []pageResponse{
			{err: &domain.FeedError{Status: 429}},
			{page: domain.TransactionPage{Transactions: transactions(50)}},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(feed, sleeper)

	var statuses []string
	result := engine.RunPass(context.Background(), PassRequest{
		Credentials: testCreds,
		Status:      func(text string) { statuses = append(statuses, text) },
	})
	require.NoError(t, result.Err)

	// First backoff is 5s: five visible one-second steps.
	require.Len(t, sleeper.slept, 5)
	for _, d := range sleeper.slept {
		assert.Equal(t, time.Second, d)
	}
	assert.Contains(t, statuses, "Rate limited, retrying in 5s...")
	assert.Contains(t, statuses, "Rate limited, retrying in 1s...")
}

func TestRunPassCircuitBreakerTripsOnEleventhError(t *testing.T) {
	t.Parallel()

	responses := make([]pageResponse, 0, 11)
	for i := 0; i < 11; i++ {
		responses = append(responses, pageResponse{err: &domain.FeedError{Status: 429}})
	}
	feed := &scriptedFeed{responses: responses}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(feed, sleeper)

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds, Background: true})
	require.ErrorIs(t, result.Err, domain.ErrFeedUnavailable)
	// Ten retries slept with escalating delays, the eleventh failure aborts.
	require.Len(t, sleeper.slept, 10)
	assert.Equal(t, 5*time.Second, sleeper.slept[0])
	assert.Equal(t, 30*time.Second, sleeper.slept[9])
	assert.Len(t, feed.cursors, 11)
}

func TestRunPassStatsFailureDoesNotBlockTransactionLoop(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		statsErr: &domain.FeedError{Status: 500, Message: "stats down"},
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(50, 45)}},
		},
	}
	engine := newTestEngine(feed, &recordingSleeper{})

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds})
	require.NoError(t, result.Err)
	assert.Nil(t, result.Stats)
	assert.Equal(t, 2, result.Merged)
}

func TestRunPassFatalErrorKeepsCollectedPages(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(50, 45), NextPageCursor: "A"}},
			{err: &domain.FeedError{Status: 401, Message: "unauthorized"}},
		},
	}
	engine := newTestEngine(feed, &recordingSleeper{})

	known := domain.TransactionHistory{{ID: 40}}
	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds, Known: known})
	require.Error(t, result.Err)

	var feedErr *domain.FeedError
	require.ErrorAs(t, result.Err, &feedErr)
	assert.Equal(t, 401, feedErr.Status)

	// The first page was collected before the failure and still merges.
	assert.Equal(t, 2, result.Merged)
	require.Len(t, result.History, 3)
	assert.Equal(t, int64(50), result.History[0].ID)
}

func TestRunPassTransportFailureIsFatal(t *testing.T) {
	t.Parallel()

	feed := &scriptedFeed{
		responses: []pageResponse{
			{err: &domain.FeedError{Status: 0, Message: "connection refused"}},
		},
	}
	sleeper := &recordingSleeper{}
	engine := newTestEngine(feed, sleeper)

	result := engine.RunPass(context.Background(), PassRequest{Credentials: testCreds})
	require.Error(t, result.Err)
	assert.Empty(t, sleeper.slept)
	assert.Len(t, feed.cursors, 1)
}

func TestRunPassCancelledContextAbortsBetweenPages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	feed := &scriptedFeed{
		responses: []pageResponse{
			{page: domain.TransactionPage{Transactions: transactions(50), NextPageCursor: "A"}},
		},
	}
	engine := NewSyncEngine(feed, cancellingSleeper{cancel: cancel}, nil)

	result := engine.RunPass(ctx, PassRequest{Credentials: testCreds})
	require.ErrorIs(t, result.Err, context.Canceled)
	assert.Len(t, feed.cursors, 1)
}

type cancellingSleeper struct {
	cancel context.CancelFunc
}

func (s cancellingSleeper) Sleep(ctx context.Context, _ time.Duration) error {
	s.cancel()
	return ctx.Err()
}
