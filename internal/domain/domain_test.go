package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermarkIDEmptyHistory(t *testing.T) {
	t.Parallel()

	var history TransactionHistory
	_, ok := history.WatermarkID()
	assert.False(t, ok)
}

func TestWatermarkIDReturnsHead(t *testing.T) {
	t.Parallel()

	history := TransactionHistory{{ID: 42}, {ID: 40}, {ID: 37}}
	id, ok := history.WatermarkID()
	require.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestMergeNewerPreservesOrder(t *testing.T) {
	t.Parallel()

	known := TransactionHistory{{ID: 42}, {ID: 40}}
	newer := TransactionHistory{{ID: 50}, {ID: 45}}

	merged := known.MergeNewer(newer)
	require.Len(t, merged, 4)
	assert.Equal(t, int64(50), merged[0].ID)
	assert.Equal(t, int64(45), merged[1].ID)
	assert.Equal(t, int64(42), merged[2].ID)
	assert.Equal(t, int64(40), merged[3].ID)
}

func TestMergeNewerWithNothingNewReturnsSameHistory(t *testing.T) {
	t.Parallel()

	known := TransactionHistory{{ID: 42}, {ID: 40}}
	merged := known.MergeNewer(nil)
	assert.Equal(t, known, merged)
}

func TestCredentialsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		creds   Credentials
		wantErr error
	}{
		{name: "valid", creds: Credentials{GroupID: "123", Cookie: "secret"}},
		{name: "missing group", creds: Credentials{Cookie: "secret"}, wantErr: ErrMissingCredentials},
		{name: "missing cookie", creds: Credentials{GroupID: "123"}, wantErr: ErrMissingCredentials},
		{name: "blank cookie", creds: Credentials{GroupID: "123", Cookie: "  "}, wantErr: ErrMissingCredentials},
		{name: "empty", creds: Credentials{}, wantErr: ErrMissingCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestFeedErrorRetryable(t *testing.T) {
	t.Parallel()

	assert.True(t, (&FeedError{Status: 429}).Retryable())
	assert.True(t, (&FeedError{Status: 500}).Retryable())
	assert.True(t, (&FeedError{Status: 503}).Retryable())
	assert.False(t, (&FeedError{Status: 401}).Retryable())
	assert.False(t, (&FeedError{Status: 404}).Retryable())
	assert.False(t, (&FeedError{Status: 0}).Retryable())
}

func TestFeedErrorUnwrapsWithErrorsAs(t *testing.T) {
	t.Parallel()

	var wrapped error = errors.Join(errors.New("outer"), &FeedError{Status: 429, Message: "too many requests"})

	var feedErr *FeedError
	require.ErrorAs(t, wrapped, &feedErr)
	assert.Equal(t, 429, feedErr.Status)
}
