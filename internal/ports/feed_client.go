package ports

import (
	"context"

	"github.com/egemenh/salestracker/internal/domain"
)

// FeedClient reads from the remote economy API. Failed requests return an
// error that wraps *domain.FeedError so callers can classify the status.
type FeedClient interface {
	GetStats(ctx context.Context, creds domain.Credentials) (domain.Stats, error)
	GetTransactions(ctx context.Context, creds domain.Credentials, cursor string) (domain.TransactionPage, error)
}
