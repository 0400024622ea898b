package ports

import (
	"context"

	"github.com/egemenh/salestracker/internal/domain"
)

// HistoryRepository persists the merged transaction history. Load returns
// an empty history when nothing has been persisted yet.
type HistoryRepository interface {
	Load(ctx context.Context) (domain.TransactionHistory, error)
	Save(ctx context.Context, history domain.TransactionHistory) error
	Delete(ctx context.Context) error
}
