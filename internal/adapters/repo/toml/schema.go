package toml

import (
	"fmt"
	"time"

	"github.com/egemenh/salestracker/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version      int                 `toml:"version"`
	Transactions []transactionSchema `toml:"transactions"`
}

type transactionSchema struct {
	ID        int64          `toml:"id"`
	Created   string         `toml:"created"`
	IsPending bool           `toml:"is_pending"`
	Agent     agentSchema    `toml:"agent"`
	Details   detailsSchema  `toml:"details"`
	Currency  currencySchema `toml:"currency"`
}

type agentSchema struct {
	ID   int64  `toml:"id"`
	Type string `toml:"type"`
	Name string `toml:"name"`
}

type detailsSchema struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
	Type string `toml:"type"`
}

type currencySchema struct {
	Amount float64 `toml:"amount"`
	Type   string  `toml:"type"`
}

func (f *fileSchema) applyDefaults() {
	if f.Version == 0 {
		f.Version = currentSchemaVersion
	}
}

func (f fileSchema) validateVersion() error {
	if f.Version != 0 && f.Version != currentSchemaVersion {
		return fmt.Errorf("unsupported history file version %d", f.Version)
	}
	return nil
}

func toSchema(tx domain.Transaction) transactionSchema {
	return transactionSchema{
		ID:        tx.ID,
		Created:   formatTime(tx.Created),
		IsPending: tx.IsPending,
		Agent: agentSchema{
			ID:   tx.Agent.ID,
			Type: tx.Agent.Type,
			Name: tx.Agent.Name,
		},
		Details: detailsSchema{
			ID:   tx.Details.ID,
			Name: tx.Details.Name,
			Type: tx.Details.Type,
		},
		Currency: currencySchema{
			Amount: tx.Currency.Amount,
			Type:   tx.Currency.Type,
		},
	}
}

func fromSchema(tx transactionSchema) domain.Transaction {
	return domain.Transaction{
		ID:        tx.ID,
		Created:   parseTime(tx.Created),
		IsPending: tx.IsPending,
		Agent: domain.Agent{
			ID:   tx.Agent.ID,
			Type: tx.Agent.Type,
			Name: tx.Agent.Name,
		},
		Details: domain.Details{
			ID:   tx.Details.ID,
			Name: tx.Details.Name,
			Type: tx.Details.Type,
		},
		Currency: domain.Currency{
			Amount: tx.Currency.Amount,
			Type:   tx.Currency.Type,
		},
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.Format(time.RFC3339)
}
