package repository

import (
	"context"

	"github.com/hmalik/txnpipe/internal/domain"
)

// TransactionRepository persists validated rows into the transactions table.
type TransactionRepository interface {
	UpsertBatch(ctx context.Context, txs []domain.Transaction) error
}

// CustomerRepository persists validated rows into the customers table,
// keeping one row per customer with their latest transaction date.
type CustomerRepository interface {
	UpsertBatch(ctx context.Context, txs []domain.Transaction) error
}

// ErrorLogRepository records rows that failed data-quality checks.
type ErrorLogRepository interface {
	Record(ctx context.Context, entry domain.ErrorLogEntry) error
	List(ctx context.Context, fileName string, limit int, offset int) ([]domain.ErrorLogEntry, error)
}
