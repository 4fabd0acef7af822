package repository

import (
	"context"
	"fmt"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository wires a repository backed by pgxpool.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

// The customers table keeps one row per customer; on conflict the stored
// transaction date only ever moves forward.
const upsertCustomerSQL = `
	INSERT INTO customers (
		customer_id,
		customer_name,
		latest_transaction_date
	) VALUES ($1, $2, $3)
	ON CONFLICT (customer_id) DO UPDATE
	SET customer_name = EXCLUDED.customer_name,
		latest_transaction_date = GREATEST(EXCLUDED.latest_transaction_date, customers.latest_transaction_date)`

func (r *customerRepository) UpsertBatch(ctx context.Context, txs []domain.Transaction) error {
	if r.pool == nil {
		return fmt.Errorf("customer repository not initialized")
	}
	if len(txs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range txs {
		batch.Queue(upsertCustomerSQL, t.CustomerID, t.CustomerName, t.TransactionDate)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range txs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert customer %s: %w", txs[i].CustomerID, err)
		}
	}

	return nil
}
