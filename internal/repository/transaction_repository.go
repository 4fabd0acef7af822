package repository

import (
	"context"
	"fmt"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type transactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository wires a repository backed by pgxpool.
func NewTransactionRepository(pool *pgxpool.Pool) TransactionRepository {
	return &transactionRepository{pool: pool}
}

const upsertTransactionSQL = `
	INSERT INTO transactions (
		customer_id,
		customer_name,
		transaction_id,
		transaction_date,
		source_date,
		merchant_id,
		category_id,
		currency,
		amount,
		description
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (customer_id, transaction_id) DO UPDATE
	SET customer_name = EXCLUDED.customer_name,
		transaction_date = EXCLUDED.transaction_date,
		source_date = EXCLUDED.source_date,
		merchant_id = EXCLUDED.merchant_id,
		category_id = EXCLUDED.category_id,
		currency = EXCLUDED.currency,
		amount = EXCLUDED.amount,
		description = EXCLUDED.description`

func (r *transactionRepository) UpsertBatch(ctx context.Context, txs []domain.Transaction) error {
	if r.pool == nil {
		return fmt.Errorf("transaction repository not initialized")
	}
	if len(txs) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, t := range txs {
		batch.Queue(
			upsertTransactionSQL,
			t.CustomerID,
			t.CustomerName,
			t.TransactionID,
			t.TransactionDate,
			t.SourceDate,
			t.MerchantID,
			t.CategoryID,
			t.Currency,
			t.Amount,
			t.Description,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range txs {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert transaction %s: %w", txs[i].TransactionID, err)
		}
	}

	return nil
}
