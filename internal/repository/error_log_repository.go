package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type errorLogRepository struct {
	pool *pgxpool.Pool
}

// NewErrorLogRepository wires a repository backed by pgxpool.
func NewErrorLogRepository(pool *pgxpool.Pool) ErrorLogRepository {
	return &errorLogRepository{pool: pool}
}

func (r *errorLogRepository) Record(ctx context.Context, entry domain.ErrorLogEntry) error {
	if r.pool == nil {
		return fmt.Errorf("error log repository not initialized")
	}

	var customerID, transactionID any
	if entry.CustomerID != nil {
		customerID = *entry.CustomerID
	}
	if entry.TransactionID != nil {
		transactionID = *entry.TransactionID
	}

	rawRow, err := json.Marshal(entry.RawRow)
	if err != nil {
		return fmt.Errorf("failed to encode raw row: %w", err)
	}

	_, err = r.pool.Exec(
		ctx,
		`INSERT INTO ingestion_errors (customer_id, transaction_id, file_name, row_number, check_ids, reason, raw_row)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customerID,
		transactionID,
		entry.FileName,
		entry.RowNumber,
		entry.CheckIDs,
		entry.Reason,
		rawRow,
	)
	if err != nil {
		return fmt.Errorf("failed to record ingestion error: %w", err)
	}

	return nil
}

func (r *errorLogRepository) List(ctx context.Context, fileName string, limit int, offset int) ([]domain.ErrorLogEntry, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("error log repository not initialized")
	}

	if limit <= 0 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(
		ctx,
		`SELECT id, customer_id, transaction_id, file_name, row_number, check_ids, reason, raw_row, created_at
		 FROM ingestion_errors
		 WHERE file_name = $1
		 ORDER BY created_at DESC, row_number DESC
		 LIMIT $2 OFFSET $3`,
		fileName,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingestion errors: %w", err)
	}
	defer rows.Close()

	entries := []domain.ErrorLogEntry{}
	for rows.Next() {
		var (
			entry         domain.ErrorLogEntry
			customerID    pgtype.UUID
			transactionID pgtype.UUID
			rawRow        []byte
			createdAt     pgtype.Timestamptz
		)
		if scanErr := rows.Scan(
			&entry.ID,
			&customerID,
			&transactionID,
			&entry.FileName,
			&entry.RowNumber,
			&entry.CheckIDs,
			&entry.Reason,
			&rawRow,
			&createdAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan ingestion error: %w", scanErr)
		}

		if customerID.Valid {
			id := uuid.UUID(customerID.Bytes)
			entry.CustomerID = &id
		}
		if transactionID.Valid {
			id := uuid.UUID(transactionID.Bytes)
			entry.TransactionID = &id
		}
		if len(rawRow) > 0 {
			if unmarshalErr := json.Unmarshal(rawRow, &entry.RawRow); unmarshalErr != nil {
				return nil, fmt.Errorf("failed to decode raw row: %w", unmarshalErr)
			}
		}
		if createdAt.Valid {
			entry.CreatedAt = createdAt.Time
		}

		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("failed to iterate ingestion errors: %w", rowsErr)
	}

	return entries, nil
}
