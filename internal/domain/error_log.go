package domain

import (
	"time"

	"github.com/google/uuid"
)

// ErrorLogEntry captures a row that failed one or more data-quality checks.
// CustomerID and TransactionID are nil when the raw values did not parse.
type ErrorLogEntry struct {
	ID            uuid.UUID         `json:"id"`
	CustomerID    *uuid.UUID        `json:"customer_id,omitempty"`
	TransactionID *uuid.UUID        `json:"transaction_id,omitempty"`
	FileName      string            `json:"file_name"`
	RowNumber     int               `json:"row_number"`
	CheckIDs      []string          `json:"check_ids"`
	Reason        string            `json:"reason"`
	RawRow        map[string]string `json:"raw_row"`
	CreatedAt     time.Time         `json:"created_at"`
}
