package domain

import (
	"time"

	"github.com/google/uuid"
)

// Field names as they appear in source files. CSV and XLSX headers are
// matched against these after trimming.
const (
	FieldCustomerID      = "customerId"
	FieldCustomerName    = "customerName"
	FieldTransactionID   = "transactionId"
	FieldTransactionDate = "transactionDate"
	FieldSourceDate      = "sourceDate"
	FieldMerchantID      = "merchantId"
	FieldCategoryID      = "categoryId"
	FieldCurrency        = "currency"
	FieldAmount          = "amount"
	FieldDescription     = "description"
)

// TransactionDateLayout is the only accepted transaction date format.
const TransactionDateLayout = "2006-01-02"

// Transaction is a fully coerced source row, ready for persistence.
type Transaction struct {
	CustomerID      uuid.UUID `json:"customerId"`
	CustomerName    string    `json:"customerName"`
	TransactionID   uuid.UUID `json:"transactionId"`
	TransactionDate time.Time `json:"transactionDate"`
	SourceDate      time.Time `json:"sourceDate"`
	MerchantID      int       `json:"merchantId"`
	CategoryID      int       `json:"categoryId"`
	Currency        string    `json:"currency"`
	Amount          float64   `json:"amount"`
	Description     string    `json:"description"`
}
