// Package checks holds the fixed set of data-quality checks a source row
// must pass before it is written to the destination tables.
package checks

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/google/uuid"
)

// Stable check identifiers, recorded in the error log on failure.
const (
	CheckRequiredFields = "required_fields"
	CheckSchema         = "schema"
	CheckCurrency       = "currency_allowlist"
	CheckDateFormat     = "transaction_date_format"
	CheckDuplicate      = "duplicate_transaction"
)

// Check applies one data-quality rule to a record. Apply returns nil when
// the record passes and a descriptive error when it fails.
type Check interface {
	ID() string
	Apply(rec domain.Record) error
}

// Default returns the full ordered check set for a single run. The
// duplicate check is stateful, so each run needs a fresh set.
func Default() []Check {
	return []Check{
		RequiredFields(),
		Schema(),
		CurrencyAllowlist(),
		TransactionDateFormat(),
		DuplicateTransaction(),
	}
}

var requiredFieldNames = []string{
	domain.FieldCustomerID,
	domain.FieldTransactionID,
	domain.FieldCurrency,
	domain.FieldTransactionDate,
}

type requiredFields struct{}

// RequiredFields verifies that identifying and validated fields are present.
func RequiredFields() Check { return requiredFields{} }

func (requiredFields) ID() string { return CheckRequiredFields }

func (requiredFields) Apply(rec domain.Record) error {
	var missing []string
	for _, field := range requiredFieldNames {
		if !rec.Has(field) {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s): %s", strings.Join(missing, ", "))
	}
	return nil
}

type schema struct{}

// Schema verifies that present fields parse against the destination column
// types. Fields covered by RequiredFields are only typed here when present,
// so a missing field is reported once.
func Schema() Check { return schema{} }

func (schema) ID() string { return CheckSchema }

func (schema) Apply(rec domain.Record) error {
	var problems []string

	if v := rec.Get(domain.FieldCustomerID); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid uuid", domain.FieldCustomerID, v))
		}
	}
	if v := rec.Get(domain.FieldTransactionID); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid uuid", domain.FieldTransactionID, v))
		}
	}
	if v := rec.Get(domain.FieldMerchantID); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not an integer", domain.FieldMerchantID, v))
		}
	}
	if v := rec.Get(domain.FieldCategoryID); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not an integer", domain.FieldCategoryID, v))
		}
	}
	if v := rec.Get(domain.FieldAmount); v != "" {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not numeric", domain.FieldAmount, v))
		}
	}
	if v := rec.Get(domain.FieldSourceDate); v != "" {
		if _, err := domain.ParseTimestamp(v); err != nil {
			problems = append(problems, fmt.Sprintf("%s %q is not a valid timestamp", domain.FieldSourceDate, v))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}

var allowedCurrencies = map[string]struct{}{
	"EUR": {},
	"GBP": {},
	"USD": {},
}

type currencyAllowlist struct{}

// CurrencyAllowlist verifies the currency is one of the accepted codes.
func CurrencyAllowlist() Check { return currencyAllowlist{} }

func (currencyAllowlist) ID() string { return CheckCurrency }

func (currencyAllowlist) Apply(rec domain.Record) error {
	v := rec.Get(domain.FieldCurrency)
	if v == "" {
		return nil
	}
	if _, ok := allowedCurrencies[v]; !ok {
		return fmt.Errorf("currency %q is not in the allowable list (EUR, GBP, USD)", v)
	}
	return nil
}

type transactionDateFormat struct{}

// TransactionDateFormat verifies the transaction date is a real date in
// YYYY-MM-DD form.
func TransactionDateFormat() Check { return transactionDateFormat{} }

func (transactionDateFormat) ID() string { return CheckDateFormat }

func (transactionDateFormat) Apply(rec domain.Record) error {
	v := rec.Get(domain.FieldTransactionDate)
	if v == "" {
		return nil
	}
	if _, err := time.Parse(domain.TransactionDateLayout, v); err != nil {
		return fmt.Errorf("transactionDate %q is not a valid YYYY-MM-DD date", v)
	}
	return nil
}

type duplicateTransaction struct {
	seen map[string]struct{}
}

// DuplicateTransaction flags repeats of a (customerId, transactionId) pair
// within a run. The first occurrence passes; later ones fail.
func DuplicateTransaction() Check {
	return &duplicateTransaction{seen: make(map[string]struct{})}
}

func (*duplicateTransaction) ID() string { return CheckDuplicate }

func (c *duplicateTransaction) Apply(rec domain.Record) error {
	customer := rec.Get(domain.FieldCustomerID)
	transaction := rec.Get(domain.FieldTransactionID)
	if customer == "" || transaction == "" {
		return nil
	}

	// UUIDs compare case insensitively; canonicalize when parseable.
	if id, err := uuid.Parse(customer); err == nil {
		customer = id.String()
	}
	if id, err := uuid.Parse(transaction); err == nil {
		transaction = id.String()
	}

	key := customer + "|" + transaction
	if _, dup := c.seen[key]; dup {
		return fmt.Errorf("duplicate record for customer %s and transaction %s", customer, transaction)
	}
	c.seen[key] = struct{}{}
	return nil
}
