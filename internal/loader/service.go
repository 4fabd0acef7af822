// Package loader reads a transactions file, applies the data-quality
// checks in order, and routes every row to exactly one destination: the
// two destination tables on a full pass, the error log on any failure.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/hmalik/txnpipe/internal/checks"
	"github.com/hmalik/txnpipe/internal/domain"
	"github.com/hmalik/txnpipe/internal/repository"

	"github.com/google/uuid"
)

// ErrInput is returned when the source file is missing, unreadable, or
// cannot be parsed at all. Nothing is written in that case.
var ErrInput = errors.New("input file unreadable")

// Service runs the validate-then-route pipeline.
type Service struct {
	transactions repository.TransactionRepository
	customers    repository.CustomerRepository
	errorLog     repository.ErrorLogRepository
	newChecks    func() []checks.Check
}

// NewService creates a loader service over the three destination repositories.
func NewService(
	transactions repository.TransactionRepository,
	customers repository.CustomerRepository,
	errorLog repository.ErrorLogRepository,
) *Service {
	return &Service{
		transactions: transactions,
		customers:    customers,
		errorLog:     errorLog,
		newChecks:    checks.Default,
	}
}

// Request describes one loader run. Either Path or Data must be set; when
// Data is given, FileName selects the parser.
type Request struct {
	Path     string
	FileName string
	Data     io.Reader
}

// Run processes the file to completion and reports how many rows passed
// and failed. Row-level failures are recorded and do not stop the run;
// file and database errors abort it.
func (s *Service) Run(ctx context.Context, req Request) (domain.Summary, error) {
	summary := domain.Summary{}

	fileName := req.FileName
	if fileName == "" {
		fileName = filepath.Base(req.Path)
	}

	payload, err := s.readPayload(req)
	if err != nil {
		return summary, err
	}

	records, err := parseRecords(fileName, payload)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return summary, err
		}
		return summary, fmt.Errorf("%w: %v", ErrInput, err)
	}

	checkSet := s.newChecks()
	var valid []domain.Transaction

	for _, rec := range records {
		summary.TotalRows++

		var failures []domain.CheckResult
		for _, check := range checkSet {
			if applyErr := check.Apply(rec); applyErr != nil {
				failures = append(failures, domain.CheckResult{
					CheckID: check.ID(),
					Reason:  applyErr.Error(),
				})
			}
		}

		if len(failures) == 0 {
			tx, coerceErr := coerceTransaction(rec)
			if coerceErr != nil {
				failures = append(failures, domain.CheckResult{
					CheckID: checks.CheckSchema,
					Reason:  coerceErr.Error(),
				})
			} else {
				valid = append(valid, tx)
				summary.PassedRows++
				continue
			}
		}

		entry := failureEntry(fileName, rec, failures)
		if recordErr := s.errorLog.Record(ctx, entry); recordErr != nil {
			return summary, fmt.Errorf("failed to route row %d to error log: %w", rec.RowNumber, recordErr)
		}
		summary.FailedRows++
	}

	if err := s.transactions.UpsertBatch(ctx, valid); err != nil {
		return summary, err
	}
	if err := s.customers.UpsertBatch(ctx, valid); err != nil {
		return summary, err
	}

	return summary, nil
}

func (s *Service) readPayload(req Request) ([]byte, error) {
	var payload []byte
	var err error

	switch {
	case req.Data != nil:
		payload, err = io.ReadAll(req.Data)
	case req.Path != "":
		payload, err = os.ReadFile(req.Path)
	default:
		return nil, fmt.Errorf("%w: no path or data given", ErrInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInput)
	}
	return payload, nil
}

// coerceTransaction converts a record that passed every check into its
// typed form. Failures here are routed like any other failing row.
func coerceTransaction(rec domain.Record) (domain.Transaction, error) {
	var tx domain.Transaction
	var err error

	if tx.CustomerID, err = uuid.Parse(rec.Get(domain.FieldCustomerID)); err != nil {
		return tx, fmt.Errorf("customerId: %w", err)
	}
	if tx.TransactionID, err = uuid.Parse(rec.Get(domain.FieldTransactionID)); err != nil {
		return tx, fmt.Errorf("transactionId: %w", err)
	}
	if tx.TransactionDate, err = time.Parse(domain.TransactionDateLayout, rec.Get(domain.FieldTransactionDate)); err != nil {
		return tx, fmt.Errorf("transactionDate: %w", err)
	}

	if v := rec.Get(domain.FieldSourceDate); v != "" {
		if tx.SourceDate, err = domain.ParseTimestamp(v); err != nil {
			return tx, fmt.Errorf("sourceDate: %w", err)
		}
	}
	if v := rec.Get(domain.FieldMerchantID); v != "" {
		if tx.MerchantID, err = strconv.Atoi(v); err != nil {
			return tx, fmt.Errorf("merchantId: %w", err)
		}
	}
	if v := rec.Get(domain.FieldCategoryID); v != "" {
		if tx.CategoryID, err = strconv.Atoi(v); err != nil {
			return tx, fmt.Errorf("categoryId: %w", err)
		}
	}
	if v := rec.Get(domain.FieldAmount); v != "" {
		if tx.Amount, err = strconv.ParseFloat(v, 64); err != nil {
			return tx, fmt.Errorf("amount: %w", err)
		}
	}

	tx.CustomerName = rec.Get(domain.FieldCustomerName)
	tx.Currency = rec.Get(domain.FieldCurrency)
	tx.Description = rec.Get(domain.FieldDescription)

	return tx, nil
}

func failureEntry(fileName string, rec domain.Record, failures []domain.CheckResult) domain.ErrorLogEntry {
	entry := domain.ErrorLogEntry{
		FileName:  fileName,
		RowNumber: rec.RowNumber,
		RawRow:    rec.Fields,
	}

	var reasons []string
	for _, failure := range failures {
		entry.CheckIDs = append(entry.CheckIDs, failure.CheckID)
		reasons = append(reasons, fmt.Sprintf("%s: %s", failure.CheckID, failure.Reason))
	}
	entry.Reason = strings.Join(reasons, "; ")

	if id, err := uuid.Parse(rec.Get(domain.FieldCustomerID)); err == nil {
		entry.CustomerID = &id
	}
	if id, err := uuid.Parse(rec.Get(domain.FieldTransactionID)); err == nil {
		entry.TransactionID = &id
	}

	return entry
}
