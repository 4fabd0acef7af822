package loader

import (
	"errors"
	"testing"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/xuri/excelize/v2"
)

func TestParseJSONStringifiesValues(t *testing.T) {
	payload := []byte(`{"transactions": [
		{"customerId": "abc", "merchantId": 12, "amount": 59.90, "description": null}
	]}`)

	records, err := parseJSON(payload)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.RowNumber != 1 {
		t.Errorf("expected row number 1, got %d", rec.RowNumber)
	}
	if got := rec.Get(domain.FieldMerchantID); got != "12" {
		t.Errorf("expected merchantId \"12\", got %q", got)
	}
	if got := rec.Get(domain.FieldAmount); got != "59.90" {
		t.Errorf("expected amount to keep source precision, got %q", got)
	}
	if rec.Has(domain.FieldDescription) {
		t.Error("expected null description to read as empty")
	}
}

func TestParseJSONRequiresEnvelope(t *testing.T) {
	if _, err := parseJSON([]byte(`{"rows": []}`)); err == nil {
		t.Fatal("expected error for missing transactions array")
	}
	if _, err := parseJSON([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed json")
	}
}

func TestParseCSVHandlesBOMAndEmptyRows(t *testing.T) {
	payload := append([]byte{0xEF, 0xBB, 0xBF}, []byte(
		"customerId,currency\n"+
			"\n"+
			"abc,EUR\n"+
			",\n"+
			"def,GBP\n")...)

	records, err := parseCSV(payload)
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if got := records[0].Get(domain.FieldCustomerID); got != "abc" {
		t.Errorf("expected BOM-stripped header to match, got customerId %q", got)
	}
	if records[1].RowNumber != 2 {
		t.Errorf("expected empty rows to be skipped in numbering, got %d", records[1].RowNumber)
	}
}

func TestParseExcelFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &[]any{"customerId", "currency", "amount"}); err != nil {
		t.Fatalf("failed to build sheet: %v", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{"abc", "USD", "10.50"}); err != nil {
		t.Fatalf("failed to build sheet: %v", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize xlsx: %v", err)
	}

	records, err := parseExcel(buf.Bytes())
	if err != nil {
		t.Fatalf("parse returned error: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if got := records[0].Get(domain.FieldCurrency); got != "USD" {
		t.Errorf("expected currency USD, got %q", got)
	}
}

func TestParseRecordsRejectsUnknownExtension(t *testing.T) {
	_, err := parseRecords("transactions.parquet", []byte("data"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
