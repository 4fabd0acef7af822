package checks

import (
	"strings"
	"testing"

	"github.com/hmalik/txnpipe/internal/domain"
)

func record(fields map[string]string) domain.Record {
	return domain.Record{RowNumber: 1, Fields: fields}
}

func validFields() map[string]string {
	return map[string]string{
		domain.FieldCustomerID:      "f47ac10b-58cc-4372-a567-0e02b2c3d479",
		domain.FieldCustomerName:    "Ada Lovelace",
		domain.FieldTransactionID:   "9b2b9ff1-6cf9-4dd4-9f3b-8a9c6f3d2e11",
		domain.FieldTransactionDate: "2023-11-21",
		domain.FieldSourceDate:      "2023-11-21 10:15:00",
		domain.FieldMerchantID:      "12",
		domain.FieldCategoryID:      "3",
		domain.FieldCurrency:        "GBP",
		domain.FieldAmount:          "59.90",
		domain.FieldDescription:     "groceries",
	}
}

func TestRequiredFields(t *testing.T) {
	check := RequiredFields()

	if err := check.Apply(record(validFields())); err != nil {
		t.Fatalf("expected valid record to pass, got %v", err)
	}

	fields := validFields()
	delete(fields, domain.FieldCurrency)
	fields[domain.FieldTransactionDate] = "  "

	err := check.Apply(record(fields))
	if err == nil {
		t.Fatal("expected missing fields to fail")
	}
	if !strings.Contains(err.Error(), domain.FieldCurrency) {
		t.Errorf("expected reason to name currency, got %q", err)
	}
	if !strings.Contains(err.Error(), domain.FieldTransactionDate) {
		t.Errorf("expected reason to name transactionDate, got %q", err)
	}
}

func TestSchema(t *testing.T) {
	check := Schema()

	if err := check.Apply(record(validFields())); err != nil {
		t.Fatalf("expected valid record to pass, got %v", err)
	}

	cases := []struct {
		name  string
		field string
		value string
	}{
		{"customer id not a uuid", domain.FieldCustomerID, "not-a-uuid"},
		{"transaction id not a uuid", domain.FieldTransactionID, "12345"},
		{"merchant id not an integer", domain.FieldMerchantID, "twelve"},
		{"category id not an integer", domain.FieldCategoryID, "3.5x"},
		{"amount not numeric", domain.FieldAmount, "fifty"},
		{"source date unparseable", domain.FieldSourceDate, "yesterday"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fields := validFields()
			fields[tc.field] = tc.value
			if err := check.Apply(record(fields)); err == nil {
				t.Fatalf("expected %s=%q to fail", tc.field, tc.value)
			}
		})
	}
}

func TestSchemaSkipsMissingFields(t *testing.T) {
	// Missing fields are RequiredFields' job; Schema should not double-report.
	fields := validFields()
	delete(fields, domain.FieldCustomerID)
	delete(fields, domain.FieldAmount)

	if err := Schema().Apply(record(fields)); err != nil {
		t.Fatalf("expected schema check to skip missing fields, got %v", err)
	}
}

func TestCurrencyAllowlist(t *testing.T) {
	check := CurrencyAllowlist()

	for _, currency := range []string{"EUR", "GBP", "USD"} {
		fields := validFields()
		fields[domain.FieldCurrency] = currency
		if err := check.Apply(record(fields)); err != nil {
			t.Errorf("expected %s to pass, got %v", currency, err)
		}
	}

	for _, currency := range []string{"CAD", "JPY", "usd"} {
		fields := validFields()
		fields[domain.FieldCurrency] = currency
		if err := check.Apply(record(fields)); err == nil {
			t.Errorf("expected %s to fail", currency)
		}
	}
}

func TestTransactionDateFormat(t *testing.T) {
	check := TransactionDateFormat()

	if err := check.Apply(record(validFields())); err != nil {
		t.Fatalf("expected valid date to pass, got %v", err)
	}

	for _, value := range []string{"21-11-2023", "2023/11/21", "2023-02-30", "2023-11-21T00:00:00Z"} {
		fields := validFields()
		fields[domain.FieldTransactionDate] = value
		if err := check.Apply(record(fields)); err == nil {
			t.Errorf("expected %q to fail", value)
		}
	}
}

func TestDuplicateTransaction(t *testing.T) {
	check := DuplicateTransaction()

	first := record(validFields())
	if err := check.Apply(first); err != nil {
		t.Fatalf("expected first occurrence to pass, got %v", err)
	}

	if err := check.Apply(first); err == nil {
		t.Fatal("expected repeated pair to fail")
	}

	// Same pair in different UUID casing is still a duplicate.
	upper := validFields()
	upper[domain.FieldCustomerID] = strings.ToUpper(upper[domain.FieldCustomerID])
	if err := check.Apply(record(upper)); err == nil {
		t.Fatal("expected uppercased duplicate to fail")
	}

	other := validFields()
	other[domain.FieldTransactionID] = "0b81b5ec-3c6f-4b39-8f6f-5a1d8e3f0a22"
	if err := check.Apply(record(other)); err != nil {
		t.Fatalf("expected different transaction to pass, got %v", err)
	}
}

func TestDefaultOrder(t *testing.T) {
	want := []string{
		CheckRequiredFields,
		CheckSchema,
		CheckCurrency,
		CheckDateFormat,
		CheckDuplicate,
	}

	got := Default()
	if len(got) != len(want) {
		t.Fatalf("expected %d checks, got %d", len(want), len(got))
	}
	for i, check := range got {
		if check.ID() != want[i] {
			t.Errorf("check %d: expected %s, got %s", i, want[i], check.ID())
		}
	}
}

func TestDefaultReturnsFreshDuplicateState(t *testing.T) {
	rec := record(validFields())

	for run := 0; run < 2; run++ {
		for _, check := range Default() {
			if err := check.Apply(rec); err != nil {
				t.Fatalf("run %d: expected record to pass %s, got %v", run, check.ID(), err)
			}
		}
	}
}
