package domain

import "strings"

// Record is one raw row read from the source file, before coercion.
// All values are kept as strings so checks can report exactly what was read.
type Record struct {
	RowNumber int               `json:"rowNumber"`
	Fields    map[string]string `json:"fields"`
}

// Get returns the trimmed value for a field, or "" when absent.
func (r Record) Get(field string) string {
	return strings.TrimSpace(r.Fields[field])
}

// Has reports whether a field is present with a non-empty value.
func (r Record) Has(field string) bool {
	return r.Get(field) != ""
}

// CheckResult captures a failed data-quality check for one row.
type CheckResult struct {
	CheckID string `json:"checkId"`
	Reason  string `json:"reason,omitempty"`
}

// Summary returns run level metrics.
type Summary struct {
	TotalRows  int `json:"totalRows"`
	PassedRows int `json:"passedRows"`
	FailedRows int `json:"failedRows"`
}
