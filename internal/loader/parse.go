package loader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hmalik/txnpipe/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned when a source file is not supported.
var ErrUnsupportedFormat = errors.New("unsupported file format")

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

type jsonEnvelope struct {
	Transactions []map[string]any `json:"transactions"`
}

// parseRecords turns the file payload into raw records. The format is
// selected by file extension; JSON is the primary batch format, CSV and
// XLSX are accepted for uploads.
func parseRecords(fileName string, payload []byte) ([]domain.Record, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".json":
		return parseJSON(payload)
	case ".csv":
		return parseCSV(payload)
	case ".xlsx":
		return parseExcel(payload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

func parseJSON(payload []byte) ([]domain.Record, error) {
	decoder := json.NewDecoder(bytes.NewReader(payload))
	decoder.UseNumber()

	var envelope jsonEnvelope
	if err := decoder.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	if envelope.Transactions == nil {
		return nil, errors.New("missing \"transactions\" array")
	}

	records := make([]domain.Record, 0, len(envelope.Transactions))
	for idx, raw := range envelope.Transactions {
		fields := make(map[string]string, len(raw))
		for key, value := range raw {
			fields[strings.TrimSpace(key)] = stringifyValue(value)
		}
		records = append(records, domain.Record{RowNumber: idx + 1, Fields: fields})
	}
	return records, nil
}

func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		if v {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func parseCSV(payload []byte) ([]domain.Record, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	rows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return recordsFromRows(rows)
}

func parseExcel(payload []byte) ([]domain.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return recordsFromRows(rows)
}

// recordsFromRows treats the first non-empty row as the header and keys
// each following row by the trimmed header names.
func recordsFromRows(rows [][]string) ([]domain.Record, error) {
	var headers []string
	records := []domain.Record{}

	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if headers == nil {
			headers = make([]string, len(row))
			for i, cell := range row {
				headers[i] = strings.TrimSpace(cell)
			}
			continue
		}

		fields := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				fields[header] = row[i]
			} else {
				fields[header] = ""
			}
		}
		records = append(records, domain.Record{RowNumber: len(records) + 1, Fields: fields})
	}

	if headers == nil {
		return nil, errors.New("no header row detected")
	}
	return records, nil
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
