// Package parser turns raw invoice CSV uploads into typed records.
//
// Validation is all-or-nothing: a result with any row error commits nothing.
// Every error carries the spreadsheet row number the user sees, with the
// header on row 1 and the first data row on row 2.
package parser

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
)

// ErrMalformedCSV marks structurally unreadable input, as opposed to input
// that parses but fails row validation.
var ErrMalformedCSV = errors.New("malformed_csv")

// Record is one validated, normalized invoice row.
type Record struct {
	CustomerName  string
	CustomerEmail string
	InvoiceNumber string
	InvoiceDate   time.Time
	DueDate       time.Time
	InvoiceAmount float64
	OpenAmount    float64
	Status        invoicedomain.InvoiceStatus

	// Optional customer history columns. Nil means the column was absent or
	// empty for this row.
	PaymentTerms           *int
	LastPaymentDate        *time.Time
	HistoricalAvgDaysToPay *float64
	HistoricalLateRate     *float64
}

// RowError pins a validation failure to a spreadsheet row and, when known,
// a column.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result is the outcome of parsing one upload. Success is true only when
// every data row validated.
type Result struct {
	Success   bool
	Records   []Record
	Errors    []RowError
	TotalRows int
}

var requiredColumns = []string{
	"customer_name",
	"invoice_number",
	"invoice_date",
	"due_date",
	"invoice_amount",
	"open_amount",
	"status",
}

// Date layouts accepted in uploads, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"2006-01-02T15:04:05Z07:00",
	"Jan 2, 2006",
}

// ParseInvoiceCSV reads and validates a full upload. A non-nil error means
// the file could not be read as CSV at all; row-level problems are reported
// in Result.Errors instead.
func ParseInvoiceCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(rows) == 0 {
		return Result{}, fmt.Errorf("%w: empty file", ErrMalformedCSV)
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = NormalizeHeader(name)
	}

	result := Result{Success: true}
	for _, cells := range rows[1:] {
		if isBlankRow(cells) {
			continue
		}
		result.TotalRows++

		// Header is row 1 and blank lines are dropped before numbering, so
		// the Nth non-blank data row reports as row N+1.
		rowNumber := result.TotalRows + 1
		record, rowErrs := parseRow(header, cells, rowNumber)
		if len(rowErrs) > 0 {
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}
		result.Records = append(result.Records, record)
	}

	result.Success = len(result.Errors) == 0
	return result, nil
}

// NormalizeHeader lowercases a column name and collapses interior whitespace
// to underscores, so "Invoice Number" and "invoice_number" address the same
// column.
func NormalizeHeader(name string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	return strings.Join(fields, "_")
}

func parseRow(header []string, cells []string, rowNumber int) (Record, []RowError) {
	values := map[string]string{}
	for i, cell := range cells {
		if i >= len(header) {
			break
		}
		values[header[i]] = strings.TrimSpace(cell)
	}

	var errs []RowError
	for _, column := range requiredColumns {
		if values[column] == "" {
			errs = append(errs, RowError{
				Row:     rowNumber,
				Field:   column,
				Message: fmt.Sprintf("%s is required", column),
			})
		}
	}
	if len(errs) > 0 {
		return Record{}, errs
	}

	record := Record{
		CustomerName:  values["customer_name"],
		CustomerEmail: values["customer_email"],
		InvoiceNumber: values["invoice_number"],
	}

	record.InvoiceDate, errs = parseDateField(values, "invoice_date", rowNumber, errs)
	record.DueDate, errs = parseDateField(values, "due_date", rowNumber, errs)
	record.InvoiceAmount, errs = parseAmountField(values, "invoice_amount", rowNumber, errs)
	record.OpenAmount, errs = parseAmountField(values, "open_amount", rowNumber, errs)

	status := invoicedomain.InvoiceStatus(strings.ToUpper(values["status"]))
	if !invoicedomain.IsValidStatus(status) {
		errs = append(errs, RowError{
			Row:     rowNumber,
			Field:   "status",
			Message: fmt.Sprintf("invalid status, must be one of: %s", joinStatuses()),
		})
	}
	record.Status = status

	// Unparseable optional values are dropped rather than failing the row;
	// only the required columns gate the upload.
	if v := values["payment_terms"]; v != "" {
		if amount, ok := parseAmount(v); ok {
			terms := int(amount)
			record.PaymentTerms = &terms
		}
	}
	if v := values["last_payment_date"]; v != "" {
		if date, ok := parseDate(v); ok {
			record.LastPaymentDate = &date
		}
	}
	if v := values["historical_avg_days_to_pay"]; v != "" {
		if amount, ok := parseAmount(v); ok {
			record.HistoricalAvgDaysToPay = &amount
		}
	}
	if v := values["historical_late_rate"]; v != "" {
		if amount, ok := parseAmount(v); ok {
			record.HistoricalLateRate = &amount
		}
	}

	if len(errs) > 0 {
		return Record{}, errs
	}
	return record, nil
}

func parseDateField(values map[string]string, column string, rowNumber int, errs []RowError) (time.Time, []RowError) {
	date, ok := parseDate(values[column])
	if !ok {
		return time.Time{}, append(errs, RowError{
			Row:     rowNumber,
			Field:   column,
			Message: fmt.Sprintf("%s has an invalid date format", column),
		})
	}
	return date, errs
}

func parseAmountField(values map[string]string, column string, rowNumber int, errs []RowError) (float64, []RowError) {
	amount, ok := parseAmount(values[column])
	if !ok {
		return 0, append(errs, RowError{
			Row:     rowNumber,
			Field:   column,
			Message: fmt.Sprintf("%s has an invalid amount", column),
		})
	}
	return amount, errs
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// parseAmount accepts currency-formatted numbers such as "$1,234.56".
func parseAmount(value string) (float64, bool) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)
	if cleaned == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

func joinStatuses() string {
	statuses := invoicedomain.ValidStatuses()
	parts := make([]string, len(statuses))
	for i, s := range statuses {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
