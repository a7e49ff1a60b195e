package parser

import (
	"strings"
	"testing"
	"time"

	invoicedomain "github.com/arclear/arclear/internal/invoice/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validHeader = "customer_name,customer_email,invoice_number,invoice_date,due_date,invoice_amount,open_amount,status"

func TestParseInvoiceCSVValidRows(t *testing.T) {
	input := validHeader + "\n" +
		"Acme Corp,billing@acme.test,INV-001,2026-01-15,2026-02-14,\"$1,234.56\",\"$1,000.00\",open\n" +
		"Globex,,INV-002,2026/01/20,03/01/2026,500,500,PARTIAL\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Records, 2)
	assert.Equal(t, 2, result.TotalRows)
	assert.Empty(t, result.Errors)

	first := result.Records[0]
	assert.Equal(t, "Acme Corp", first.CustomerName)
	assert.Equal(t, "billing@acme.test", first.CustomerEmail)
	assert.Equal(t, "INV-001", first.InvoiceNumber)
	assert.Equal(t, 1234.56, first.InvoiceAmount)
	assert.Equal(t, 1000.00, first.OpenAmount)
	assert.Equal(t, invoicedomain.InvoiceStatusOpen, first.Status)
	assert.Equal(t, time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC), first.DueDate)

	second := result.Records[1]
	assert.Equal(t, time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC), second.InvoiceDate)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), second.DueDate)
	assert.Equal(t, invoicedomain.InvoiceStatusPartial, second.Status)
}

func TestParseInvoiceCSVHeaderNormalization(t *testing.T) {
	input := "Customer Name,Invoice Number,Invoice Date,Due Date,Invoice Amount,Open Amount,Status\n" +
		"Acme Corp,INV-001,2026-01-15,2026-02-14,100,100,OPEN\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "INV-001", result.Records[0].InvoiceNumber)
}

func TestParseInvoiceCSVRowNumbering(t *testing.T) {
	// The bad row is the second data row, so it reports as spreadsheet row 3.
	input := validHeader + "\n" +
		"Acme Corp,,INV-001,2026-01-15,2026-02-14,100,100,OPEN\n" +
		"Globex,,,2026-01-15,2026-02-14,100,100,OPEN\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Empty(t, result.Records)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "invoice_number", result.Errors[0].Field)
}

func TestParseInvoiceCSVCollectsAllRowErrors(t *testing.T) {
	input := validHeader + "\n" +
		"Acme Corp,,INV-001,not-a-date,2026-02-14,abc,100,SHIPPED\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, result.Success)
	require.Len(t, result.Errors, 3)

	fields := make([]string, 0, len(result.Errors))
	for _, e := range result.Errors {
		assert.Equal(t, 2, e.Row)
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"invoice_date", "invoice_amount", "status"}, fields)
}

func TestParseInvoiceCSVHeaderOnly(t *testing.T) {
	result, err := ParseInvoiceCSV(strings.NewReader(validHeader + "\n"))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.TotalRows)
	assert.Empty(t, result.Records)
}

func TestParseInvoiceCSVSkipsBlankRows(t *testing.T) {
	input := validHeader + "\n" +
		"Acme Corp,,INV-001,2026-01-15,2026-02-14,100,100,OPEN\n" +
		",,,,,,,\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.TotalRows)
}

func TestParseInvoiceCSVBlankRowsDoNotShiftNumbering(t *testing.T) {
	// The bad row is the second non-blank data row, so it reports as row 3
	// even though a blank line sits above it in the file.
	input := validHeader + "\n" +
		"Acme Corp,,INV-001,2026-01-15,2026-02-14,100,100,OPEN\n" +
		",,,,,,,\n" +
		"Globex,,,2026-01-15,2026-02-14,100,100,OPEN\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 2, result.TotalRows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, "invoice_number", result.Errors[0].Field)
}

func TestParseInvoiceCSVOptionalHistoryColumns(t *testing.T) {
	input := validHeader + ",payment_terms,last_payment_date,historical_avg_days_to_pay,historical_late_rate\n" +
		"Acme Corp,,INV-001,2026-01-15,2026-02-14,100,100,OPEN,30,2026-01-01,42.5,0.25\n" +
		"Globex,,INV-002,2026-01-15,2026-02-14,100,100,OPEN,,,not-a-number,\n"

	result, err := ParseInvoiceCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.True(t, result.Success)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	require.NotNil(t, first.PaymentTerms)
	assert.Equal(t, 30, *first.PaymentTerms)
	require.NotNil(t, first.LastPaymentDate)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), *first.LastPaymentDate)
	require.NotNil(t, first.HistoricalAvgDaysToPay)
	assert.Equal(t, 42.5, *first.HistoricalAvgDaysToPay)
	require.NotNil(t, first.HistoricalLateRate)
	assert.Equal(t, 0.25, *first.HistoricalLateRate)

	// Unparseable optional values never fail a row.
	second := result.Records[1]
	assert.Nil(t, second.PaymentTerms)
	assert.Nil(t, second.HistoricalAvgDaysToPay)
}

func TestParseInvoiceCSVMalformedInput(t *testing.T) {
	_, err := ParseInvoiceCSV(strings.NewReader(`"unterminated`))
	require.ErrorIs(t, err, ErrMalformedCSV)

	_, err = ParseInvoiceCSV(strings.NewReader(""))
	require.ErrorIs(t, err, ErrMalformedCSV)
}
