// Package importer turns an uploaded CSV of transactions into ledger
// entries, one row at a time. Rows are independent: a bad row becomes a
// report entry with its line number and the rest of the file still imports.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// Store is the persistence surface the importer needs. FindOrCreate
// implementations resolve (user, name) uniqueness conflicts by re-fetching
// the existing row.
type Store interface {
	FindOrCreateCard(ctx context.Context, userID int, name string) (int, error)
	FindOrCreateCategory(ctx context.Context, userID int, name string, typ models.TransactionType) (int, error)
	CreateTransaction(ctx context.Context, tx *models.Transaction) error
}

// Mapping renames the logical columns to the header names actually present
// in the uploaded file. Zero values fall back to the logical names.
type Mapping struct {
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	CardName    string `json:"card_name"`
	Category    string `json:"category"`
	Type        string `json:"type"`
}

func (m Mapping) withDefaults() Mapping {
	def := func(v, fallback string) string {
		if v == "" {
			return fallback
		}
		return v
	}
	return Mapping{
		Date:        def(m.Date, "date"),
		Amount:      def(m.Amount, "amount"),
		Description: def(m.Description, "description"),
		CardName:    def(m.CardName, "card_name"),
		Category:    def(m.Category, "category"),
		Type:        def(m.Type, "type"),
	}
}

// RowErrorKind classifies why a row was rejected.
type RowErrorKind string

const (
	ErrMissingField   RowErrorKind = "MISSING_FIELD"
	ErrInvalidDate    RowErrorKind = "INVALID_DATE"
	ErrInvalidAmount  RowErrorKind = "INVALID_AMOUNT"
	ErrStorageFailure RowErrorKind = "STORAGE_FAILURE"
)

// RowError is one rejected row. Line is the physical line in the file, so
// the first data row below the header reports line 2.
type RowError struct {
	Line    int          `json:"line"`
	Kind    RowErrorKind `json:"kind"`
	Message string       `json:"error"`
}

// Report is the outcome of one import: every data row lands either in
// Successes or in Errors.
type Report struct {
	Successes int        `json:"successes"`
	Errors    []RowError `json:"errors"`
}

// Importer processes uploaded transaction CSVs for one owner at a time.
type Importer struct {
	store Store
}

func New(store Store) *Importer {
	return &Importer{store: store}
}

// dateFormats are tried in order when parsing the date column.
var dateFormats = []string{"2006-01-02", time.RFC3339, "02/01/2006"}

// Run parses and imports the CSV in r for userID. The first record is the
// header. Row failures, including storage failures, are reported per row
// and never abort the batch; only an unreadable file returns an error.
func (im *Importer) Run(ctx context.Context, userID int, r io.Reader, mapping Mapping) (Report, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return Report{}, fmt.Errorf("reading CSV: %w", err)
	}
	if len(records) == 0 {
		return Report{Errors: []RowError{}}, nil
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	cols := mapping.withDefaults()

	report := Report{Errors: []RowError{}}
	for i, rec := range records[1:] {
		line := i + 2 // 1-indexed data rows, offset past the header
		if rowErr := im.importRow(ctx, userID, rec, header, cols, line); rowErr != nil {
			report.Errors = append(report.Errors, *rowErr)
		} else {
			report.Successes++
		}
	}
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, userID int, rec []string, header map[string]int, cols Mapping, line int) *RowError {
	field := func(name string) string {
		idx, ok := header[name]
		if !ok || idx >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[idx])
	}

	dateStr := field(cols.Date)
	amountStr := field(cols.Amount)
	if dateStr == "" || amountStr == "" {
		return &RowError{Line: line, Kind: ErrMissingField, Message: "missing date or amount"}
	}

	date, err := parseDate(dateStr)
	if err != nil {
		return &RowError{Line: line, Kind: ErrInvalidDate, Message: fmt.Sprintf("invalid date: %s", dateStr)}
	}

	amount, err := parseAmount(amountStr)
	if err != nil {
		return &RowError{Line: line, Kind: ErrInvalidAmount, Message: fmt.Sprintf("invalid amount: %s", amountStr)}
	}

	typ := models.ParseTransactionType(strings.ToUpper(field(cols.Type)))
	description := field(cols.Description)

	tx := &models.Transaction{
		UserID:      userID,
		Date:        date,
		Amount:      amount,
		Description: description,
		Type:        typ,
	}

	if cardName := field(cols.CardName); cardName != "" {
		cardID, err := im.store.FindOrCreateCard(ctx, userID, cardName)
		if err != nil {
			return &RowError{Line: line, Kind: ErrStorageFailure, Message: fmt.Sprintf("resolving card %q: %v", cardName, err)}
		}
		tx.CardID = &cardID
	}

	if catName := field(cols.Category); catName != "" {
		catID, err := im.store.FindOrCreateCategory(ctx, userID, catName, typ)
		if err != nil {
			return &RowError{Line: line, Kind: ErrStorageFailure, Message: fmt.Sprintf("resolving category %q: %v", catName, err)}
		}
		tx.CategoryID = &catID
	}

	if err := im.store.CreateTransaction(ctx, tx); err != nil {
		return &RowError{Line: line, Kind: ErrStorageFailure, Message: fmt.Sprintf("creating transaction: %v", err)}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// parseAmount accepts comma as the decimal separator. When a comma is
// present it is taken as the decimal point and any dots before it are
// thousands separators, so "1.234,56" parses as 1234.56.
func parseAmount(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}
