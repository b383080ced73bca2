package importer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

type memStore struct {
	cards      map[string]int
	categories map[string]int
	catTypes   map[string]models.TransactionType
	txs        []models.Transaction

	failCreates bool
}

func newMemStore() *memStore {
	return &memStore{
		cards:      map[string]int{},
		categories: map[string]int{},
		catTypes:   map[string]models.TransactionType{},
	}
}

func (s *memStore) FindOrCreateCard(_ context.Context, userID int, name string) (int, error) {
	if id, ok := s.cards[name]; ok {
		return id, nil
	}
	id := len(s.cards) + 1
	s.cards[name] = id
	return id, nil
}

func (s *memStore) FindOrCreateCategory(_ context.Context, userID int, name string, typ models.TransactionType) (int, error) {
	if id, ok := s.categories[name]; ok {
		return id, nil
	}
	id := len(s.categories) + 1
	s.categories[name] = id
	s.catTypes[name] = typ
	return id, nil
}

func (s *memStore) CreateTransaction(_ context.Context, tx *models.Transaction) error {
	if s.failCreates {
		return errors.New("storage unavailable")
	}
	tx.ID = len(s.txs) + 1
	s.txs = append(s.txs, *tx)
	return nil
}

func run(t *testing.T, store *memStore, csv string, mapping Mapping) Report {
	t.Helper()
	report, err := New(store).Run(context.Background(), 7, strings.NewReader(csv), mapping)
	require.NoError(t, err)
	return report
}

func TestImportValidRows(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description,card_name,category,type",
		"2024-03-01,120.50,Groceries,Nubank,Food,expense",
		"2024-03-02,5000,Salary,,Income,income",
	}, "\n"), Mapping{})

	assert.Equal(t, 2, report.Successes)
	assert.Empty(t, report.Errors)
	require.Len(t, store.txs, 2)

	first := store.txs[0]
	assert.Equal(t, 7, first.UserID)
	assert.True(t, decimal.RequireFromString("120.50").Equal(first.Amount))
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, models.TypeExpense, first.Type)
	require.NotNil(t, first.CardID)
	require.NotNil(t, first.CategoryID)

	second := store.txs[1]
	assert.Equal(t, models.TypeIncome, second.Type)
	assert.Nil(t, second.CardID, "blank card_name stays unresolved")
}

func TestRowCountInvariant(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description",
		"2024-03-01,10.00,ok",
		"not-a-date,10.00,bad date",
		"2024-03-03,abc,bad amount",
		",10.00,missing date",
		"2024-03-05,12.00,ok",
	}, "\n"), Mapping{})

	assert.Equal(t, 5, report.Successes+len(report.Errors))
	assert.Equal(t, 2, report.Successes)
}

func TestPartialFailureIsolation(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description",
		"2024-03-01,10.00,first",
		"2024-03-02,,no amount",
		"2024-03-03,30.00,third",
	}, "\n"), Mapping{})

	assert.Equal(t, 2, report.Successes)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, 3, report.Errors[0].Line, "line numbers are offset by the header row")
	assert.Equal(t, ErrMissingField, report.Errors[0].Kind)
}

func TestErrorKinds(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description",
		"31/31/2024,10.00,bad date",
		"2024-03-01,ten,bad amount",
	}, "\n"), Mapping{})

	require.Len(t, report.Errors, 2)
	assert.Equal(t, ErrInvalidDate, report.Errors[0].Kind)
	assert.Equal(t, ErrInvalidAmount, report.Errors[1].Kind)
	assert.Equal(t, 0, report.Successes)
}

func TestCommaDecimalSeparator(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description",
		`2024-03-01,"1.234,56",thousands and comma decimal`,
		`2024-03-02,"1234,56",comma decimal`,
	}, "\n"), Mapping{})

	assert.Equal(t, 2, report.Successes)
	require.Len(t, store.txs, 2)
	want := decimal.RequireFromString("1234.56")
	assert.True(t, want.Equal(store.txs[0].Amount), "got %s", store.txs[0].Amount)
	assert.True(t, want.Equal(store.txs[1].Amount), "got %s", store.txs[1].Amount)
}

func TestCategoryAndCardReuse(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,description,card_name,category",
		"2024-03-01,10.00,a,Visa,Food",
		"2024-03-02,20.00,b,Visa,Food",
	}, "\n"), Mapping{})

	assert.Equal(t, 2, report.Successes)
	assert.Len(t, store.categories, 1, "same name resolves to one category")
	assert.Len(t, store.cards, 1)
	require.Len(t, store.txs, 2)
	assert.Equal(t, *store.txs[0].CategoryID, *store.txs[1].CategoryID)
	assert.Equal(t, *store.txs[0].CardID, *store.txs[1].CardID)
}

func TestHeaderMapping(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"Data,Valor,Historico,Cartao",
		"2024-03-01,99.90,Mercado,Nubank",
	}, "\n"), Mapping{
		Date:        "Data",
		Amount:      "Valor",
		Description: "Historico",
		CardName:    "Cartao",
	})

	assert.Equal(t, 1, report.Successes)
	require.Len(t, store.txs, 1)
	assert.Equal(t, "Mercado", store.txs[0].Description)
	require.NotNil(t, store.txs[0].CardID)
}

func TestTypeDefaultsToExpense(t *testing.T) {
	store := newMemStore()
	report := run(t, store, strings.Join([]string{
		"date,amount,type",
		"2024-03-01,10.00,",
		"2024-03-02,20.00,transfer",
		"2024-03-03,30.00,INCOME",
	}, "\n"), Mapping{})

	assert.Equal(t, 3, report.Successes)
	assert.Equal(t, models.TypeExpense, store.txs[0].Type)
	assert.Equal(t, models.TypeExpense, store.txs[1].Type)
	assert.Equal(t, models.TypeIncome, store.txs[2].Type)
}

func TestStorageFailureIsRowLocal(t *testing.T) {
	store := newMemStore()
	store.failCreates = true
	report := run(t, store, strings.Join([]string{
		"date,amount,description",
		"2024-03-01,10.00,a",
		"2024-03-02,20.00,b",
	}, "\n"), Mapping{})

	assert.Equal(t, 0, report.Successes)
	require.Len(t, report.Errors, 2)
	for _, e := range report.Errors {
		assert.Equal(t, ErrStorageFailure, e.Kind)
	}
}

func TestEmptyFile(t *testing.T) {
	store := newMemStore()
	report := run(t, store, "", Mapping{})
	assert.Equal(t, 0, report.Successes)
	assert.Empty(t, report.Errors)
}
