package recurring

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGuimaraesN/cc-expense-tracker/src/dates"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

type memStore struct {
	rules []models.RecurringTransaction
	txs   []models.Transaction

	failCreateForRule int // rule ID whose creates fail, 0 for none
}

func (s *memStore) ActiveRules(_ context.Context, userID int, today time.Time) ([]models.RecurringTransaction, error) {
	var out []models.RecurringTransaction
	for _, r := range s.rules {
		if r.UserID != userID || r.StartDate.After(today) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (s *memStore) LastOccurrence(_ context.Context, userID, ruleID int) (time.Time, bool, error) {
	var last time.Time
	found := false
	for _, tx := range s.txs {
		if tx.UserID != userID || tx.RecurringID == nil || *tx.RecurringID != ruleID {
			continue
		}
		if !found || tx.Date.After(last) {
			last = tx.Date
			found = true
		}
	}
	return last, found, nil
}

func (s *memStore) OccurrenceExists(_ context.Context, userID, ruleID int, d time.Time) (bool, error) {
	for _, tx := range s.txs {
		if tx.UserID == userID && tx.RecurringID != nil && *tx.RecurringID == ruleID && tx.Date.Equal(d) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) CreateOccurrence(_ context.Context, tx *models.Transaction) error {
	if tx.RecurringID != nil && *tx.RecurringID == s.failCreateForRule {
		return errors.New("storage unavailable")
	}
	tx.ID = len(s.txs) + 1
	s.txs = append(s.txs, *tx)
	return nil
}

func monthlyRule(id, userID int, start time.Time, end *time.Time) models.RecurringTransaction {
	return models.RecurringTransaction{
		ID:          id,
		UserID:      userID,
		Amount:      decimal.NewFromInt(100),
		Description: fmt.Sprintf("rule-%d", id),
		Frequency:   dates.Monthly,
		StartDate:   start,
		EndDate:     end,
	}
}

func datesOf(txs []models.Transaction) []time.Time {
	out := make([]time.Time, len(txs))
	for i, tx := range txs {
		out[i] = tx.Date
	}
	return out
}

func TestCatchUpFromStart(t *testing.T) {
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 15), nil),
	}}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	assert.Equal(t, 4, res.Created)
	assert.Equal(t, 0, res.FailedRules)

	want := []time.Time{date(2024, 1, 15), date(2024, 2, 15), date(2024, 3, 15), date(2024, 4, 15)}
	assert.Equal(t, want, datesOf(store.txs))
	for _, tx := range store.txs {
		require.NotNil(t, tx.RecurringID)
		assert.Equal(t, 1, *tx.RecurringID)
		assert.Equal(t, 7, tx.UserID)
		assert.True(t, decimal.NewFromInt(100).Equal(tx.Amount))
	}
}

func TestIdempotentSecondRun(t *testing.T) {
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 15), nil),
	}}
	m := New(store)

	_, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	before := len(store.txs)

	res, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Len(t, store.txs, before)
}

func TestAdvancesFromAnchor(t *testing.T) {
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 15), nil),
	}}
	m := New(store)

	_, err := m.Run(context.Background(), 7, date(2024, 2, 20))
	require.NoError(t, err)
	require.Len(t, store.txs, 2)

	// Ten days of downtime later, only the missed occurrences appear.
	res, err := m.Run(context.Background(), 7, date(2024, 4, 16))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	want := []time.Time{date(2024, 1, 15), date(2024, 2, 15), date(2024, 3, 15), date(2024, 4, 15)}
	assert.Equal(t, want, datesOf(store.txs))
}

func TestEndDateBoundary(t *testing.T) {
	end := date(2024, 2, 15)
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 15), &end),
	}}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created, "nothing materializes past the end date")
	assert.Equal(t, []time.Time{date(2024, 1, 15), date(2024, 2, 15)}, datesOf(store.txs))

	// Re-running an ended rule stays a no-op.
	res, err = m.Run(context.Background(), 7, date(2024, 5, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
}

func TestEndDateStopsWithinRange(t *testing.T) {
	end := date(2024, 3, 1)
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 15), &end),
	}}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 3, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created, "march 15 falls past the end date")
}

func TestFutureStartIgnored(t *testing.T) {
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 6, 1), nil),
	}}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Empty(t, store.txs)
}

func TestDailyAndWeekly(t *testing.T) {
	daily := monthlyRule(1, 7, date(2024, 4, 17), nil)
	daily.Frequency = dates.Daily
	weekly := monthlyRule(2, 7, date(2024, 4, 1), nil)
	weekly.Frequency = dates.Weekly

	store := &memStore{rules: []models.RecurringTransaction{daily, weekly}}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 4, 20))
	require.NoError(t, err)
	// Daily: 17..20 = 4. Weekly: 1, 8, 15 = 3.
	assert.Equal(t, 7, res.Created)
}

func TestMonthEndClamp(t *testing.T) {
	store := &memStore{rules: []models.RecurringTransaction{
		monthlyRule(1, 7, date(2024, 1, 31), nil),
	}}
	m := New(store)

	_, err := m.Run(context.Background(), 7, date(2024, 4, 30))
	require.NoError(t, err)
	want := []time.Time{date(2024, 1, 31), date(2024, 2, 29), date(2024, 3, 31), date(2024, 4, 30)}
	assert.Equal(t, want, datesOf(store.txs))
}

func TestRuleFailureDoesNotStopOthers(t *testing.T) {
	store := &memStore{
		rules: []models.RecurringTransaction{
			monthlyRule(1, 7, date(2024, 1, 15), nil),
			monthlyRule(2, 7, date(2024, 1, 10), nil),
		},
		failCreateForRule: 1,
	}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 2, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, res.FailedRules)
	assert.Equal(t, 2, res.Created, "rule 2 still materializes both occurrences")
	for _, tx := range store.txs {
		assert.Equal(t, 2, *tx.RecurringID)
	}
}

func TestManualTransactionDoesNotSuppress(t *testing.T) {
	// A manually entered transaction on the same date with the same
	// description is not an occurrence: the dedup key is (user, rule, date).
	store := &memStore{
		rules: []models.RecurringTransaction{
			monthlyRule(1, 7, date(2024, 1, 15), nil),
		},
		txs: []models.Transaction{{
			UserID:      7,
			Date:        date(2024, 1, 15),
			Amount:      decimal.NewFromInt(100),
			Description: "rule-1",
		}},
	}
	m := New(store)

	res, err := m.Run(context.Background(), 7, date(2024, 1, 20))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
}
