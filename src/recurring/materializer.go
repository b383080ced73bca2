// Package recurring materializes concrete transactions from recurring
// transaction templates. The job is safe to re-run at any cadence: every
// occurrence is identified by (user, rule, date) and is created at most
// once, so a run after downtime backfills exactly the missed dates.
package recurring

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/MGuimaraesN/cc-expense-tracker/src/dates"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// Store is the persistence surface the materializer needs.
type Store interface {
	// ActiveRules returns the user's rules with start_date <= today. Rules
	// whose end_date has passed are still returned: a run after downtime
	// must backfill up to the end date, and the stepping loop stops there.
	ActiveRules(ctx context.Context, userID int, today time.Time) ([]models.RecurringTransaction, error)
	// LastOccurrence returns the date of the most recent transaction
	// materialized from the rule, or ok=false if none exists.
	LastOccurrence(ctx context.Context, userID, ruleID int) (time.Time, bool, error)
	// OccurrenceExists reports whether a transaction for (user, rule, date)
	// already exists.
	OccurrenceExists(ctx context.Context, userID, ruleID int, date time.Time) (bool, error)
	// CreateOccurrence inserts a materialized transaction. Implementations
	// must treat a (user, rule, date) uniqueness conflict as success.
	CreateOccurrence(ctx context.Context, tx *models.Transaction) error
}

// Result summarizes one materializer run.
type Result struct {
	Created     int `json:"created"`
	FailedRules int `json:"failed_rules"`
}

// Materializer backfills due occurrences for one user's rules.
type Materializer struct {
	store Store
}

func New(store Store) *Materializer {
	return &Materializer{store: store}
}

// Run materializes every missing occurrence on or before today for all of
// the user's active rules. Rules are independent units of work: a failure
// in one is logged and counted, and the remaining rules still run. Partial
// progress within a rule is completed by the next run.
func (m *Materializer) Run(ctx context.Context, userID int, today time.Time) (Result, error) {
	today = dates.Day(today)

	rules, err := m.store.ActiveRules(ctx, userID, today)
	if err != nil {
		return Result{}, fmt.Errorf("fetching active rules: %w", err)
	}

	var res Result
	for _, rule := range rules {
		created, err := m.runRule(ctx, rule, today)
		res.Created += created
		if err != nil {
			res.FailedRules++
			log.Printf("ERROR: Materializing rule %d for user %d: %v", rule.ID, userID, err)
		}
	}
	return res, nil
}

// runRule backfills one rule, oldest occurrence first. Ordering matters:
// the anchor lookup on the next run takes the max materialized date.
func (m *Materializer) runRule(ctx context.Context, rule models.RecurringTransaction, today time.Time) (int, error) {
	last, ok, err := m.store.LastOccurrence(ctx, rule.UserID, rule.ID)
	if err != nil {
		return 0, fmt.Errorf("looking up last occurrence: %w", err)
	}

	start := dates.Day(rule.StartDate)
	candidate := start
	if ok {
		// The very first occurrence is the start date itself, unstepped;
		// every later candidate is one period past the anchor.
		candidate = dates.Next(start, last, rule.Frequency)
	}

	created := 0
	for !candidate.After(today) {
		if rule.EndDate != nil && candidate.After(dates.Day(*rule.EndDate)) {
			break
		}

		exists, err := m.store.OccurrenceExists(ctx, rule.UserID, rule.ID, candidate)
		if err != nil {
			return created, fmt.Errorf("checking occurrence %s: %w", candidate.Format("2006-01-02"), err)
		}
		if !exists {
			ruleID := rule.ID
			tx := &models.Transaction{
				UserID:      rule.UserID,
				CardID:      rule.CardID,
				CategoryID:  rule.CategoryID,
				RecurringID: &ruleID,
				Date:        candidate,
				Amount:      rule.Amount,
				Description: rule.Description,
				// Direction is carried by the signed amount; occurrences
				// are stored with the default ledger type.
				Type: models.TypeExpense,
			}
			if err := m.store.CreateOccurrence(ctx, tx); err != nil {
				return created, fmt.Errorf("creating occurrence %s: %w", candidate.Format("2006-01-02"), err)
			}
			created++
		}

		candidate = dates.Next(start, candidate, rule.Frequency)
	}
	return created, nil
}
