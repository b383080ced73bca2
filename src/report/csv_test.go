package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func TestWriteMonthlyCSV(t *testing.T) {
	food := "Food"
	visa := "Visa"
	txs := []models.Transaction{
		{
			Date:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Description:  "Groceries",
			Amount:       decimal.RequireFromString("120.5"),
			CategoryName: &food,
			CardName:     &visa,
		},
		{
			Date:        time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
			Description: "Salary",
			Amount:      decimal.NewFromInt(5000),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, txs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "date,description,category,card,amount", lines[0])
	assert.Equal(t, "2024-03-01,Groceries,Food,Visa,120.50", lines[1])
	assert.Equal(t, "2024-03-02,Salary,,,5000.00", lines[2])
}

func TestWriteMonthlyCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMonthlyCSV(&buf, nil))
	assert.Equal(t, "date,description,category,card,amount\n", buf.String())
}
