package finance

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCSV(t *testing.T) {
	salary := &Category{ID: uuid.New(), Name: "Salary"}
	food := &Category{ID: uuid.New(), Name: "Food"}
	quoted := `Dinner at "Luigi's", downtown`

	txs := []Transaction{
		{Kind: KindExpense, Amount: dec("42.5"), Category: food, CategoryID: food.ID, Date: date(2025, time.March, 10), Notes: &quoted},
		{Kind: KindIncome, Amount: dec("1000"), Category: salary, CategoryID: salary.ID, Date: date(2025, time.March, 5), IsRecurring: true},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, txs))

	lines := strings.Split(strings.TrimRight(buf.String(), "\r\n"), "\r\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Type,Date,Category,Amount,Notes,Recurring", lines[0])
	assert.Equal(t, "Income,2025-03-05,Salary,1000,,true", lines[1])
	assert.Equal(t, `Expense,2025-03-10,Food,42.5,"Dinner at ""Luigi's"", downtown",false`, lines[2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "Type,Date,Category,Amount,Notes,Recurring\r\n", buf.String())
}

func TestExportRowsOrdering(t *testing.T) {
	first := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	txs := []Transaction{
		{Kind: KindExpense, Amount: dec("1"), Date: date(2025, time.January, 2)},
		{Kind: KindExpense, Amount: dec("2"), Date: date(2025, time.January, 1), CreatedAt: first},
		{Kind: KindIncome, Amount: dec("3"), Date: date(2025, time.January, 1), CreatedAt: first.Add(time.Hour)},
	}

	rows := ExportRows(txs)
	require.Len(t, rows, 3)
	assert.Equal(t, "Income", rows[0].Type)
	assert.Equal(t, "2", rows[1].Amount)
	assert.Equal(t, "2025-01-02", rows[2].Date)
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "export-2025.csv", ExportFilename(2025, 0))
	assert.Equal(t, "export-2025-03.csv", ExportFilename(2025, 3))
}
