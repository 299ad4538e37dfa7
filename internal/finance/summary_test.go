package finance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sliceSummaryStore answers aggregate queries by scanning in-memory slices.
type sliceSummaryStore struct {
	txs    []Transaction
	stocks []StockPurchase
}

func (s *sliceSummaryStore) SumTransactions(_ context.Context, kind Kind, period Period) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, t := range s.txs {
		if t.Kind == kind && period.Contains(t.Date) {
			total = total.Add(t.Amount)
		}
	}
	return total, nil
}

func (s *sliceSummaryStore) MonthlyTotals(_ context.Context, kind Kind, year int) (map[time.Month]decimal.Decimal, error) {
	out := map[time.Month]decimal.Decimal{}
	for _, t := range s.txs {
		if t.Kind == kind && t.Date.Year() == year {
			out[t.Date.Month()] = out[t.Date.Month()].Add(t.Amount)
		}
	}
	return out, nil
}

func (s *sliceSummaryStore) ListTransactions(_ context.Context, kind Kind, filter TransactionFilter) ([]Transaction, error) {
	var out []Transaction
	for _, t := range s.txs {
		if t.Kind == kind && (filter.Period == nil || filter.Period.Contains(t.Date)) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *sliceSummaryStore) ListStockPurchases(_ context.Context, period *Period) ([]StockPurchase, error) {
	var out []StockPurchase
	for _, p := range s.stocks {
		if period == nil || period.Contains(p.Date) {
			out = append(out, p)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func exampleStore() *sliceSummaryStore {
	return &sliceSummaryStore{txs: []Transaction{
		{ID: uuid.New(), Kind: KindIncome, Amount: dec("1000"), Date: date(2025, time.March, 5)},
		{ID: uuid.New(), Kind: KindExpense, Amount: dec("300"), Date: date(2025, time.March, 10)},
		{ID: uuid.New(), Kind: KindExpense, Amount: dec("50"), Date: date(2025, time.April, 1)},
	}}
}

func TestSummarizerMonth(t *testing.T) {
	s := NewSummarizer(exampleStore())
	ctx := context.Background()

	march, err := s.Month(ctx, 2025, time.March)
	require.NoError(t, err)
	assert.Equal(t, "1000", march.TotalIncome.String())
	assert.Equal(t, "300", march.TotalExpense.String())
	assert.Equal(t, "700", march.Balance.String())

	april, err := s.Month(ctx, 2025, time.April)
	require.NoError(t, err)
	assert.Equal(t, "0", april.TotalIncome.String())
	assert.Equal(t, "50", april.TotalExpense.String())
	assert.Equal(t, "-50", april.Balance.String())

	empty, err := s.Month(ctx, 2024, time.July)
	require.NoError(t, err)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.True(t, empty.TotalExpense.IsZero())
	assert.True(t, empty.Balance.IsZero())
}

func TestSummarizerYearIsAdditive(t *testing.T) {
	store := exampleStore()
	store.txs = append(store.txs,
		Transaction{Kind: KindIncome, Amount: dec("12.34"), Date: date(2025, time.December, 31)},
		Transaction{Kind: KindExpense, Amount: dec("99.99"), Date: date(2026, time.January, 1)},
	)
	s := NewSummarizer(store)
	ctx := context.Background()

	year, err := s.Year(ctx, 2025)
	require.NoError(t, err)
	require.Len(t, year.Months, 12)

	income, expense, balance := decimal.Zero, decimal.Zero, decimal.Zero
	for i, m := range year.Months {
		assert.Equal(t, i+1, m.Month)

		monthly, err := s.Month(ctx, 2025, time.Month(m.Month))
		require.NoError(t, err)
		assert.True(t, monthly.TotalIncome.Equal(m.TotalIncome), "month %d income", m.Month)
		assert.True(t, monthly.TotalExpense.Equal(m.TotalExpense), "month %d expense", m.Month)
		assert.True(t, m.Balance.Equal(m.TotalIncome.Sub(m.TotalExpense)))

		income = income.Add(m.TotalIncome)
		expense = expense.Add(m.TotalExpense)
		balance = balance.Add(m.Balance)
	}
	assert.True(t, year.TotalIncome.Equal(income))
	assert.True(t, year.TotalExpense.Equal(expense))
	assert.True(t, year.Balance.Equal(balance))
	assert.Equal(t, "1012.34", year.TotalIncome.String())
	assert.Equal(t, "350", year.TotalExpense.String())
}

func TestBuildYearlySummaryFillsEmptyMonths(t *testing.T) {
	summary := BuildYearlySummary(2025, nil, map[time.Month]decimal.Decimal{time.June: dec("10")})
	require.Len(t, summary.Months, 12)
	for _, m := range summary.Months {
		if m.Month == 6 {
			assert.Equal(t, "-10", m.Balance.String())
			continue
		}
		assert.True(t, m.TotalIncome.IsZero())
		assert.True(t, m.TotalExpense.IsZero())
		assert.True(t, m.Balance.IsZero())
	}
}

func TestSummarizePortfolio(t *testing.T) {
	purchases := []StockPurchase{
		{Ticker: "AAPL", Quantity: dec("10"), PricePerUnit: dec("150"), Fee: decPtr("5"), CurrentValue: decPtr("1800"), Date: date(2025, time.March, 1)},
		{Ticker: "MSFT", Quantity: dec("2"), PricePerUnit: dec("300"), Date: date(2025, time.April, 1)},
	}

	summary := SummarizePortfolio(purchases)
	assert.Equal(t, "2105", summary.TotalInvested.String())
	assert.True(t, summary.TotalCostWithFees.Equal(summary.TotalInvested))
	assert.Equal(t, "2400", summary.TotalCurrentValue.String())
	assert.True(t, summary.ProfitLoss.Equal(summary.TotalCurrentValue.Sub(summary.TotalCostWithFees)))
	assert.Equal(t, "295", summary.ProfitLoss.String())
	assert.Equal(t, 2, summary.Count)

	t.Run("purchase without snapshot is valued at quantity times price", func(t *testing.T) {
		only := SummarizePortfolio(purchases[1:])
		assert.True(t, only.ProfitLoss.IsZero())

		withFee := SummarizePortfolio([]StockPurchase{
			{Ticker: "VOO", Quantity: dec("2"), PricePerUnit: dec("100"), Fee: decPtr("5")},
		})
		assert.Equal(t, "205", withFee.TotalInvested.String())
		assert.Equal(t, "200", withFee.TotalCurrentValue.String())
		assert.Equal(t, "-5", withFee.ProfitLoss.String())
	})

	t.Run("period filter", func(t *testing.T) {
		s := NewSummarizer(&sliceSummaryStore{stocks: purchases})
		period := MonthPeriod(2025, time.April)
		summary, err := s.Portfolio(context.Background(), &period)
		require.NoError(t, err)
		assert.Equal(t, 1, summary.Count)
		assert.Equal(t, "600", summary.TotalInvested.String())
	})

	t.Run("empty portfolio", func(t *testing.T) {
		summary := SummarizePortfolio(nil)
		assert.True(t, summary.TotalInvested.IsZero())
		assert.True(t, summary.ProfitLoss.IsZero())
		assert.Equal(t, 0, summary.Count)
	})
}

func TestCategoryBreakdown(t *testing.T) {
	food := &Category{ID: uuid.New(), Name: "Food", Color: "#f59e0b"}
	rent := &Category{ID: uuid.New(), Name: "Rent", Color: "#a855f7"}
	txs := []Transaction{
		{CategoryID: food.ID, Category: food, Amount: dec("100")},
		{CategoryID: rent.ID, Category: rent, Amount: dec("250")},
		{CategoryID: food.ID, Category: food, Amount: dec("150")},
	}

	breakdown := CategoryBreakdown(txs)
	require.Len(t, breakdown, 2)
	assert.Equal(t, "Food", breakdown[0].Name)
	assert.Equal(t, "250", breakdown[0].Amount.String())
	assert.Equal(t, "50", breakdown[0].Percentage.String())
	assert.Equal(t, "Rent", breakdown[1].Name)

	assert.Empty(t, CategoryBreakdown(nil))
}
