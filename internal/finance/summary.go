package finance

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthlySummary totals one calendar month.
type MonthlySummary struct {
	Year         int             `json:"year"`
	Month        int             `json:"month"`
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

// YearlySummary holds all twelve months and the year totals.
type YearlySummary struct {
	Year         int              `json:"year"`
	Months       []MonthlySummary `json:"months"`
	TotalIncome  decimal.Decimal  `json:"total_income"`
	TotalExpense decimal.Decimal  `json:"total_expense"`
	Balance      decimal.Decimal  `json:"balance"`
}

// PortfolioSummary aggregates stock purchases. TotalCostWithFees always
// equals TotalInvested; both are exposed for client compatibility.
type PortfolioSummary struct {
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalCostWithFees decimal.Decimal `json:"total_cost_with_fees"`
	TotalCurrentValue decimal.Decimal `json:"total_current_value"`
	ProfitLoss        decimal.Decimal `json:"profit_loss"`
	Count             int             `json:"count"`
}

// CategoryTotal is the amount booked against one category in a period.
type CategoryTotal struct {
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage decimal.Decimal `json:"percentage"`
}

// NewMonthlySummary derives the balance from the two totals.
func NewMonthlySummary(year int, month time.Month, income, expense decimal.Decimal) MonthlySummary {
	return MonthlySummary{
		Year:         year,
		Month:        int(month),
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// BuildYearlySummary lays out twelve months from per-month totals; months
// missing from the maps appear with zeros.
func BuildYearlySummary(year int, incomes, expenses map[time.Month]decimal.Decimal) YearlySummary {
	summary := YearlySummary{
		Year:         year,
		Months:       make([]MonthlySummary, 0, 12),
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
	}
	for m := time.January; m <= time.December; m++ {
		month := NewMonthlySummary(year, m, incomes[m], expenses[m])
		summary.Months = append(summary.Months, month)
		summary.TotalIncome = summary.TotalIncome.Add(month.TotalIncome)
		summary.TotalExpense = summary.TotalExpense.Add(month.TotalExpense)
	}
	summary.Balance = summary.TotalIncome.Sub(summary.TotalExpense)
	return summary
}

// SummarizePortfolio computes cost basis, market value and P&L. Purchases
// without a current value count at quantity × price.
func SummarizePortfolio(purchases []StockPurchase) PortfolioSummary {
	invested := decimal.Zero
	current := decimal.Zero
	for _, p := range purchases {
		invested = invested.Add(p.CostBasis())
		current = current.Add(p.MarketValue())
	}
	return PortfolioSummary{
		TotalInvested:     invested,
		TotalCostWithFees: invested,
		TotalCurrentValue: current,
		ProfitLoss:        current.Sub(invested),
		Count:             len(purchases),
	}
}

// CategoryBreakdown sums transactions per category and sorts by amount,
// largest first.
func CategoryBreakdown(txs []Transaction) []CategoryTotal {
	byID := make(map[uuid.UUID]*CategoryTotal)
	total := decimal.Zero
	for _, t := range txs {
		ct, ok := byID[t.CategoryID]
		if !ok {
			ct = &CategoryTotal{CategoryID: t.CategoryID, Amount: decimal.Zero}
			if t.Category != nil {
				ct.Name = t.Category.Name
				ct.Color = t.Category.Color
			}
			byID[t.CategoryID] = ct
		}
		ct.Amount = ct.Amount.Add(t.Amount)
		total = total.Add(t.Amount)
	}

	hundred := decimal.NewFromInt(100)
	breakdown := make([]CategoryTotal, 0, len(byID))
	for _, ct := range byID {
		ct.Percentage = decimal.Zero
		if total.IsPositive() {
			ct.Percentage = ct.Amount.Div(total).Mul(hundred).Round(2)
		}
		breakdown = append(breakdown, *ct)
	}
	sort.Slice(breakdown, func(i, j int) bool {
		if c := breakdown[i].Amount.Cmp(breakdown[j].Amount); c != 0 {
			return c > 0
		}
		return breakdown[i].Name < breakdown[j].Name
	})
	return breakdown
}

// SummaryStore is the read surface of the aggregation engine.
type SummaryStore interface {
	SumTransactions(ctx context.Context, kind Kind, period Period) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, kind Kind, year int) (map[time.Month]decimal.Decimal, error)
	ListTransactions(ctx context.Context, kind Kind, filter TransactionFilter) ([]Transaction, error)
	ListStockPurchases(ctx context.Context, period *Period) ([]StockPurchase, error)
}

// Summarizer answers aggregate queries. Nothing is cached; every call
// recomputes from the store.
type Summarizer struct {
	store SummaryStore
}

// NewSummarizer reads aggregates from store.
func NewSummarizer(store SummaryStore) *Summarizer {
	return &Summarizer{store: store}
}

// Month sums incomes and expenses dated within the month.
func (s *Summarizer) Month(ctx context.Context, year int, month time.Month) (MonthlySummary, error) {
	period := MonthPeriod(year, month)
	income, err := s.store.SumTransactions(ctx, KindIncome, period)
	if err != nil {
		return MonthlySummary{}, err
	}
	expense, err := s.store.SumTransactions(ctx, KindExpense, period)
	if err != nil {
		return MonthlySummary{}, err
	}
	return NewMonthlySummary(year, month, income, expense), nil
}

// Year groups the year's transactions by calendar month.
func (s *Summarizer) Year(ctx context.Context, year int) (YearlySummary, error) {
	incomes, err := s.store.MonthlyTotals(ctx, KindIncome, year)
	if err != nil {
		return YearlySummary{}, err
	}
	expenses, err := s.store.MonthlyTotals(ctx, KindExpense, year)
	if err != nil {
		return YearlySummary{}, err
	}
	return BuildYearlySummary(year, incomes, expenses), nil
}

// Portfolio summarises stock purchases, optionally restricted to a period.
func (s *Summarizer) Portfolio(ctx context.Context, period *Period) (PortfolioSummary, error) {
	purchases, err := s.store.ListStockPurchases(ctx, period)
	if err != nil {
		return PortfolioSummary{}, err
	}
	return SummarizePortfolio(purchases), nil
}

// Categories breaks down one kind's transactions in a period by category.
func (s *Summarizer) Categories(ctx context.Context, kind Kind, period Period) ([]CategoryTotal, error) {
	txs, err := s.store.ListTransactions(ctx, kind, TransactionFilter{Period: &period})
	if err != nil {
		return nil, err
	}
	return CategoryBreakdown(txs), nil
}

// Transactions loads both kinds within a period, for exports.
func (s *Summarizer) Transactions(ctx context.Context, period Period) ([]Transaction, error) {
	var all []Transaction
	for _, kind := range Kinds {
		txs, err := s.store.ListTransactions(ctx, kind, TransactionFilter{Period: &period})
		if err != nil {
			return nil, err
		}
		all = append(all, txs...)
	}
	return all, nil
}
