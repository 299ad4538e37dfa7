// Package store persists categories, transactions and stock purchases.
package store

import (
	"context"
	"time"

	"fintrack/internal/finance"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the persistence accessor used by the HTTP layer, the recurring
// engine, the aggregation engine and the price sync.
type Store interface {
	ListCategories(ctx context.Context, kind *finance.Kind) ([]finance.Category, error)
	GetCategory(ctx context.Context, id uuid.UUID) (finance.Category, error)
	CreateCategory(ctx context.Context, in finance.NewCategory) (finance.Category, error)
	CountCategories(ctx context.Context) (int64, error)

	CreateTransaction(ctx context.Context, kind finance.Kind, in finance.NewTransaction) (finance.Transaction, error)
	GetTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID) (finance.Transaction, error)
	ListTransactions(ctx context.Context, kind finance.Kind, filter finance.TransactionFilter) ([]finance.Transaction, error)
	UpdateTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID, in finance.NewTransaction) (finance.Transaction, error)
	// DeleteTransaction removes a row. Instances generated from it are
	// handed over to the most recent one, which becomes their template.
	DeleteTransaction(ctx context.Context, kind finance.Kind, id uuid.UUID) error
	SumTransactions(ctx context.Context, kind finance.Kind, period finance.Period) (decimal.Decimal, error)
	MonthlyTotals(ctx context.Context, kind finance.Kind, year int) (map[time.Month]decimal.Decimal, error)
	ListRecurringTemplates(ctx context.Context, kind finance.Kind, asOf time.Time) ([]finance.Transaction, error)
	LatestRecurringInstance(ctx context.Context, kind finance.Kind, templateID uuid.UUID) (finance.Transaction, error)

	ListStockPurchases(ctx context.Context, period *finance.Period) ([]finance.StockPurchase, error)
	GetStockPurchase(ctx context.Context, id uuid.UUID) (finance.StockPurchase, error)
	CreateStockPurchase(ctx context.Context, in finance.NewStockPurchase) (finance.StockPurchase, error)
	UpdateStockPurchase(ctx context.Context, id uuid.UUID, in finance.NewStockPurchase) (finance.StockPurchase, error)
	DeleteStockPurchase(ctx context.Context, id uuid.UUID) error
	ListTickers(ctx context.Context) ([]string, error)
	UpdateStockValuation(ctx context.Context, ticker string, price decimal.Decimal, name *string) (int64, error)

	// WithTx runs fn in one unit of work. Everything fn writes through the
	// Store it receives is committed together, or not at all when fn fails.
	WithTx(ctx context.Context, fn func(Store) error) error

	Ping(ctx context.Context) error
	Close()
}

var (
	_ finance.RecurringStore = Store(nil)
	_ finance.SummaryStore   = Store(nil)
	_ finance.PortfolioStore = Store(nil)
)
