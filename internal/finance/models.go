// Package finance holds the domain model of the tracker together with the
// aggregation and recurring-transaction engines.
package finance

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrConflict         = errors.New("resource already exists")
	ErrInvalidReference = errors.New("invalid reference")
)

// Kind distinguishes incomes from expenses. Categories carry the same kind
// as the transactions that reference them.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Kinds lists every transaction kind in export order.
var Kinds = []Kind{KindIncome, KindExpense}

// ParseKind validates a kind coming from user input.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("type must be one of income, expense")
}

// Label is the capitalised form used in exports.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	}
	return string(k)
}

// Category groups transactions of one kind.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      Kind      `json:"type"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCategory is the input for creating a category.
type NewCategory struct {
	Name  string
	Type  Kind
	Color string
	Icon  string
}

// Transaction is one income or expense row. A row with IsRecurring set and
// no TemplateID is a recurring template; generated instances point back to
// their template through TemplateID.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Kind        Kind            `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Category    *Category       `json:"category,omitempty"`
	Date        time.Time       `json:"date"`
	Notes       *string         `json:"notes"`
	IsRecurring bool            `json:"is_recurring"`
	TemplateID  *uuid.UUID      `json:"template_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsTemplate reports whether the row drives its own recurring series.
func (t Transaction) IsTemplate() bool {
	return t.IsRecurring && t.TemplateID == nil
}

// NewTransaction is the write model for incomes and expenses.
type NewTransaction struct {
	Amount      decimal.Decimal
	CategoryID  uuid.UUID
	Date        time.Time
	Notes       *string
	IsRecurring bool
	TemplateID  *uuid.UUID
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Period *Period
	Search string
}

// StockPurchase records one buy of a security.
type StockPurchase struct {
	ID           uuid.UUID        `json:"id"`
	Ticker       string           `json:"ticker"`
	Name         *string          `json:"name"`
	Quantity     decimal.Decimal  `json:"quantity"`
	PricePerUnit decimal.Decimal  `json:"price_per_unit"`
	Date         time.Time        `json:"date"`
	Broker       *string          `json:"broker"`
	Fee          *decimal.Decimal `json:"fee"`
	Notes        *string          `json:"notes"`
	CurrentValue *decimal.Decimal `json:"current_value"`
	Currency     string           `json:"currency"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// CostBasis is quantity × price plus the fee, if any.
func (s StockPurchase) CostBasis() decimal.Decimal {
	cost := s.Quantity.Mul(s.PricePerUnit)
	if s.Fee != nil {
		cost = cost.Add(*s.Fee)
	}
	return cost
}

// MarketValue is the stored snapshot or, without one, quantity × price.
// The fee is not part of the value, so an unsynced purchase shows a loss of
// exactly its fee.
func (s StockPurchase) MarketValue() decimal.Decimal {
	if s.CurrentValue != nil {
		return *s.CurrentValue
	}
	return s.Quantity.Mul(s.PricePerUnit)
}

// NewStockPurchase is the write model for stock purchases.
type NewStockPurchase struct {
	Ticker       string
	Name         *string
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	Date         time.Time
	Broker       *string
	Fee          *decimal.Decimal
	Notes        *string
	CurrentValue *decimal.Decimal
	Currency     string
	ExchangeRate *decimal.Decimal
}

// NormalizeTicker upper-cases and trims a ticker symbol.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}
