package store

import (
	"fmt"
	"time"

	"fintrack/db/generated"
	"fintrack/internal/finance"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func pgUUIDPtr(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgUUID(*id)
}

func uuidPtr(id pgtype.UUID) *uuid.UUID {
	if !id.Valid {
		return nil
	}
	u := uuid.UUID(id.Bytes)
	return &u
}

func pgText(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func pgDate(t time.Time) pgtype.Date {
	return pgtype.Date{Time: finance.Day(t), Valid: true}
}

func pgNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return n, fmt.Errorf("convert %s to numeric: %w", d, err)
	}
	return n, nil
}

func pgNumericPtr(d *decimal.Decimal) (pgtype.Numeric, error) {
	if d == nil {
		return pgtype.Numeric{}, nil
	}
	return pgNumeric(*d)
}

func fromNumeric(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.NaN || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func numericPtr(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := fromNumeric(n)
	return &d
}

func toCategory(c generated.Category) finance.Category {
	return finance.Category{
		ID:        uuid.UUID(c.ID.Bytes),
		Name:      c.Name,
		Type:      finance.Kind(c.Type),
		Color:     c.Color,
		Icon:      finance.ResolveIcon(c.Icon, c.Name),
		CreatedAt: c.CreatedAt.Time,
		UpdatedAt: c.UpdatedAt.Time,
	}
}

func toTransaction(t generated.Transaction) finance.Transaction {
	return finance.Transaction{
		ID:          uuid.UUID(t.ID.Bytes),
		Kind:        finance.Kind(t.Kind),
		Amount:      fromNumeric(t.Amount),
		CategoryID:  uuid.UUID(t.CategoryID.Bytes),
		Date:        finance.Day(t.Date.Time),
		Notes:       textPtr(t.Notes),
		IsRecurring: t.IsRecurring,
		TemplateID:  uuidPtr(t.TemplateID),
		CreatedAt:   t.CreatedAt.Time,
		UpdatedAt:   t.UpdatedAt.Time,
	}
}

func toStockPurchase(s generated.StockPurchase) finance.StockPurchase {
	return finance.StockPurchase{
		ID:           uuid.UUID(s.ID.Bytes),
		Ticker:       s.Ticker,
		Name:         textPtr(s.Name),
		Quantity:     fromNumeric(s.Quantity),
		PricePerUnit: fromNumeric(s.PricePerUnit),
		Date:         finance.Day(s.Date.Time),
		Broker:       textPtr(s.Broker),
		Fee:          numericPtr(s.Fee),
		Notes:        textPtr(s.Notes),
		CurrentValue: numericPtr(s.CurrentValue),
		Currency:     s.Currency,
		ExchangeRate: numericPtr(s.ExchangeRate),
		CreatedAt:    s.CreatedAt.Time,
		UpdatedAt:    s.UpdatedAt.Time,
	}
}
