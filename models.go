package main

import (
	"fintrack/internal/finance"

	"github.com/shopspring/decimal"
)

// CategoryRequest is the body of POST /api/categories and of an inline
// new_category on a transaction.
type CategoryRequest struct {
	Name  string `json:"name" binding:"required,max=50" example:"Groceries"`
	Type  string `json:"type" binding:"omitempty,oneof=income expense" example:"expense"`
	Color string `json:"color" binding:"omitempty,hexcolor6" example:"#22c55e"`
	Icon  string `json:"icon" binding:"omitempty,max=50" example:"ShoppingCart"`
}

// TransactionRequest is the body for creating or updating an income or an
// expense. On update, omitted fields keep their stored value.
type TransactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" swaggertype:"number" example:"42.50"`
	CategoryID  *string          `json:"category_id" binding:"omitempty,uuid" example:"3f0c2a8e-4b7d-4e43-9a57-2d2f8f1c9b10"`
	NewCategory *CategoryRequest `json:"new_category"`
	Date        *string          `json:"date" example:"2025-03-05"`
	Notes       *string          `json:"notes" binding:"omitempty,max=1000"`
	IsRecurring *bool            `json:"is_recurring"`
}

// StockRequest is the body for creating or updating a stock purchase. On
// update, omitted fields keep their stored value and an empty string clears
// an optional text field.
type StockRequest struct {
	Ticker       *string          `json:"ticker" binding:"omitempty,min=1,max=20" example:"VOO"`
	Name         *string          `json:"name" binding:"omitempty,max=200"`
	Quantity     *decimal.Decimal `json:"quantity" swaggertype:"number" example:"3"`
	PricePerUnit *decimal.Decimal `json:"price_per_unit" swaggertype:"number" example:"400.25"`
	Date         *string          `json:"date" example:"2025-03-05"`
	Broker       *string          `json:"broker" binding:"omitempty,max=100"`
	Fee          *decimal.Decimal `json:"fee" swaggertype:"number" example:"2.50"`
	Notes        *string          `json:"notes" binding:"omitempty,max=1000"`
	CurrentValue *decimal.Decimal `json:"current_value" swaggertype:"number"`
	Currency     *string          `json:"currency" binding:"omitempty,len=3" example:"USD"`
	ExchangeRate *decimal.Decimal `json:"exchange_rate" swaggertype:"number"`
}

// ErrorResponse is the shape of every error body.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message,omitempty"`
	Details map[string][]string `json:"details,omitempty"`
}

// MessageResponse acknowledges deletes and batch operations.
type MessageResponse struct {
	Message string `json:"message"`
}

// RecurringResponse is returned by POST /api/recurring/process.
type RecurringResponse struct {
	Message string `json:"message"`
	finance.BatchResult
}

// SyncResponse is returned by POST /api/stocks/sync.
type SyncResponse struct {
	Message string `json:"message"`
	finance.SyncResult
}

// CategorySummaryResponse is returned by GET /api/summary/categories.
type CategorySummaryResponse struct {
	Year       int                     `json:"year"`
	Month      int                     `json:"month,omitempty"`
	Type       finance.Kind            `json:"type"`
	Total      decimal.Decimal         `json:"total"`
	Categories []finance.CategoryTotal `json:"categories"`
}
