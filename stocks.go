package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/finance"
	"fintrack/internal/marketdata"
	"fintrack/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultCurrency = "USD"

// column scales of stock_purchases
const (
	feePlaces      = 2
	quantityPlaces = 6
	ratePlaces     = 8
)

// Stock purchase handler functions

// @Summary List stock purchases
// @Description List purchases newest first, optionally within a year or month
// @Tags stocks
// @Produce json
// @Param year query string false "4-digit year"
// @Param month query string false "month 1-12, requires year"
// @Success 200 {array} finance.StockPurchase
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/stocks [get]
func (s *Server) getStocks(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	purchases, err := s.store.ListStockPurchases(c.Request.Context(), period)
	if err != nil {
		s.respondError(c, err, "Error fetching stock purchases")
		return
	}
	if purchases == nil {
		purchases = []finance.StockPurchase{}
	}
	c.JSON(http.StatusOK, purchases)
}

// @Summary Get stock purchase
// @Tags stocks
// @Produce json
// @Param id path string true "Stock purchase ID"
// @Success 200 {object} finance.StockPurchase
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/stocks/{id} [get]
func (s *Server) getStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	purchase, err := s.store.GetStockPurchase(c.Request.Context(), id)
	if err != nil {
		s.respondError(c, err, "Error fetching stock purchase")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

// @Summary Create stock purchase
// @Description Ticker is upper-cased, currency defaults to USD
// @Tags stocks
// @Accept json
// @Produce json
// @Param purchase body StockRequest true "ticker, quantity, price_per_unit and date required"
// @Success 201 {object} finance.StockPurchase
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/stocks [post]
func (s *Server) createStock(c *gin.Context) {
	var req StockRequest
	if !bindJSON(c, &req) {
		return
	}
	in, details := req.toNewStockPurchase(nil)
	if !details.empty() {
		respondValidation(c, details)
		return
	}
	purchase, err := s.store.CreateStockPurchase(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err, "Error creating stock purchase")
		return
	}
	c.JSON(http.StatusCreated, purchase)
}

// @Summary Update stock purchase
// @Description Partial update: omitted fields keep their stored value
// @Tags stocks
// @Accept json
// @Produce json
// @Param id path string true "Stock purchase ID"
// @Param purchase body StockRequest true "Fields to change"
// @Success 200 {object} finance.StockPurchase
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/stocks/{id} [put]
func (s *Server) updateStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req StockRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var updated finance.StockPurchase
	err := s.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetStockPurchase(ctx, id)
		if err != nil {
			return err
		}
		in, details := req.toNewStockPurchase(&existing)
		if !details.empty() {
			return &validationFailure{details: details}
		}
		updated, err = tx.UpdateStockPurchase(ctx, id, in)
		return err
	})
	var vf *validationFailure
	if errors.As(err, &vf) {
		respondValidation(c, vf.details)
		return
	}
	if err != nil {
		s.respondError(c, err, "Error updating stock purchase")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete stock purchase
// @Tags stocks
// @Produce json
// @Param id path string true "Stock purchase ID"
// @Success 200 {object} MessageResponse
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/stocks/{id} [delete]
func (s *Server) deleteStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := s.store.DeleteStockPurchase(c.Request.Context(), id); err != nil {
		s.respondError(c, err, "Error deleting stock purchase")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Stock purchase deleted successfully"})
}

// @Summary Portfolio summary
// @Description Cost basis, market value and profit/loss, all-time or within a period
// @Tags stocks
// @Produce json
// @Param year query string false "4-digit year"
// @Param month query string false "month 1-12, requires year"
// @Success 200 {object} finance.PortfolioSummary
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /api/stocks/summary [get]
func (s *Server) getStockSummary(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	summary, err := s.summarizer.Portfolio(c.Request.Context(), period)
	if err != nil {
		s.respondError(c, err, "Error summarizing portfolio")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Sync stock prices
// @Description Fetch the latest price of every held ticker and rewrite current values. Returns 207 when some tickers failed
// @Tags stocks
// @Produce json
// @Success 200 {object} SyncResponse
// @Success 207 {object} SyncResponse "Some tickers failed"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/stocks/sync [post]
func (s *Server) syncStocks(c *gin.Context) {
	result, err := s.syncer.Sync(c.Request.Context())
	if err != nil {
		s.respondError(c, err, "Error syncing stock prices")
		return
	}

	switch {
	case len(result.UpdatedTickers) == 0 && len(result.Failed) == 0:
		c.JSON(http.StatusOK, SyncResponse{Message: "No stocks to sync", SyncResult: result})
	case result.Partial():
		c.JSON(http.StatusMultiStatus, SyncResponse{Message: "Some prices could not be synced", SyncResult: result})
	default:
		c.JSON(http.StatusOK, SyncResponse{Message: "Prices synced successfully", SyncResult: result})
	}
}

// @Summary Stock quote
// @Description Look up the current quote of a ticker
// @Tags stocks
// @Produce json
// @Param ticker path string true "Ticker symbol"
// @Success 200 {object} marketdata.Quote
// @Failure 404 {object} ErrorResponse "Unknown ticker"
// @Failure 502 {object} ErrorResponse "Market data unavailable"
// @Router /api/stocks/info/{ticker} [get]
func (s *Server) getStockInfo(c *gin.Context) {
	ticker := finance.NormalizeTicker(c.Param("ticker"))
	if ticker == "" {
		respondValidation(c, validationErrors{"ticker": {"is required"}})
		return
	}

	quote, err := s.quotes.Quote(c.Request.Context(), ticker)
	switch {
	case errors.Is(err, marketdata.ErrNoQuote):
		setNoCacheHeaders(c)
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "No quote found for " + ticker})
		return
	case errors.Is(err, context.Canceled):
		return
	case err != nil:
		requestLog(c).Error().Err(err).Str("ticker", ticker).Msg("Error fetching stock quote")
		setNoCacheHeaders(c)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Failed to fetch stock information"})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// toNewStockPurchase validates and sanitizes the request, overlaying it on
// existing when updating.
func (r StockRequest) toNewStockPurchase(existing *finance.StockPurchase) (finance.NewStockPurchase, validationErrors) {
	details := validationErrors{}
	partial := existing != nil

	in := finance.NewStockPurchase{Currency: defaultCurrency}
	if partial {
		in = finance.NewStockPurchase{
			Ticker:       existing.Ticker,
			Name:         existing.Name,
			Quantity:     existing.Quantity,
			PricePerUnit: existing.PricePerUnit,
			Date:         existing.Date,
			Broker:       existing.Broker,
			Fee:          existing.Fee,
			Notes:        existing.Notes,
			CurrentValue: existing.CurrentValue,
			Currency:     existing.Currency,
			ExchangeRate: existing.ExchangeRate,
		}
	}

	if r.Ticker != nil {
		in.Ticker = finance.NormalizeTicker(sanitizeText(*r.Ticker))
		if in.Ticker == "" {
			details.add("ticker", "is required")
		}
	} else if !partial {
		details.add("ticker", "is required")
	}

	if r.Quantity != nil {
		details.addErr("quantity", validatePositive(*r.Quantity, quantityPlaces))
		in.Quantity = *r.Quantity
	} else if !partial {
		details.add("quantity", "is required")
	}

	if r.PricePerUnit != nil {
		details.addErr("price_per_unit", validatePositive(*r.PricePerUnit, quantityPlaces))
		in.PricePerUnit = *r.PricePerUnit
	} else if !partial {
		details.add("price_per_unit", "is required")
	}

	if r.Date != nil {
		date, err := finance.ParseDate(*r.Date)
		details.addErr("date", err)
		in.Date = date
	} else if !partial {
		details.add("date", "is required")
	}

	if r.Fee != nil {
		if r.Fee.IsNegative() {
			details.add("fee", "must not be negative")
		} else {
			details.addErr("fee", validatePlaces(*r.Fee, feePlaces))
		}
		fee := *r.Fee
		in.Fee = &fee
	}
	if r.CurrentValue != nil {
		if r.CurrentValue.IsNegative() {
			details.add("current_value", "must not be negative")
		} else {
			details.addErr("current_value", validatePlaces(*r.CurrentValue, quantityPlaces))
		}
		value := *r.CurrentValue
		in.CurrentValue = &value
	}
	if r.ExchangeRate != nil {
		details.addErr("exchange_rate", validatePositive(*r.ExchangeRate, ratePlaces))
		rate := *r.ExchangeRate
		in.ExchangeRate = &rate
	}

	if r.Name != nil {
		in.Name = sanitizeOptional(r.Name)
	}
	if r.Broker != nil {
		in.Broker = sanitizeOptional(r.Broker)
	}
	if r.Notes != nil {
		in.Notes = sanitizeOptional(r.Notes)
	}
	if r.Currency != nil {
		in.Currency = strings.ToUpper(strings.TrimSpace(*r.Currency))
	}
	return in, details
}
