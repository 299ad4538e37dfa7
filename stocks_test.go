package main

import (
	"net/http"
	"testing"

	"fintrack/internal/finance"
	"fintrack/internal/marketdata"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestStock(t *testing.T, payload map[string]any) finance.StockPurchase {
	t.Helper()
	resp := makeJSONRequest(t, "POST", "/api/stocks", payload)
	assertStatusCode(t, http.StatusCreated, resp.Code)
	var purchase finance.StockPurchase
	assertNoError(t, parseJSONResponse(resp, &purchase))
	return purchase
}

// TestStockPurchases tests the stock purchase CRUD endpoints
func TestStockPurchases(t *testing.T) {
	cleanupTestData()

	var voo finance.StockPurchase

	t.Run("should create a purchase with normalized ticker and default currency", func(t *testing.T) {
		voo = createTestStock(t, map[string]any{
			"ticker":         " voo ",
			"quantity":       3,
			"price_per_unit": 400,
			"fee":            "2.50",
			"date":           "2025-03-05",
			"broker":         "<i>Degiro</i>",
		})

		assert.Equal(t, "VOO", voo.Ticker)
		assert.Equal(t, "USD", voo.Currency)
		assertDecimal(t, "3", voo.Quantity)
		assertDecimal(t, "400", voo.PricePerUnit)
		require.NotNil(t, voo.Fee)
		assertDecimal(t, "2.5", *voo.Fee)
		require.NotNil(t, voo.Broker)
		assert.Equal(t, "Degiro", *voo.Broker)
		assert.Nil(t, voo.CurrentValue)
	})

	t.Run("should report missing required fields", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/stocks", map[string]any{})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		details := parseErrorResponse(t, resp).Details
		for _, field := range []string{"ticker", "quantity", "price_per_unit", "date"} {
			assert.Contains(t, details, field)
		}
	})

	t.Run("should reject a negative fee and a zero quantity", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/stocks", map[string]any{
			"ticker":         "AAPL",
			"quantity":       0,
			"price_per_unit": 180,
			"fee":            -1,
			"date":           "2025-03-05",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		details := parseErrorResponse(t, resp).Details
		assert.Equal(t, []string{"must not be negative"}, details["fee"])
		assert.Equal(t, []string{"must be greater than 0"}, details["quantity"])
	})

	t.Run("should reject values finer than the stored scale", func(t *testing.T) {
		resp := makeJSONRequest(t, "POST", "/api/stocks", map[string]any{
			"ticker":         "AAPL",
			"quantity":       "0.0000001",
			"price_per_unit": 180,
			"fee":            "1.005",
			"exchange_rate":  "1.123456789",
			"date":           "2025-03-05",
		})

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		details := parseErrorResponse(t, resp).Details
		assert.Equal(t, []string{"must have at most 2 decimal places"}, details["fee"])
		assert.Equal(t, []string{"must have at most 6 decimal places"}, details["quantity"])
		assert.Equal(t, []string{"must have at most 8 decimal places"}, details["exchange_rate"])
	})

	t.Run("should accept values at the stored scale", func(t *testing.T) {
		resp := makeJSONRequest(t, "PUT", "/api/stocks/"+voo.ID.String(), map[string]any{
			"quantity": "3.000000",
			"fee":      "2.50",
		})

		assertStatusCode(t, http.StatusOK, resp.Code)
	})

	t.Run("should list purchases and filter by month", func(t *testing.T) {
		createTestStock(t, map[string]any{
			"ticker":         "AAPL",
			"quantity":       "1.5",
			"price_per_unit": 180,
			"date":           "2025-04-02",
			"currency":       "usd",
		})

		resp := makeRequest("GET", "/api/stocks", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)
		var all []finance.StockPurchase
		assertNoError(t, parseJSONResponse(resp, &all))
		require.Len(t, all, 2)
		assert.Equal(t, "AAPL", all[0].Ticker)

		resp = makeRequest("GET", "/api/stocks?year=2025&month=3", nil)
		var march []finance.StockPurchase
		assertNoError(t, parseJSONResponse(resp, &march))
		require.Len(t, march, 1)
		assert.Equal(t, "VOO", march[0].Ticker)
	})

	t.Run("should update only provided fields", func(t *testing.T) {
		resp := makeJSONRequest(t, "PUT", "/api/stocks/"+voo.ID.String(), map[string]any{
			"current_value": 1230,
			"broker":        "",
		})

		assertStatusCode(t, http.StatusOK, resp.Code)
		var updated finance.StockPurchase
		assertNoError(t, parseJSONResponse(resp, &updated))
		assert.Equal(t, "VOO", updated.Ticker)
		assertDecimal(t, "3", updated.Quantity)
		require.NotNil(t, updated.CurrentValue)
		assertDecimal(t, "1230", *updated.CurrentValue)
		assert.Nil(t, updated.Broker)
		require.NotNil(t, updated.Fee)
	})

	t.Run("should fetch and delete a purchase", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/"+voo.ID.String(), nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("DELETE", "/api/stocks/"+voo.ID.String(), nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		resp = makeRequest("GET", "/api/stocks/"+voo.ID.String(), nil)
		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})

	t.Run("should return 404 when updating an unknown purchase", func(t *testing.T) {
		resp := makeJSONRequest(t, "PUT", "/api/stocks/"+uuid.NewString(), map[string]any{"quantity": 1})

		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})
}

// TestStockSummary tests GET /api/stocks/summary
func TestStockSummary(t *testing.T) {
	cleanupTestData()

	createTestStock(t, map[string]any{
		"ticker": "VOO", "quantity": 3, "price_per_unit": 400, "fee": "2.5", "date": "2025-03-05",
	})
	createTestStock(t, map[string]any{
		"ticker": "AAPL", "quantity": 2, "price_per_unit": 100, "date": "2025-04-02", "current_value": 250,
	})

	t.Run("should summarize all purchases", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/summary", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var summary finance.PortfolioSummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		assert.Equal(t, 2, summary.Count)
		assertDecimal(t, "1402.5", summary.TotalInvested)
		assertDecimal(t, "1402.5", summary.TotalCostWithFees)
		assertDecimal(t, "1450", summary.TotalCurrentValue)
		assertDecimal(t, "47.5", summary.ProfitLoss)
	})

	t.Run("should summarize one month", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/summary?year=2025&month=3", nil)

		var summary finance.PortfolioSummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		assert.Equal(t, 1, summary.Count)
		assertDecimal(t, "1200", summary.TotalCurrentValue)
		assertDecimal(t, "-2.5", summary.ProfitLoss)
	})
}

// TestSyncStocks tests POST /api/stocks/sync
func TestSyncStocks(t *testing.T) {
	cleanupTestData()

	t.Run("should report nothing to sync without purchases", func(t *testing.T) {
		resp := makeRequest("POST", "/api/stocks/sync", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		var body SyncResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		assert.Equal(t, "No stocks to sync", body.Message)
	})

	voo := createTestStock(t, map[string]any{
		"ticker": "VOO", "quantity": 3, "price_per_unit": 400, "date": "2025-03-05",
	})
	createTestStock(t, map[string]any{
		"ticker": "XYZ", "quantity": 1, "price_per_unit": 10, "date": "2025-03-05",
	})
	testQuotes.quotes["VOO"] = marketdata.Quote{Ticker: "VOO", Name: "Vanguard S&P 500 ETF", Price: decimal.NewFromInt(410)}

	t.Run("should return 207 when a ticker fails", func(t *testing.T) {
		testQuotes.errs["XYZ"] = errUpstream

		resp := makeRequest("POST", "/api/stocks/sync", nil)

		assertStatusCode(t, http.StatusMultiStatus, resp.Code)
		var body SyncResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		assert.Equal(t, []string{"VOO"}, body.UpdatedTickers)
		assert.Contains(t, body.Failed, "XYZ")

		purchase, err := testStore.GetStockPurchase(t.Context(), voo.ID)
		assertNoError(t, err)
		require.NotNil(t, purchase.CurrentValue)
		assertDecimal(t, "1230", *purchase.CurrentValue)
		require.NotNil(t, purchase.Name)
		assert.Equal(t, "Vanguard S&P 500 ETF", *purchase.Name)
	})

	t.Run("should return 200 when every ticker syncs", func(t *testing.T) {
		delete(testQuotes.errs, "XYZ")
		testQuotes.quotes["XYZ"] = marketdata.Quote{Ticker: "XYZ", Price: decimal.NewFromInt(12)}

		resp := makeRequest("POST", "/api/stocks/sync", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		var body SyncResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		assert.Equal(t, "Prices synced successfully", body.Message)
		assert.Equal(t, []string{"VOO", "XYZ"}, body.UpdatedTickers)
		assertDecimal(t, "12", body.Prices["XYZ"])
	})
}

// TestStockInfo tests GET /api/stocks/info/{ticker}
func TestStockInfo(t *testing.T) {
	cleanupTestData()
	testQuotes.quotes["MSFT"] = marketdata.Quote{Ticker: "MSFT", Name: "Microsoft Corporation", Price: decimal.RequireFromString("415.1"), Currency: "USD"}
	testQuotes.errs["DOWN"] = errUpstream

	t.Run("should return the quote for a lower-case ticker", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/info/msft", nil)

		assertStatusCode(t, http.StatusOK, resp.Code)
		var quote marketdata.Quote
		assertNoError(t, parseJSONResponse(resp, &quote))
		assert.Equal(t, "Microsoft Corporation", quote.Name)
		assertDecimal(t, "415.1", quote.Price)
	})

	t.Run("should return 404 for an unknown ticker", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/info/NOPE", nil)

		assertStatusCode(t, http.StatusNotFound, resp.Code)
	})

	t.Run("should return 502 when the market data source fails", func(t *testing.T) {
		resp := makeRequest("GET", "/api/stocks/info/DOWN", nil)

		assertStatusCode(t, http.StatusBadGateway, resp.Code)
		assert.Equal(t, "Failed to fetch stock information", parseErrorResponse(t, resp).Error)
	})
}
