package main

import (
	"net/http"
	"testing"

	"fintrack/internal/finance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSummaryScenario(t *testing.T) {
	t.Helper()
	salary := createTestCategory(t, "Salary", finance.KindIncome)
	food := createTestCategory(t, "Food", finance.KindExpense)
	rent := createTestCategory(t, "Rent", finance.KindExpense)

	createTestTransaction(t, finance.KindIncome, salary.ID, "1000", "2025-03-05", "")
	createTestTransaction(t, finance.KindExpense, rent.ID, "300", "2025-03-10", "")
	createTestTransaction(t, finance.KindExpense, food.ID, "50", "2025-04-01", "")
}

// TestMonthSummary tests GET /api/summary/month
func TestMonthSummary(t *testing.T) {
	cleanupTestData()
	seedSummaryScenario(t)

	t.Run("should total a month with both kinds", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/month?year=2025&month=3", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var summary finance.MonthlySummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		assert.Equal(t, 2025, summary.Year)
		assert.Equal(t, 3, summary.Month)
		assertDecimal(t, "1000", summary.TotalIncome)
		assertDecimal(t, "300", summary.TotalExpense)
		assertDecimal(t, "700", summary.Balance)
		assert.Equal(t, "public, s-maxage=600, max-age=300, stale-while-revalidate=86400", resp.Header().Get("Cache-Control"))
	})

	t.Run("should go negative without income", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/month?year=2025&month=04", nil)

		var summary finance.MonthlySummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		assertDecimal(t, "0", summary.TotalIncome)
		assertDecimal(t, "50", summary.TotalExpense)
		assertDecimal(t, "-50", summary.Balance)
	})

	t.Run("should return zeros for an empty month", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/month?year=2024&month=1", nil)

		var summary finance.MonthlySummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		assertDecimal(t, "0", summary.Balance)
	})

	t.Run("should require year and month", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/month?year=2025", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, parseErrorResponse(t, resp).Details, "month")

		resp = makeRequest("GET", "/api/summary/month?month=3", nil)
		assertStatusCode(t, http.StatusBadRequest, resp.Code)
		assert.Contains(t, parseErrorResponse(t, resp).Details, "year")
	})

	t.Run("should reject out of range values", func(t *testing.T) {
		for _, query := range []string{"year=25&month=3", "year=2025&month=0", "year=2025&month=13", "year=abcd&month=1"} {
			resp := makeRequest("GET", "/api/summary/month?"+query, nil)
			assertStatusCode(t, http.StatusBadRequest, resp.Code)
		}
	})
}

// TestYearSummary tests GET /api/summary/year
func TestYearSummary(t *testing.T) {
	cleanupTestData()
	seedSummaryScenario(t)

	t.Run("should list twelve months and additive totals", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/year?year=2025", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var summary finance.YearlySummary
		assertNoError(t, parseJSONResponse(resp, &summary))
		require.Len(t, summary.Months, 12)
		for i, month := range summary.Months {
			assert.Equal(t, i+1, month.Month)
		}
		assertDecimal(t, "1000", summary.Months[2].TotalIncome)
		assertDecimal(t, "-50", summary.Months[3].Balance)
		assertDecimal(t, "0", summary.Months[11].Balance)
		assertDecimal(t, "1000", summary.TotalIncome)
		assertDecimal(t, "350", summary.TotalExpense)
		assertDecimal(t, "650", summary.Balance)
	})

	t.Run("should require a year", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/year", nil)

		assertStatusCode(t, http.StatusBadRequest, resp.Code)
	})
}

// TestCategorySummary tests GET /api/summary/categories
func TestCategorySummary(t *testing.T) {
	cleanupTestData()
	seedSummaryScenario(t)

	t.Run("should break expenses down by category for the year", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/categories?year=2025", nil)
		assertStatusCode(t, http.StatusOK, resp.Code)

		var body CategorySummaryResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		assert.Equal(t, finance.KindExpense, body.Type)
		assertDecimal(t, "350", body.Total)
		require.Len(t, body.Categories, 2)
		assert.Equal(t, "Rent", body.Categories[0].Name)
		assertDecimal(t, "300", body.Categories[0].Amount)
		assert.Equal(t, "Food", body.Categories[1].Name)
	})

	t.Run("should break incomes down for one month", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/categories?year=2025&month=3&type=income", nil)

		var body CategorySummaryResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		require.Len(t, body.Categories, 1)
		assertDecimal(t, "100", body.Categories[0].Percentage)
	})

	t.Run("should return an empty list for an empty period", func(t *testing.T) {
		resp := makeRequest("GET", "/api/summary/categories?year=2020", nil)

		var body CategorySummaryResponse
		assertNoError(t, parseJSONResponse(resp, &body))
		assert.Empty(t, body.Categories)
		assertDecimal(t, "0", body.Total)
	})
}
