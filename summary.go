package main

import (
	"net/http"
	"time"

	"fintrack/internal/finance"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Summary handler functions

// @Summary Monthly summary
// @Description Total income, total expense and balance of one month
// @Tags summary
// @Produce json
// @Param year query string true "4-digit year"
// @Param month query string true "month 1-12"
// @Success 200 {object} finance.MonthlySummary
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/summary/month [get]
func (s *Server) getMonthSummary(c *gin.Context) {
	year, month, details := yearMonthQuery(c, true)
	if month == 0 && c.Query("month") == "" {
		details.add("month", "is required")
	}
	if !details.empty() {
		respondValidation(c, details)
		return
	}

	summary, err := s.summarizer.Month(c.Request.Context(), year, time.Month(month))
	if err != nil {
		s.respondError(c, err, "Error computing monthly summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Yearly summary
// @Description All twelve months of a year plus the year totals
// @Tags summary
// @Produce json
// @Param year query string true "4-digit year"
// @Success 200 {object} finance.YearlySummary
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/summary/year [get]
func (s *Server) getYearSummary(c *gin.Context) {
	year, _, details := yearMonthQuery(c, true)
	if !details.empty() {
		respondValidation(c, details)
		return
	}

	summary, err := s.summarizer.Year(c.Request.Context(), year)
	if err != nil {
		s.respondError(c, err, "Error computing yearly summary")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// @Summary Category breakdown
// @Description Per-category totals with percentage share for a year or month, largest first
// @Tags summary
// @Produce json
// @Param year query string true "4-digit year"
// @Param month query string false "month 1-12"
// @Param type query string false "income or expense, defaults to expense"
// @Success 200 {object} CategorySummaryResponse
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /api/summary/categories [get]
func (s *Server) getCategorySummary(c *gin.Context) {
	year, month, details := yearMonthQuery(c, true)
	if !details.empty() {
		respondValidation(c, details)
		return
	}
	kind, ok := kindQuery(c)
	if !ok {
		return
	}
	if kind == nil {
		expense := finance.KindExpense
		kind = &expense
	}

	period := finance.YearPeriod(year)
	if month != 0 {
		period = finance.MonthPeriod(year, time.Month(month))
	}
	breakdown, err := s.summarizer.Categories(c.Request.Context(), *kind, period)
	if err != nil {
		s.respondError(c, err, "Error computing category breakdown")
		return
	}

	total := decimal.Zero
	for _, row := range breakdown {
		total = total.Add(row.Amount)
	}
	if breakdown == nil {
		breakdown = []finance.CategoryTotal{}
	}
	c.JSON(http.StatusOK, CategorySummaryResponse{
		Year:       year,
		Month:      month,
		Type:       *kind,
		Total:      total,
		Categories: breakdown,
	})
}
