package main

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"fintrack/internal/finance"

	"github.com/gin-gonic/gin"
)

// @Summary Export CSV
// @Description Incomes and expenses of a year or month as CSV, oldest first
// @Tags export
// @Produce text/csv
// @Param year query string true "4-digit year"
// @Param month query string false "month 1-12"
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/export/csv [get]
func (s *Server) exportCSV(c *gin.Context) {
	year, month, details := yearMonthQuery(c, true)
	if !details.empty() {
		respondValidation(c, details)
		return
	}

	period := finance.YearPeriod(year)
	if month != 0 {
		period = finance.MonthPeriod(year, time.Month(month))
	}
	txs, err := s.summarizer.Transactions(c.Request.Context(), period)
	if err != nil {
		s.respondError(c, err, "Error loading transactions for export")
		return
	}

	var buf bytes.Buffer
	if err := finance.WriteCSV(&buf, txs); err != nil {
		s.respondError(c, err, "Error writing CSV export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, finance.ExportFilename(year, month)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
