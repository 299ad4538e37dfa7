package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Process recurring transactions
// @Description Create the due instance of every recurring template. Meant to be called by a scheduler; failures of single templates are reported, not fatal
// @Tags recurring
// @Produce json
// @Success 200 {object} RecurringResponse
// @Router /api/recurring/process [post]
func (s *Server) processRecurring(c *gin.Context) {
	result := s.processor.ProcessAll(c.Request.Context())
	if result.TotalErrors > 0 {
		requestLog(c).Warn().
			Int("created", result.TotalCreated).
			Int("errors", result.TotalErrors).
			Msg("Recurring run finished with errors")
	}
	c.JSON(http.StatusOK, RecurringResponse{
		Message:     "Recurring transactions processed successfully",
		BatchResult: result,
	})
}
