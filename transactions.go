package main

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"fintrack/internal/finance"
	"fintrack/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Transaction handler functions. Expenses and incomes share the handlers;
// each route group is bound to one kind.

type transactionHandler struct {
	*Server
	kind finance.Kind
}

func transactionPath(kind finance.Kind) string {
	if kind == finance.KindIncome {
		return "/incomes"
	}
	return "/expenses"
}

// validationFailure carries field errors found inside a unit of work.
type validationFailure struct {
	details validationErrors
}

func (v *validationFailure) Error() string { return "validation failed" }

func (h *transactionHandler) respondWriteError(c *gin.Context, err error, action string) {
	var vf *validationFailure
	switch {
	case errors.As(err, &vf):
		respondValidation(c, vf.details)
	case errors.Is(err, finance.ErrInvalidReference):
		respondValidation(c, validationErrors{
			"category_id": {"category not found or not an " + string(h.kind) + " category"},
		})
	default:
		h.respondError(c, err, action)
	}
}

// @Summary List transactions
// @Description List expenses or incomes, newest first, with the category embedded
// @Tags transactions
// @Produce json
// @Param year query string false "4-digit year"
// @Param month query string false "month 1-12, requires year"
// @Param search query string false "case-insensitive substring of the notes"
// @Success 200 {array} finance.Transaction
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/expenses [get]
// @Router /api/incomes [get]
func (h *transactionHandler) list(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}
	filter := finance.TransactionFilter{
		Period: period,
		Search: strings.TrimSpace(c.Query("search")),
	}

	txs, err := h.store.ListTransactions(c.Request.Context(), h.kind, filter)
	if err != nil {
		h.respondError(c, err, "Error fetching transactions")
		return
	}
	if txs == nil {
		txs = []finance.Transaction{}
	}
	c.JSON(http.StatusOK, txs)
}

// @Summary Get transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} finance.Transaction
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/expenses/{id} [get]
// @Router /api/incomes/{id} [get]
func (h *transactionHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	tx, err := h.store.GetTransaction(c.Request.Context(), h.kind, id)
	if err != nil {
		h.respondError(c, err, "Error fetching transaction")
		return
	}
	c.JSON(http.StatusOK, tx)
}

// @Summary Create transaction
// @Description Create an expense or income. A new_category object creates the category in the same unit of work
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body TransactionRequest true "amount, date and category_id or new_category required"
// @Success 201 {object} finance.Transaction
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Category already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/expenses [post]
// @Router /api/incomes [post]
func (h *transactionHandler) create(c *gin.Context) {
	var req TransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	in, newCategory, details := h.buildInput(req, nil)
	if !details.empty() {
		respondValidation(c, details)
		return
	}

	ctx := c.Request.Context()
	var created finance.Transaction
	err := h.store.WithTx(ctx, func(tx store.Store) error {
		var err error
		if in, err = h.attachCategory(ctx, tx, in, newCategory); err != nil {
			return err
		}
		created, err = tx.CreateTransaction(ctx, h.kind, in)
		return err
	})
	if err != nil {
		h.respondWriteError(c, err, "Error creating transaction")
		return
	}
	c.JSON(http.StatusCreated, created)
}

// @Summary Update transaction
// @Description Partial update: omitted fields keep their stored value
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param transaction body TransactionRequest true "Fields to change"
// @Success 200 {object} finance.Transaction
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/expenses/{id} [put]
// @Router /api/incomes/{id} [put]
func (h *transactionHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req TransactionRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	var updated finance.Transaction
	err := h.store.WithTx(ctx, func(tx store.Store) error {
		existing, err := tx.GetTransaction(ctx, h.kind, id)
		if err != nil {
			return err
		}
		in, newCategory, details := h.buildInput(req, &existing)
		if !details.empty() {
			return &validationFailure{details: details}
		}
		if in, err = h.attachCategory(ctx, tx, in, newCategory); err != nil {
			return err
		}
		updated, err = tx.UpdateTransaction(ctx, h.kind, id, in)
		return err
	})
	if err != nil {
		h.respondWriteError(c, err, "Error updating transaction")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// @Summary Delete transaction
// @Description Delete an expense or income. When other rows were generated from it, the most recent one takes over as their template
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/expenses/{id} [delete]
// @Router /api/incomes/{id} [delete]
func (h *transactionHandler) delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.store.DeleteTransaction(c.Request.Context(), h.kind, id); err != nil {
		h.respondError(c, err, "Error deleting transaction")
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: h.kind.Label() + " deleted successfully"})
}

// buildInput validates the request and overlays it on existing, if any.
// Without existing every required field must be present.
func (h *transactionHandler) buildInput(req TransactionRequest, existing *finance.Transaction) (finance.NewTransaction, *finance.NewCategory, validationErrors) {
	details := validationErrors{}
	partial := existing != nil

	var in finance.NewTransaction
	if partial {
		in = finance.NewTransaction{
			Amount:      existing.Amount,
			CategoryID:  existing.CategoryID,
			Date:        existing.Date,
			Notes:       existing.Notes,
			IsRecurring: existing.IsRecurring,
			TemplateID:  existing.TemplateID,
		}
	}

	if req.Amount != nil {
		details.addErr("amount", validatePositive(*req.Amount, 2))
		in.Amount = *req.Amount
	} else if !partial {
		details.add("amount", "is required")
	}

	var newCategory *finance.NewCategory
	switch {
	case req.NewCategory != nil && req.CategoryID != nil:
		details.add("category_id", "provide either category_id or new_category, not both")
	case req.NewCategory != nil:
		nc, ncDetails := req.NewCategory.toNewCategory(&h.kind)
		details.merge("new_category", ncDetails)
		newCategory = &nc
	case req.CategoryID != nil:
		categoryID, err := uuid.Parse(*req.CategoryID)
		if err != nil {
			details.add("category_id", "must be a valid UUID")
		}
		in.CategoryID = categoryID
	case !partial:
		details.add("category_id", "is required")
	}

	if req.Date != nil {
		date, err := finance.ParseDate(*req.Date)
		details.addErr("date", err)
		in.Date = date
	} else if !partial {
		details.add("date", "is required")
	}

	if req.Notes != nil {
		in.Notes = sanitizeOptional(req.Notes)
	}
	if req.IsRecurring != nil {
		in.IsRecurring = *req.IsRecurring
	}
	return in, newCategory, details
}

// attachCategory creates the inline category, if any, and points in at it.
func (h *transactionHandler) attachCategory(ctx context.Context, tx store.Store, in finance.NewTransaction, newCategory *finance.NewCategory) (finance.NewTransaction, error) {
	if newCategory == nil {
		return in, nil
	}
	category, err := tx.CreateCategory(ctx, *newCategory)
	if err != nil {
		return in, err
	}
	in.CategoryID = category.ID
	return in, nil
}
