package main

import (
	"net/http"

	"fintrack/internal/finance"

	"github.com/gin-gonic/gin"
)

// Category handler functions

// @Summary Get categories
// @Description List categories sorted by name, optionally only one type
// @Tags categories
// @Produce json
// @Param type query string false "income or expense"
// @Success 200 {array} finance.Category "List of categories"
// @Failure 400 {object} ErrorResponse "Invalid type"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/categories [get]
func (s *Server) getCategories(c *gin.Context) {
	kind, ok := kindQuery(c)
	if !ok {
		return
	}

	categories, err := s.store.ListCategories(c.Request.Context(), kind)
	if err != nil {
		s.respondError(c, err, "Error fetching categories")
		return
	}
	if categories == nil {
		categories = []finance.Category{}
	}
	c.JSON(http.StatusOK, categories)
}

// @Summary Create category
// @Description Create a category. Color defaults to #6366f1, icon to a match on the name
// @Tags categories
// @Accept json
// @Produce json
// @Param category body CategoryRequest true "Category data (name and type required)"
// @Success 201 {object} finance.Category "Created category"
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "Category already exists"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /api/categories [post]
func (s *Server) createCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	in, details := req.toNewCategory(nil)
	if !details.empty() {
		respondValidation(c, details)
		return
	}

	category, err := s.store.CreateCategory(c.Request.Context(), in)
	if err != nil {
		s.respondError(c, err, "Error creating category")
		return
	}
	c.JSON(http.StatusCreated, category)
}

// toNewCategory validates and sanitizes the request. impliedKind is the
// kind of the transaction an inline category is created for; it is used
// when the request leaves the type out and must match it otherwise.
func (r CategoryRequest) toNewCategory(impliedKind *finance.Kind) (finance.NewCategory, validationErrors) {
	details := validationErrors{}

	name := sanitizeText(r.Name)
	details.addErr("name", validateName(name))

	var kind finance.Kind
	switch {
	case r.Type == "" && impliedKind != nil:
		kind = *impliedKind
	case r.Type == "":
		details.add("type", "is required")
	default:
		parsed, err := finance.ParseKind(r.Type)
		if err != nil {
			details.add("type", "must be one of: income, expense")
		} else if impliedKind != nil && parsed != *impliedKind {
			details.add("type", "must be "+string(*impliedKind))
		}
		kind = parsed
	}

	details.addErr("color", validateHexColor(r.Color))
	color := r.Color
	if color == "" {
		color = finance.DefaultColor
	}

	return finance.NewCategory{
		Name:  name,
		Type:  kind,
		Color: color,
		Icon:  finance.ResolveIcon(sanitizeText(r.Icon), name),
	}, details
}
