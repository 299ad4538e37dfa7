package main

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"fintrack/internal/finance"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)
	yearRegex     = regexp.MustCompile(`^\d{4}$`)
	monthRegex    = regexp.MustCompile(`^\d{1,2}$`)
)

// Validation functions

// validateName validates that a name is not empty or just whitespace
func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

// validateHexColor validates that a color is in hex format (#RRGGBB)
func validateHexColor(color string) error {
	if color == "" {
		return nil // Empty color is allowed
	}
	if !hexColorRegex.MatchString(color) {
		return fmt.Errorf("color must be in hex format (#RRGGBB)")
	}
	return nil
}

// validatePositive checks a money or quantity field. Amounts are stored with
// two decimal places, so finer values are rejected instead of rounded.
func validatePositive(d decimal.Decimal, maxPlaces int32) error {
	if !d.IsPositive() {
		return fmt.Errorf("must be greater than 0")
	}
	return validatePlaces(d, maxPlaces)
}

// validatePlaces rejects values finer than the column scale. A negative
// maxPlaces allows any scale.
func validatePlaces(d decimal.Decimal, maxPlaces int32) error {
	if maxPlaces >= 0 && !d.Equal(d.Truncate(maxPlaces)) {
		return fmt.Errorf("must have at most %d decimal places", maxPlaces)
	}
	return nil
}

// validationErrors collects messages per JSON field.
type validationErrors map[string][]string

func (v validationErrors) add(field, message string) {
	v[field] = append(v[field], message)
}

func (v validationErrors) addErr(field string, err error) {
	if err != nil {
		v.add(field, err.Error())
	}
}

func (v validationErrors) empty() bool {
	return len(v) == 0
}

// merge copies other's messages under prefix.field.
func (v validationErrors) merge(prefix string, other validationErrors) {
	for field, messages := range other {
		for _, m := range messages {
			v.add(prefix+"."+field, m)
		}
	}
}

func respondValidation(c *gin.Context, details validationErrors) {
	setNoCacheHeaders(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Validation error", Details: details})
}

var registerValidatorsOnce sync.Once

// registerValidators teaches gin's validator our JSON field names and the
// #RRGGBB color rule.
func registerValidators() {
	registerValidatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("hexcolor6", func(fl validator.FieldLevel) bool {
			return validateHexColor(fl.Field().String()) == nil
		})
	})
}

// bindJSON decodes the body into req. It writes the 400 response itself and
// reports false when the body is unusable.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		respondValidation(c, translateValidation(verrs))
		return false
	}
	setNoCacheHeaders(c)
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	return false
}

func translateValidation(verrs validator.ValidationErrors) validationErrors {
	details := validationErrors{}
	for _, fe := range verrs {
		field := fe.Namespace()
		if i := strings.Index(field, "."); i >= 0 {
			field = field[i+1:]
		}
		details.add(field, validationMessage(fe))
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "uuid":
		return "must be a valid UUID"
	case "hexcolor6":
		return "color must be in hex format (#RRGGBB)"
	}
	return "is invalid"
}

// handleStoreError converts store errors to appropriate HTTP responses
func handleStoreError(err error) (statusCode int, message string) {
	switch {
	case errors.Is(err, finance.ErrNotFound):
		return http.StatusNotFound, "Resource not found"
	case errors.Is(err, finance.ErrConflict):
		if strings.Contains(err.Error(), "categories_name_type_key") {
			return http.StatusConflict, "Category with this name already exists"
		}
		if strings.Contains(err.Error(), "transactions_template_date_key") {
			return http.StatusConflict, "A recurring instance already exists for this date"
		}
		return http.StatusConflict, "Record already exists"
	case errors.Is(err, finance.ErrInvalidReference):
		return http.StatusBadRequest, "Invalid reference"
	}
	return http.StatusInternalServerError, "Internal server error"
}

// Parameter parsing

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondValidation(c, validationErrors{"id": {"must be a valid UUID"}})
		return uuid.Nil, false
	}
	return id, true
}

// yearMonthQuery reads ?year=&month=. A zero month means none was given.
// yearRequired controls whether a missing year is an error.
func yearMonthQuery(c *gin.Context, yearRequired bool) (year, month int, details validationErrors) {
	details = validationErrors{}
	rawYear, rawMonth := c.Query("year"), c.Query("month")

	switch {
	case rawYear == "":
		if yearRequired || rawMonth != "" {
			details.add("year", "is required")
		}
	case !yearRegex.MatchString(rawYear):
		details.add("year", "must be a 4-digit number")
	default:
		year, _ = strconv.Atoi(rawYear)
	}

	if rawMonth != "" {
		if !monthRegex.MatchString(rawMonth) {
			details.add("month", "must be a number between 1 and 12")
		} else {
			month, _ = strconv.Atoi(rawMonth)
			if month < 1 || month > 12 {
				details.add("month", "must be a number between 1 and 12")
			}
		}
	}

	if details.empty() && year != 0 {
		details.addErr("year", finance.ValidateYearMonth(year, month))
	}
	return year, month, details
}

// periodQuery turns ?year=&month= into an optional period: a month when
// both are given, a whole year with only the year, nil with neither.
func periodQuery(c *gin.Context) (*finance.Period, bool) {
	year, month, details := yearMonthQuery(c, false)
	if !details.empty() {
		respondValidation(c, details)
		return nil, false
	}
	switch {
	case year == 0:
		return nil, true
	case month == 0:
		p := finance.YearPeriod(year)
		return &p, true
	}
	p := finance.MonthPeriod(year, time.Month(month))
	return &p, true
}

// kindQuery reads an optional ?type= filter.
func kindQuery(c *gin.Context) (*finance.Kind, bool) {
	raw := c.Query("type")
	if raw == "" {
		return nil, true
	}
	kind, err := finance.ParseKind(raw)
	if err != nil {
		respondValidation(c, validationErrors{"type": {"must be one of: income, expense"}})
		return nil, false
	}
	return &kind, true
}
