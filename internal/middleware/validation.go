package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"logisticsdash/internal/charts"
	apierrors "logisticsdash/internal/errors"
	"logisticsdash/internal/exporter"
)

// YearQuery is the optional year selection shared by every dashboard endpoint
type YearQuery struct {
	Year *int `json:"year" validate:"omitempty,min=1,max=9999"`
}

// Validator wraps go-playground/validator with the dashboard's custom tags
type Validator struct {
	validator *validator.Validate
}

// NewValidator creates a validator that reports JSON field names
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterValidation("chartkind", isChartKind)
	v.RegisterValidation("imageformat", isImageFormat)
	v.RegisterValidation("exportformat", isExportFormat)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validator: v}
}

// ValidateStruct validates a struct and returns an APIError listing every invalid field
func (v *Validator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "chartkind":
		return fmt.Sprintf("%s must be one of: orders, freight, warehouse", field)
	case "imageformat":
		return fmt.Sprintf("%s must be one of: svg, png", field)
	case "exportformat":
		return fmt.Sprintf("%s must be one of: csv, xlsx", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

func isChartKind(fl validator.FieldLevel) bool {
	_, ok := charts.ParseKind(fl.Field().String())
	return ok
}

func isImageFormat(fl validator.FieldLevel) bool {
	_, ok := charts.ParseImageFormat(fl.Field().String())
	return ok
}

func isExportFormat(fl validator.FieldLevel) bool {
	_, ok := exporter.ParseFormat(fl.Field().String())
	return ok
}

// QueryParamValidator validates query parameters and answers invalid ones with a problem response
type QueryParamValidator struct {
	validator    *Validator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(v *Validator, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{
		validator:    v,
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ParseYear reads the optional year parameter. An absent parameter yields nil.
func ParseYear(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apierrors.ErrValidation("year", "year must be a valid integer")
	}
	return &year, nil
}

// ValidateYear parses and range-checks ?year=. On failure the response is already written.
func (v *QueryParamValidator) ValidateYear(w http.ResponseWriter, r *http.Request) (*int, bool) {
	year, err := ParseYear(r.URL.Query().Get("year"))
	if err == nil {
		err = v.validator.ValidateStruct(YearQuery{Year: year})
	}
	if err != nil {
		v.logger.DebugContext(r.Context(), "invalid year parameter",
			slog.String("year", r.URL.Query().Get("year")),
			slog.String("error", err.Error()),
		)
		v.errorHandler.HandleError(w, r, err)
		return nil, false
	}
	return year, true
}
