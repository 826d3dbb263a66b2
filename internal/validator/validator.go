// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"fintrack/internal/analytics"
	"fintrack/internal/export"
	"fintrack/internal/ledger"
	"fintrack/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterOn(v)
	}
}

// RegisterOn registers the custom validators on v.
func RegisterOn(v *validator.Validate) {
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	_ = v.RegisterValidation("report_type", validateReportType)
	_ = v.RegisterValidation("civil_date", validateCivilDate)
	_ = v.RegisterValidation("export_format", validateExportFormat)
	_ = v.RegisterValidation("sort_field", validateSortField)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).Valid()
}

func validateReportType(fl validator.FieldLevel) bool {
	switch analytics.RangeKind(fl.Field().String()) {
	case analytics.RangeAll, analytics.RangeWeekly, analytics.RangeMonthly, analytics.RangeYearly, analytics.RangeCustom:
		return true
	}
	return false
}

func validateCivilDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDate(fl.Field().String())
	return err == nil
}

func validateExportFormat(fl validator.FieldLevel) bool {
	_, err := export.ParseFormat(fl.Field().String())
	return err == nil
}

func validateSortField(fl validator.FieldLevel) bool {
	_, err := ledger.SortOrder(fl.Field().String())
	return err == nil
}
