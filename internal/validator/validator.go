// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"saldo/internal/models"
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("allocation_type", validateAllocationType)
		_ = v.RegisterValidation("expense_kind", validateExpenseKind)
	}
}

func validateAllocationType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.AllocationFixed), string(models.AllocationPercentage):
		return true
	}
	return false
}

func validateExpenseKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case string(models.ExpenseStandard), string(models.ExpenseAdjustment):
		return true
	}
	return false
}
