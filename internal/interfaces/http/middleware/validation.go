package middleware

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Custom binding validators shared by all request DTOs.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("decimal", validateDecimal)
		_ = v.RegisterValidation("positive_decimal", validatePositiveDecimal)
		_ = v.RegisterValidation("currency", validateCurrency)
	}
}

// supportedCurrencies lists the currencies the ledger accepts
var supportedCurrencies = map[string]bool{
	"VND": true,
	"USD": true,
}

// validateCurrency accepts supported ISO currency codes
func validateCurrency(fl validator.FieldLevel) bool {
	return supportedCurrencies[fl.Field().String()]
}

// validateDecimal accepts any string decimal.NewFromString can parse
func validateDecimal(fl validator.FieldLevel) bool {
	_, err := decimal.NewFromString(fl.Field().String())
	return err == nil
}

// validatePositiveDecimal accepts strictly positive decimal strings
func validatePositiveDecimal(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	return err == nil && d.IsPositive()
}
