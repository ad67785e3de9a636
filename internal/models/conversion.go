package models

import (
	"fmt"
	"strconv"
)

// ConversionRequest is the user-submitted form or query
type ConversionRequest struct {
	Currency string  `form:"currency" json:"currency" binding:"required,currency" example:"USD"`
	Quantity float64 `form:"quantity" json:"quantity" binding:"required,gt=0" example:"900"`
}

// ConversionResult is a successful conversion of rubles into Currency
type ConversionResult struct {
	Currency  string  `json:"currency" example:"USD"`
	Quantity  float64 `json:"quantity" example:"900"`
	Rate      float64 `json:"exchange_to_rub" example:"90"`
	Converted float64 `json:"converted" example:"10"`
	// Display is Converted formatted to two decimal places
	Display string `json:"display" example:"10.00"`
}

// Summary renders the result line shown to the user
func (r ConversionResult) Summary() string {
	return fmt.Sprintf("%s RUB = %s %s", strconv.FormatFloat(r.Quantity, 'f', -1, 64), r.Display, r.Currency)
}

// ConversionFailure is the user-safe error half of a conversion
type ConversionFailure struct {
	ErrorCode    int    `json:"error_code" example:"404"`
	ErrorMessage string `json:"error_message" example:"not found"`
}

// Flashes renders the failure as the two messages shown to the user
func (f ConversionFailure) Flashes() []string {
	return []string{fmt.Sprintf("Error: %d", f.ErrorCode), f.ErrorMessage}
}
