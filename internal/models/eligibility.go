package models

import "github.com/shopspring/decimal"

type EligibilityRequest struct {
	CustomerID string
	CartTotal  decimal.Decimal
	Debug      bool
}

type OrderHistorySummary struct {
	OrderCount int
}

// EligibilityResult is the verdict returned to the storefront.
// DiscountCode is nil unless Eligible is true.
type EligibilityResult struct {
	Eligible     bool    `json:"eligible"`
	IsFirstOrder bool    `json:"is_first_order"`
	OrderCount   int     `json:"order_count"`
	DiscountCode *string `json:"discount_code"`
}
