// Package types - Price adjustment settings
package types

// AdjustmentSettings is the process-wide price adjustment snapshot.
// The caller owns its refresh; the engine receives it by value.
type AdjustmentSettings struct {
	// Global adjustment, applied regardless of currency/category
	GlobalEnabled bool    `json:"global_enabled"`
	GlobalPercent float64 `json:"global_percent"`

	// ByCurrencyEnabled gates both per-currency percents
	ByCurrencyEnabled bool    `json:"by_currency_enabled"`
	USDPercent        float64 `json:"usd_percent"`
	VESPercent        float64 `json:"ves_percent"`

	// CategoryOverrides maps category id to percent
	CategoryOverrides map[string]float64 `json:"category_overrides,omitempty"`

	// USD payment discount applied at checkout
	USDPaymentDiscountEnabled bool    `json:"usd_payment_discount_enabled"`
	USDPaymentDiscountPercent float64 `json:"usd_payment_discount_percent"`
}

// CurrencyPercent returns the per-currency percent for c.
func (s AdjustmentSettings) CurrencyPercent(c Currency) float64 {
	switch c {
	case CurrencyUSD:
		return s.USDPercent
	case CurrencyVES:
		return s.VESPercent
	default:
		return 0
	}
}

// CategoryPercent returns the override for a category, if any.
func (s AdjustmentSettings) CategoryPercent(categoryID string) (float64, bool) {
	if categoryID == "" || s.CategoryOverrides == nil {
		return 0, false
	}
	pct, ok := s.CategoryOverrides[categoryID]
	return pct, ok
}
