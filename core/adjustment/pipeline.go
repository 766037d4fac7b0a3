// Package adjustment applies the ordered chain of percentage price modifiers
// (global, per-currency, per-category) and the checkout USD payment discount.
package adjustment

import (
	"strings"

	"github.com/shopspring/decimal"

	"cabinet-pricing/core/types"
)

// MoneyPlaces is the rounding precision for every monetary output
const MoneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// StageName identifies a pipeline stage
type StageName string

const (
	StageGlobal   StageName = "global"
	StageCurrency StageName = "currency"
	StageCategory StageName = "category"
)

// Stage records one applied multiplier
type Stage struct {
	Name    StageName       `json:"name"`
	Percent decimal.Decimal `json:"percent"`
	Before  decimal.Decimal `json:"before"`
	After   decimal.Decimal `json:"after"`
}

// Result is the outcome of running the pipeline
type Result struct {
	Input  decimal.Decimal `json:"input"`
	Final  decimal.Decimal `json:"final"`
	Stages []Stage         `json:"stages,omitempty"`
}

// Apply runs the adjustment chain over price. Each enabled, non-zero stage
// multiplies the running price by (1 + pct/100), in the fixed order
// global → currency → category. Non-positive prices short-circuit to 0.
// The final value is rounded half away from zero to MoneyPlaces.
func Apply(price decimal.Decimal, currency types.Currency, categoryID string, s types.AdjustmentSettings) Result {
	res := Result{Input: price, Final: decimal.Zero}
	if !price.IsPositive() {
		return res
	}

	running := price
	step := func(name StageName, pct float64) {
		if pct == 0 {
			return
		}
		p := decimal.NewFromFloat(pct)
		next := running.Mul(multiplier(p))
		res.Stages = append(res.Stages, Stage{Name: name, Percent: p, Before: running, After: next})
		running = next
	}

	if s.GlobalEnabled {
		step(StageGlobal, s.GlobalPercent)
	}
	if s.ByCurrencyEnabled {
		step(StageCurrency, s.CurrencyPercent(currency))
	}
	if pct, ok := s.CategoryPercent(categoryID); ok {
		step(StageCategory, pct)
	}

	res.Final = running.Round(MoneyPlaces)
	return res
}

// ApplyAdjustments returns only the final rounded price of Apply
func ApplyAdjustments(price decimal.Decimal, currency types.Currency, categoryID string, s types.AdjustmentSettings) decimal.Decimal {
	return Apply(price, currency, categoryID, s).Final
}

func multiplier(pct decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Add(pct.Div(hundred))
}

// PaymentDiscount is the checkout discount for paying in USD
type PaymentDiscount struct {
	Applied  bool            `json:"applied"`
	Percent  decimal.Decimal `json:"percent"`
	Amount   decimal.Decimal `json:"amount"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// ApplyUSDPaymentDiscount discounts subtotal when the payment currency is USD or
// USDT and the toggle is on. It is a checkout operation, separate from Apply.
func ApplyUSDPaymentDiscount(subtotal decimal.Decimal, paymentCurrency string, s types.AdjustmentSettings) PaymentDiscount {
	out := PaymentDiscount{
		Percent:  decimal.Zero,
		Amount:   decimal.Zero,
		Subtotal: subtotal.Round(MoneyPlaces),
	}
	if !subtotal.IsPositive() {
		out.Subtotal = decimal.Zero
		return out
	}
	if !s.USDPaymentDiscountEnabled || s.USDPaymentDiscountPercent <= 0 || !isUSDPayment(paymentCurrency) {
		return out
	}

	pct := decimal.NewFromFloat(s.USDPaymentDiscountPercent)
	amount := subtotal.Mul(pct).Div(hundred).Round(MoneyPlaces)

	out.Applied = true
	out.Percent = pct
	out.Amount = amount
	out.Subtotal = subtotal.Sub(amount).Round(MoneyPlaces)
	return out
}

func isUSDPayment(code string) bool {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "USD", "USDT":
		return true
	}
	return false
}
