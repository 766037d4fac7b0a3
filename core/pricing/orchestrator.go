// Package pricing composes dimension resolution, formula evaluation and the
// adjustment pipeline into the unit price of a configured module.
package pricing

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cabinet-pricing/core/adjustment"
	"cabinet-pricing/core/dimensions"
	"cabinet-pricing/core/formula"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/logging"
)

// Request bundles the per-call inputs of a price computation
type Request struct {
	Product    types.Product
	Dimensions types.RequestedDimensions
	Currency   types.Currency

	// CategoryID overrides Product.CategoryID when set
	CategoryID string
}

// Quotation is the full breakdown behind a computed price
type Quotation struct {
	ProductID  string                   `json:"product_id"`
	Currency   types.Currency           `json:"currency"`
	CategoryID string                   `json:"category_id,omitempty"`
	BasePrice  decimal.Decimal          `json:"base_price"`
	Dimensions types.ResolvedDimensions `json:"dimensions"`

	// Formula is the product formula, empty when none is declared
	Formula string `json:"formula,omitempty"`

	// FormulaApplied is false when there is no formula or it failed
	FormulaApplied bool `json:"formula_applied"`

	// FormulaError is the swallowed failure, kept for diagnostics only
	FormulaError error `json:"-"`

	// Computed is the price fed into the adjustment pipeline
	Computed    decimal.Decimal    `json:"computed"`
	Adjustments []adjustment.Stage `json:"adjustments,omitempty"`
	Final       decimal.Decimal    `json:"final"`
}

// ComputePrice returns the rounded final unit price. It never fails: formula
// problems fall back to the base price.
func ComputePrice(product types.Product, req types.RequestedDimensions, currency types.Currency, categoryID string, settings types.AdjustmentSettings) decimal.Decimal {
	return Quote(Request{
		Product:    product,
		Dimensions: req,
		Currency:   currency,
		CategoryID: categoryID,
	}, settings).Final
}

// Quote computes the price and keeps every intermediate value.
func Quote(req Request, settings types.AdjustmentSettings) Quotation {
	p := req.Product
	category := req.CategoryID
	if category == "" {
		category = p.CategoryID
	}

	q := Quotation{
		ProductID:  p.ID,
		Currency:   req.Currency,
		CategoryID: category,
		Formula:    p.Formula,
		Dimensions: dimensions.Resolve(p, req.Dimensions),
		Computed:   decimal.Zero,
		Final:      decimal.Zero,
	}

	base := p.BasePrice()
	if base <= 0 {
		return q
	}
	q.BasePrice = decimal.NewFromFloat(base)

	computed := base
	if p.Formula != "" {
		vars := dimensions.Variables(base, q.Dimensions)
		value, err := evaluate(p.Formula, vars)
		q.FormulaError = err
		q.FormulaApplied = err == nil
		computed = evaluateOr(value, err, base)
		if err != nil {
			logging.Debug("formula failed, using base price",
				zap.String("product", p.ID),
				zap.String("formula", p.Formula),
				zap.Float64("base_price_usd", base),
				zap.Error(err))
		}
	}
	q.Computed = decimal.NewFromFloat(computed)

	res := adjustment.Apply(q.Computed, req.Currency, category, settings)
	q.Adjustments = res.Stages
	q.Final = res.Final
	return q
}

func evaluate(src string, vars formula.Bindings) (float64, error) {
	prog, err := formula.Compile(src)
	if err != nil {
		return 0, err
	}
	return prog.Eval(vars)
}

// evaluateOr is the fail-soft rule: a formula that cannot be evaluated must never
// block a sale, so any error collapses to the fallback price.
func evaluateOr(value float64, err error, fallback float64) float64 {
	if err != nil {
		return fallback
	}
	return value
}
