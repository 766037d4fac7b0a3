// Package types - Catalog product descriptor
package types

// Product is the snapshot of a catalog item relevant to pricing and placement.
// Dimensions are millimetres; prices are USD.
type Product struct {
	// ID is the catalog identifier
	ID string `json:"id"`

	// Name is a display name
	Name string `json:"name,omitempty"`

	// Family governs whether height is locked
	Family Family `json:"family"`

	// BasePriceUSD wins when positive
	BasePriceUSD float64 `json:"base_price_usd"`

	// FallbackPriceUSD is used when BasePriceUSD is not positive
	FallbackPriceUSD float64 `json:"fallback_price_usd,omitempty"`

	// Formula is an optional pricing expression; empty means base price
	Formula string `json:"formula,omitempty"`

	// Nominal dimensions, zero when unset
	WidthMm  float64 `json:"width_mm,omitempty"`
	HeightMm float64 `json:"height_mm,omitempty"`
	DepthMm  float64 `json:"depth_mm,omitempty"`

	// Inclusive clamp bounds, nil when not declared
	WidthMinMm  *float64 `json:"width_min_mm,omitempty"`
	WidthMaxMm  *float64 `json:"width_max_mm,omitempty"`
	HeightMinMm *float64 `json:"height_min_mm,omitempty"`
	HeightMaxMm *float64 `json:"height_max_mm,omitempty"`

	// CategoryID selects a category price override
	CategoryID string `json:"category_id,omitempty"`

	// SupplierCurrency is informational only
	SupplierCurrency string `json:"supplier_currency,omitempty"`
}

// BasePrice returns BasePriceUSD if positive, else FallbackPriceUSD, else 0.
func (p Product) BasePrice() float64 {
	if p.BasePriceUSD > 0 {
		return p.BasePriceUSD
	}
	if p.FallbackPriceUSD > 0 {
		return p.FallbackPriceUSD
	}
	return 0
}

// HasWidthRange reports whether both width bounds are declared.
func (p Product) HasWidthRange() bool {
	return p.WidthMinMm != nil && p.WidthMaxMm != nil
}

// HasHeightRange reports whether both height bounds are declared.
func (p Product) HasHeightRange() bool {
	return p.HeightMinMm != nil && p.HeightMaxMm != nil
}

// Mm returns a pointer to v, for filling optional bounds.
func Mm(v float64) *float64 {
	return &v
}
