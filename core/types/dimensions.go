// Package types - Dimension types
package types

// RequestedDimensions is caller input. Zero or negative means "use the base/clamped value".
type RequestedDimensions struct {
	WidthMm  float64 `json:"width_mm,omitempty"`
	HeightMm float64 `json:"height_mm,omitempty"`
	DepthMm  float64 `json:"depth_mm,omitempty"`
}

// Axis holds every resolved figure for one dimension.
type Axis struct {
	// Mm is the effective value used for pricing and placement
	Mm float64 `json:"mm"`

	// BaseMm is never zero unless Mm is zero too
	BaseMm float64 `json:"base_mm"`

	// MinMm and MaxMm are the bounds actually applied, zero when no clamp ran
	MinMm float64 `json:"min_mm"`
	MaxMm float64 `json:"max_mm"`

	// DeltaMm is Mm - BaseMm
	DeltaMm float64 `json:"delta_mm"`

	// Ratio is Mm / BaseMm, 1 when both are zero
	Ratio float64 `json:"ratio"`

	// Clamped is set when the requested value was moved onto a bound
	Clamped bool `json:"clamped,omitempty"`
}

// ResolvedDimensions is the output of the dimension resolver.
type ResolvedDimensions struct {
	Width  Axis `json:"width"`
	Height Axis `json:"height"`
	Depth  Axis `json:"depth"`

	// HeightLocked is set when the family forced the base height
	HeightLocked bool `json:"height_locked,omitempty"`
}
