// Package dimensions resolves the effective dimensions of a configured module from
// partial customer input and the manufacturer bounds declared on the product.
package dimensions

import (
	"cabinet-pricing/core/types"
)

// Resolve computes effective dimensions. It is deterministic in (product, req).
//
// Width and height prefer a positive requested value, else the base, and are then
// clamped when both bounds exist. Height-locked families always keep the base height.
// Depth is never clamped.
func Resolve(product types.Product, req types.RequestedDimensions) types.ResolvedDimensions {
	var out types.ResolvedDimensions

	out.Width = resolveClamped(product.WidthMm, req.WidthMm, product.WidthMinMm, product.WidthMaxMm)

	if product.Family.IsHeightLocked() {
		out.Height = newAxis(product.HeightMm, product.HeightMm)
		out.HeightLocked = true
	} else {
		out.Height = resolveClamped(product.HeightMm, req.HeightMm, product.HeightMinMm, product.HeightMaxMm)
	}

	out.Depth = newAxis(prefer(req.DepthMm, product.DepthMm), product.DepthMm)

	return out
}

func prefer(requested, base float64) float64 {
	if requested > 0 {
		return requested
	}
	return base
}

func resolveClamped(base, requested float64, lo, hi *float64) types.Axis {
	value := prefer(requested, base)
	if lo == nil || hi == nil {
		return newAxis(value, base)
	}

	operand := value
	if operand <= 0 {
		operand = base
	}
	clamped := clamp(operand, *lo, *hi)

	axis := newAxis(clamped, base)
	axis.MinMm = *lo
	axis.MaxMm = *hi
	axis.Clamped = clamped != value
	return axis
}

// clamp applies the lower bound first, so an inverted range resolves to hi.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v
}

// newAxis derives delta and ratio. A missing base is replaced by the effective
// value so the ratio stays defined; the effective value itself is untouched.
func newAxis(effective, base float64) types.Axis {
	safeBase := base
	if safeBase <= 0 {
		safeBase = effective
	}

	ratio := 1.0
	if safeBase != 0 {
		ratio = effective / safeBase
	}

	return types.Axis{
		Mm:      effective,
		BaseMm:  safeBase,
		DeltaMm: effective - safeBase,
		Ratio:   ratio,
	}
}
