// Package placement validates a module position on a wall against the product's
// manufacturing limits and the modules already placed on the same row.
package placement

import (
	"fmt"
	"math"

	"cabinet-pricing/core/types"
)

// Validation messages. They are shown to the user as-is.
const (
	MsgWidthNotFinite      = "width must be a finite number"
	MsgWidthNotPositive    = "width must be greater than 0"
	MsgPositionXNotFinite  = "position x must be a finite number"
	MsgPositionYNotFinite  = "position y must be a finite number"
	MsgPositionXNegative   = "position x must be 0 or greater"
	MsgPositionYNegative   = "position y must be 0 or greater"
	MsgWidthOutOfRange     = "width is out of range"
	MsgPositionXOutOfRange = "position x is out of range"
	MsgPositionYOutOfRange = "position y is out of range"
	MsgNoWidthRange        = "product has no width range defined"
	MsgNoFixedHeight       = "product has no fixed height defined"
)

// Result is the outcome of Check
type Result struct {
	Errors     []string                  `json:"errors,omitempty"`
	Normalized types.NormalizedPlacement `json:"normalized"`

	// CollidesWith is the id of the first overlapping sibling, if any
	CollidesWith string `json:"collides_with,omitempty"`
}

// OK reports whether the placement can be persisted
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Validate returns every problem with draft at once, plus the normalized values to
// persist. It never fails; an empty slice means the placement is acceptable.
func Validate(draft types.PlacementDraft, product types.Product, existing []types.ExistingModule) ([]string, types.NormalizedPlacement) {
	r := Check(draft, product, existing)
	return r.Errors, r.Normalized
}

// Check is Validate with the colliding sibling identified
func Check(draft types.PlacementDraft, product types.Product, existing []types.ExistingModule) Result {
	var errs []string

	width, widthErr := normalize(draft.WidthMm, MsgWidthNotFinite, MsgWidthOutOfRange)
	x, xErr := normalize(draft.PositionX, MsgPositionXNotFinite, MsgPositionXOutOfRange)
	y, yErr := normalize(draft.PositionY, MsgPositionYNotFinite, MsgPositionYOutOfRange)
	widthOK, xOK, yOK := widthErr == "", xErr == "", yErr == ""

	switch {
	case !widthOK:
		errs = append(errs, widthErr)
	case width <= 0:
		errs = append(errs, MsgWidthNotPositive)
	}
	switch {
	case !xOK:
		errs = append(errs, xErr)
	case x < 0:
		errs = append(errs, MsgPositionXNegative)
	}
	switch {
	case !yOK:
		errs = append(errs, yErr)
	case y < 0:
		errs = append(errs, MsgPositionYNegative)
	}

	if !product.HasWidthRange() {
		errs = append(errs, MsgNoWidthRange)
	} else if widthOK {
		lo, hi := *product.WidthMinMm, *product.WidthMaxMm
		if float64(width) < lo || float64(width) > hi {
			errs = append(errs, fmt.Sprintf("width %d mm is outside the allowed range %s-%s mm", width, formatMm(lo), formatMm(hi)))
		}
	}

	lockedHeight := 0
	if product.HeightMm > 0 {
		lockedHeight = roundHalfAway(product.HeightMm)
	} else {
		errs = append(errs, MsgNoFixedHeight)
	}

	var collidesWith string
	if widthOK && xOK && yOK {
		if other, ok := firstOverlap(draft.ID, x, y, width, existing); ok {
			collidesWith = other.ID
			start, end := other.Span()
			errs = append(errs, fmt.Sprintf("overlap detected with module %s at %d-%d mm", other.ID, start, end))
		}
	}

	return Result{
		Errors: errs,
		Normalized: types.NormalizedPlacement{
			WidthMm:        width,
			PositionX:      x,
			PositionY:      y,
			LockedHeightMm: lockedHeight,
		},
		CollidesWith: collidesWith,
	}
}

// firstOverlap returns the first sibling on row y whose [x, x+width) interval
// intersects the draft's. The draft's own id is skipped so updates do not collide
// with themselves.
func firstOverlap(selfID string, x, y, width int, existing []types.ExistingModule) (types.ExistingModule, bool) {
	draftStart, draftEnd := x, x+width
	for _, other := range existing {
		if selfID != "" && other.ID == selfID {
			continue
		}
		if other.PositionY != y {
			continue
		}
		otherStart, otherEnd := other.Span()
		if draftStart < otherEnd && draftEnd > otherStart {
			return other, true
		}
	}
	return types.ExistingModule{}, false
}

// maxMm bounds every coordinate so rounding cannot overflow int and x+width
// stays representable in the overlap check.
const maxMm = math.MaxInt32

// normalize rounds v to whole millimetres. The returned message is empty when v
// is usable, else notFinite or outOfRange.
func normalize(v float64, notFinite, outOfRange string) (int, string) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, notFinite
	}
	if math.Abs(v) > maxMm {
		return 0, outOfRange
	}
	return roundHalfAway(v), ""
}

func roundHalfAway(v float64) int {
	return int(math.Round(v))
}

func formatMm(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
