// Package types - Module placement types
package types

// PlacementDraft is a proposed module position on a wall, in wall-local millimetres.
// Values arrive from forms, so they are floats checked for finiteness and then rounded.
type PlacementDraft struct {
	// ID is set when updating an existing module, empty on create
	ID        string  `json:"id,omitempty"`
	ProductID string  `json:"product_id"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	WidthMm   float64 `json:"width_mm"`
}

// ExistingModule is a persisted sibling on the same wall.
type ExistingModule struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id,omitempty"`
	PositionX int    `json:"position_x"`
	PositionY int    `json:"position_y"`
	WidthMm   int    `json:"width_mm"`
}

// Span returns the half-open interval [start, end) the module occupies on its row.
func (m ExistingModule) Span() (start, end int) {
	return m.PositionX, m.PositionX + m.WidthMm
}

// NormalizedPlacement is what the caller persists once validation passes.
type NormalizedPlacement struct {
	WidthMm        int `json:"width_mm"`
	PositionX      int `json:"position_x"`
	PositionY      int `json:"position_y"`
	LockedHeightMm int `json:"locked_height_mm"`
}
