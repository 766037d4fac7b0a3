package dimensions

import (
	"sort"

	"cabinet-pricing/core/types"
)

// VariableTable is the closed set of values a pricing formula may reference.
// It implements formula.Bindings through a switch, so a misspelled identifier
// is an unknown variable instead of a silent zero.
type VariableTable struct {
	BasePriceUSD float64
	Width        types.Axis
	Height       types.Axis
	Depth        types.Axis
}

// Variables builds the table for one pricing call
func Variables(basePriceUSD float64, resolved types.ResolvedDimensions) VariableTable {
	return VariableTable{
		BasePriceUSD: basePriceUSD,
		Width:        resolved.Width,
		Height:       resolved.Height,
		Depth:        resolved.Depth,
	}
}

// Lookup implements formula.Bindings
func (t VariableTable) Lookup(name string) (float64, bool) {
	switch name {
	case "basePriceUsd":
		return t.BasePriceUSD, true

	case "widthMm":
		return t.Width.Mm, true
	case "widthBaseMm":
		return t.Width.BaseMm, true
	case "widthMinMm":
		return t.Width.MinMm, true
	case "widthMaxMm":
		return t.Width.MaxMm, true
	case "widthDeltaMm":
		return t.Width.DeltaMm, true
	case "widthRatio":
		return t.Width.Ratio, true

	case "heightMm":
		return t.Height.Mm, true
	case "heightBaseMm":
		return t.Height.BaseMm, true
	case "heightMinMm":
		return t.Height.MinMm, true
	case "heightMaxMm":
		return t.Height.MaxMm, true
	case "heightDeltaMm":
		return t.Height.DeltaMm, true
	case "heightRatio":
		return t.Height.Ratio, true

	case "depthMm":
		return t.Depth.Mm, true
	case "depthBaseMm":
		return t.Depth.BaseMm, true
	case "depthMinMm":
		return t.Depth.MinMm, true
	case "depthMaxMm":
		return t.Depth.MaxMm, true
	case "depthDeltaMm":
		return t.Depth.DeltaMm, true
	case "depthRatio":
		return t.Depth.Ratio, true
	}
	return 0, false
}

var variableNames = []string{
	"basePriceUsd",
	"widthMm", "widthBaseMm", "widthMinMm", "widthMaxMm", "widthDeltaMm", "widthRatio",
	"heightMm", "heightBaseMm", "heightMinMm", "heightMaxMm", "heightDeltaMm", "heightRatio",
	"depthMm", "depthBaseMm", "depthMinMm", "depthMaxMm", "depthDeltaMm", "depthRatio",
}

// Names returns every identifier a formula may use, sorted
func Names() []string {
	out := make([]string, len(variableNames))
	copy(out, variableNames)
	sort.Strings(out)
	return out
}

// Map dumps the table keyed by identifier
func (t VariableTable) Map() map[string]float64 {
	m := make(map[string]float64, len(variableNames))
	for _, name := range variableNames {
		v, _ := t.Lookup(name)
		m[name] = v
	}
	return m
}
