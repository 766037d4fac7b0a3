package catalog

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// decodePercentMap converts a `{ key = number }` attribute into a Go map.
// Unknown or non-numeric entries are rejected rather than read as zero.
func decodePercentMap(expr hcl.Expression) (map[string]float64, error) {
	out := make(map[string]float64)
	if expr == nil {
		return out, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}
	if val.IsNull() {
		return out, nil
	}
	if !val.IsWhollyKnown() {
		return nil, fmt.Errorf("category_overrides must be a literal map")
	}

	ty := val.Type()
	if !ty.IsObjectType() && !ty.IsMapType() {
		return nil, fmt.Errorf("category_overrides must be a map, got %s", ty.FriendlyName())
	}

	it := val.ElementIterator()
	for it.Next() {
		k, v := it.Element()
		key := k.AsString()
		if v.IsNull() || v.Type() != cty.Number {
			return nil, fmt.Errorf("category_overrides[%q] must be a number, got %s", key, v.Type().FriendlyName())
		}
		f, _ := v.AsBigFloat().Float64()
		out[key] = f
	}
	return out, nil
}
