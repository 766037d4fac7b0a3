// Package types defines the value objects shared by the pricing and placement layers.
// This package contains NO business logic beyond small predicates on the types.
package types

import (
	"strings"

	"cabinet-pricing/internal/errors"
)

// Currency is a pricing currency code
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyVES Currency = "VES"
)

// String returns the string representation
func (c Currency) String() string {
	return string(c)
}

// IsValid checks if the currency is one the pricing engine accepts
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyVES:
		return true
	default:
		return false
	}
}

// ParseCurrency normalizes a caller-supplied code. Anything other than USD or VES is rejected.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", errors.Newf(errors.TypeInput, "unsupported currency %q (want USD or VES)", s)
	}
	return c, nil
}

// Family is the product family tag from the catalog
type Family string

const (
	FamilyStandard      Family = "STANDARD"
	FamilyKitchenModule Family = "KITCHEN_MODULE"
)

// IsHeightLocked reports whether products of this family always keep their base height.
func (f Family) IsHeightLocked() bool {
	return f == FamilyKitchenModule
}
