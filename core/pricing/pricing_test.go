package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/errors"
	"cabinet-pricing/internal/logging"
)

func cabinet(formula string) types.Product {
	return types.Product{
		ID:           "base-600",
		Family:       types.FamilyStandard,
		BasePriceUSD: 100,
		Formula:      formula,
		WidthMm:      600,
		HeightMm:     720,
		DepthMm:      560,
		WidthMinMm:   types.Mm(400),
		WidthMaxMm:   types.Mm(1000),
	}
}

func assertPrice(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got.String())
	}
}

var disabled = types.AdjustmentSettings{
	GlobalPercent:     25,
	USDPercent:        10,
	VESPercent:        40,
	CategoryOverrides: map[string]float64{},
}

func TestNoFormulaReturnsBasePrice(t *testing.T) {
	for _, currency := range []types.Currency{types.CurrencyUSD, types.CurrencyVES} {
		got := ComputePrice(cabinet(""), types.RequestedDimensions{WidthMm: 900}, currency, "bases", disabled)
		assertPrice(t, got, "100.00")
	}
}

func TestFormulaWithWidthDelta(t *testing.T) {
	p := cabinet("basePriceUsd + (widthDeltaMm * 0.5)")
	got := ComputePrice(p, types.RequestedDimensions{WidthMm: 800}, types.CurrencyUSD, "", disabled)
	assertPrice(t, got, "200.00")
}

func TestFormulaThenGlobalAdjustment(t *testing.T) {
	p := cabinet("basePriceUsd + (widthDeltaMm * 0.5)")
	settings := types.AdjustmentSettings{GlobalEnabled: true, GlobalPercent: 10}
	got := ComputePrice(p, types.RequestedDimensions{WidthMm: 800}, types.CurrencyUSD, "", settings)
	assertPrice(t, got, "220.00")
}

func TestInvalidFormulaFallsBackToBasePrice(t *testing.T) {
	settings := types.AdjustmentSettings{GlobalEnabled: true, GlobalPercent: 10}
	req := types.RequestedDimensions{WidthMm: 800}
	want := ComputePrice(cabinet(""), req, types.CurrencyUSD, "", settings)

	for _, src := range []string{
		"(basePriceUsd",
		"basePriceUsd * unknownVar",
		"basePriceUsd +",
		"1.2.3",
		"basePriceUsd ^ 2",
		"widthMm widthMm",
	} {
		t.Run(src, func(t *testing.T) {
			got := ComputePrice(cabinet(src), req, types.CurrencyUSD, "", settings)
			if !got.Equal(want) {
				t.Errorf("expected fallback %s, got %s", want, got)
			}

			q := Quote(Request{Product: cabinet(src), Dimensions: req, Currency: types.CurrencyUSD}, settings)
			if q.FormulaApplied {
				t.Error("expected FormulaApplied=false")
			}
			if !errors.IsType(q.FormulaError, errors.TypeFormula) {
				t.Errorf("expected swallowed formula error, got %v", q.FormulaError)
			}
		})
	}
}

func TestDivisionByZeroInFormulaIsZeroNotFallback(t *testing.T) {
	p := cabinet("basePriceUsd + 10 / (widthMm - widthMm)")
	q := Quote(Request{Product: p, Currency: types.CurrencyUSD}, disabled)
	if !q.FormulaApplied {
		t.Fatalf("expected formula to apply, got error %v", q.FormulaError)
	}
	assertPrice(t, q.Final, "100.00")
}

func TestFallbackPriceUsedWhenBaseNotPositive(t *testing.T) {
	p := cabinet("basePriceUsd * 2")
	p.BasePriceUSD = 0
	p.FallbackPriceUSD = 45.5
	assertPrice(t, ComputePrice(p, types.RequestedDimensions{}, types.CurrencyUSD, "", disabled), "91.00")
}

func TestNoPositivePriceReturnsZero(t *testing.T) {
	p := cabinet("1000")
	p.BasePriceUSD = -1
	p.FallbackPriceUSD = 0
	settings := types.AdjustmentSettings{GlobalEnabled: true, GlobalPercent: 10}

	q := Quote(Request{Product: p, Currency: types.CurrencyUSD}, settings)
	assertPrice(t, q.Final, "0")
	if q.FormulaApplied || len(q.Adjustments) != 0 {
		t.Error("nothing should run when there is no positive price")
	}
}

func TestNegativeFormulaResultShortCircuits(t *testing.T) {
	p := cabinet("0 - basePriceUsd")
	assertPrice(t, ComputePrice(p, types.RequestedDimensions{}, types.CurrencyUSD, "", disabled), "0")
}

func TestCategoryDefaultsToProductCategory(t *testing.T) {
	p := cabinet("")
	p.CategoryID = "bases"
	settings := types.AdjustmentSettings{CategoryOverrides: map[string]float64{"bases": 20, "promo": -50}}

	assertPrice(t, ComputePrice(p, types.RequestedDimensions{}, types.CurrencyUSD, "", settings), "120.00")
	assertPrice(t, ComputePrice(p, types.RequestedDimensions{}, types.CurrencyUSD, "promo", settings), "50.00")
}

func TestHeightLockedFormula(t *testing.T) {
	p := cabinet("basePriceUsd * heightRatio")
	p.Family = types.FamilyKitchenModule

	got := ComputePrice(p, types.RequestedDimensions{HeightMm: 1440}, types.CurrencyUSD, "", disabled)
	assertPrice(t, got, "100.00")
}

func TestQuoteBreakdown(t *testing.T) {
	p := cabinet("basePriceUsd * widthRatio")
	settings := types.AdjustmentSettings{
		GlobalEnabled:     true,
		GlobalPercent:     10,
		ByCurrencyEnabled: true,
		VESPercent:        10,
	}

	q := Quote(Request{Product: p, Dimensions: types.RequestedDimensions{WidthMm: 900}, Currency: types.CurrencyVES}, settings)
	if q.ProductID != "base-600" || q.Currency != types.CurrencyVES {
		t.Errorf("unexpected identity %q %q", q.ProductID, q.Currency)
	}
	if q.Dimensions.Width.Mm != 900 {
		t.Errorf("expected resolved width 900, got %v", q.Dimensions.Width.Mm)
	}
	assertPrice(t, q.BasePrice, "100")
	assertPrice(t, q.Computed, "150")
	if len(q.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustment stages, got %d", len(q.Adjustments))
	}
	assertPrice(t, q.Final, "181.50")
}

func TestFormulaFallbackIsLoggedAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := logging.Replace(zap.New(core))
	defer restore()

	ComputePrice(cabinet("basePriceUsd * nope"), types.RequestedDimensions{}, types.CurrencyUSD, "", disabled)

	entries := logs.FilterMessage("formula failed, using base price").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 fallback log entry, got %d", len(entries))
	}
	if entries[0].Level != zapcore.DebugLevel {
		t.Errorf("expected debug level, got %s", entries[0].Level)
	}
	if entries[0].ContextMap()["product"] != "base-600" {
		t.Errorf("expected product field, got %v", entries[0].ContextMap())
	}
}

func TestComputePriceIsDeterministic(t *testing.T) {
	p := cabinet("basePriceUsd * widthRatio + depthDeltaMm * 0.01")
	req := types.RequestedDimensions{WidthMm: 733, DepthMm: 610}
	settings := types.AdjustmentSettings{GlobalEnabled: true, GlobalPercent: 7.5}

	first := ComputePrice(p, req, types.CurrencyUSD, "", settings)
	for i := 0; i < 20; i++ {
		if got := ComputePrice(p, req, types.CurrencyUSD, "", settings); !got.Equal(first) {
			t.Fatalf("run %d: expected %s, got %s", i, first, got)
		}
	}
}
