package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"cabinet-pricing/internal/errors"
)

const testCatalog = `
settings {
  global_enabled               = true
  global_percent               = 10
  by_currency_enabled          = true
  ves_percent                  = 25
  usd_payment_discount_enabled = true
  usd_payment_discount_percent = 5

  category_overrides = {
    bases = -5
  }
}

product "base-600" {
  name           = "Base cabinet 600"
  family         = "KITCHEN_MODULE"
  base_price_usd = 100
  formula        = "basePriceUsd + (widthDeltaMm * 0.5)"
  width_mm       = 600
  height_mm      = 720
  depth_mm       = 560
  width_min_mm   = 400
  width_max_mm   = 1000
  category       = "bases"
}

product "shelf" {
  base_price_usd = 40
  formula        = "basePriceUsd * typo"
}

wall "north" {
  module "m1" {
    product    = "base-600"
    position_x = 0
    position_y = 0
    width_mm   = 600
  }
  module "m2" {
    position_x = 600
    position_y = 0
    width_mm   = 400
  }
}
`

func resetFlags(c *cobra.Command) {
	for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Value.Type() != "stringToString" {
				_ = f.Value.Set(f.DefValue)
			}
			f.Changed = false
		})
	}
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI against a fresh catalog and an absent config file
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	dir := t.TempDir()
	catalogFile := filepath.Join(dir, "catalog.hcl")
	if err := os.WriteFile(catalogFile, []byte(testCatalog), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	resetFlags(rootCmd)
	formulaVars = map[string]string{}

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{
		"--config", filepath.Join(dir, "config.json"),
		"--catalog", catalogFile,
	}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPrice(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"base width", []string{"price", "base-600"}, "104.50"},
		{"formula with delta", []string{"price", "base-600", "--width", "800"}, "209.00"},
		{"clamped width", []string{"price", "base-600", "--width", "5000"}, "313.50"},
		{"currency stage", []string{"price", "base-600", "--width", "800", "--currency", "VES"}, "261.25"},
		{"category override", []string{"price", "base-600", "--width", "800", "--category", "tall"}, "220.00"},
		{"broken formula falls back", []string{"price", "shelf"}, "44.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := strings.TrimSpace(out); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPriceErrors(t *testing.T) {
	if _, err := run(t, "price", "ghost"); !errors.IsType(err, errors.TypeNotFound) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
	if _, err := run(t, "price", "base-600", "--currency", "EUR"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for unsupported currency, got %v", err)
	}
}

func TestQuoteJSON(t *testing.T) {
	out, err := run(t, "quote", "base-600", "--width", "800", "--format", "json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		ID             string          `json:"id"`
		ProductID      string          `json:"product_id"`
		FormulaApplied bool            `json:"formula_applied"`
		Computed       decimal.Decimal `json:"computed"`
		Final          decimal.Decimal `json:"final"`
		Adjustments    []struct {
			Name string `json:"name"`
		} `json:"adjustments"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}

	if _, err := uuid.Parse(got.ID); err != nil {
		t.Errorf("expected a uuid quote id, got %q", got.ID)
	}
	if got.ProductID != "base-600" || !got.FormulaApplied {
		t.Errorf("unexpected quote %+v", got)
	}
	if !got.Computed.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected computed 200, got %s", got.Computed)
	}
	if !got.Final.Equal(decimal.RequireFromString("209")) {
		t.Errorf("expected final 209, got %s", got.Final)
	}
	if len(got.Adjustments) != 2 || got.Adjustments[0].Name != "global" || got.Adjustments[1].Name != "category" {
		t.Errorf("unexpected stages %+v", got.Adjustments)
	}
}

func TestQuoteTableShowsFallback(t *testing.T) {
	out, err := run(t, "quote", "shelf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"QUOTE ", "Formula failed, using base price", "FINAL PRICE", "44.00 USD"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestPlace(t *testing.T) {
	out, err := run(t, "place", "base-600", "--wall", "north", "--x", "1000", "--width", "600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "OK: base-600 at x=1000 y=0 width=600 mm height=720 mm") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPlaceRejectsOverlap(t *testing.T) {
	out, err := run(t, "place", "base-600", "--wall", "north", "--x", "500", "--width", "600")
	if !errors.IsType(err, errors.TypePlacement) {
		t.Fatalf("expected PLACEMENT_ERROR, got %v", err)
	}
	if v, _ := errors.ContextValue(err, "collides_with"); v != "m1" {
		t.Errorf("expected collision with m1, got %v", v)
	}
	if !strings.Contains(out, "overlap detected with module m1 at 0-600 mm") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestPlaceMovingModuleSkipsItself(t *testing.T) {
	if _, err := run(t, "place", "base-600", "--wall", "north", "--id", "m2", "--x", "600", "--width", "400"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestFormulaEval(t *testing.T) {
	out, err := run(t, "formula", "eval", "basePriceUsd * widthRatio", "--var", "basePriceUsd=100", "--var", "widthRatio=1.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "150" {
		t.Errorf("expected 150, got %q", out)
	}

	out, err = run(t, "formula", "eval", "basePriceUsd + widthDeltaMm", "--product", "base-600")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "100" {
		t.Errorf("expected 100 at base width, got %q", out)
	}

	if _, err := run(t, "formula", "eval", "x + 1", "--var", "x=1"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for unknown --var, got %v", err)
	}
}

func TestFormulaCheck(t *testing.T) {
	out, err := run(t, "formula", "check", "basePriceUsd * widthRatio")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "uses: basePriceUsd, widthRatio") {
		t.Errorf("unexpected output %q", out)
	}

	if _, err := run(t, "formula", "check", "basePriceUsd * (2 + "); !errors.IsType(err, errors.TypeFormula) {
		t.Errorf("expected FORMULA_ERROR, got %v", err)
	}
}

func TestVariables(t *testing.T) {
	out, err := run(t, "variables")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 19 {
		t.Errorf("expected 19 identifiers, got %d", len(lines))
	}

	out, err = run(t, "variables", "--product", "base-600", "--width", "800")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "widthDeltaMm") || !strings.Contains(out, "200") {
		t.Errorf("expected resolved width delta in output:\n%s", out)
	}
}

func TestDiscount(t *testing.T) {
	out, err := run(t, "discount", "100", "--currency", "usdt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "-5.00") || !strings.HasSuffix(strings.TrimSpace(out), "95.00") {
		t.Errorf("unexpected output %q", out)
	}

	out, err = run(t, "discount", "100", "--currency", "VES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "100.00" {
		t.Errorf("expected no discount for VES, got %q", out)
	}

	if _, err := run(t, "discount", "abc"); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}
}

func TestCatalogLint(t *testing.T) {
	out, err := run(t, "catalog", "lint")
	if !errors.IsType(err, errors.TypeFormula) {
		t.Fatalf("expected FORMULA_ERROR, got %v", err)
	}
	if !strings.Contains(out, `"shelf"`) {
		t.Errorf("expected shelf warning, got %q", out)
	}
}

func TestCatalogList(t *testing.T) {
	out, err := run(t, "catalog", "list")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "base-600") || !strings.Contains(out, "shelf") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestConfigSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved", "config.json")
	out, err := run(t, "config", "save", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("expected path in output, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved config: %v", err)
	}
	var saved struct {
		Pricing struct {
			DefaultCurrency string `json:"default_currency"`
		} `json:"pricing"`
	}
	if err := json.Unmarshal(data, &saved); err != nil {
		t.Fatalf("decode saved config: %v", err)
	}
	if saved.Pricing.DefaultCurrency != "USD" {
		t.Errorf("expected USD default currency, got %q", saved.Pricing.DefaultCurrency)
	}
}

func TestQuoteTableLabelsAmountsInUSD(t *testing.T) {
	out, err := run(t, "quote", "base-600", "--width", "800", "--currency", "VES")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "FINAL PRICE (VES pricing)") || !strings.Contains(out, "261.25 USD") {
		t.Errorf("expected USD amount under VES pricing:\n%s", out)
	}
	if strings.Contains(out, "261.25 VES") {
		t.Errorf("amount must not be labelled VES:\n%s", out)
	}
}
