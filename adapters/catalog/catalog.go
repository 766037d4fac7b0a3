// Package catalog loads products, adjustment settings and wall layouts from an
// HCL catalog file. It stands in for the product and settings stores.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"cabinet-pricing/core/dimensions"
	"cabinet-pricing/core/formula"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/errors"
)

// Catalog is the decoded content of one catalog file
type Catalog struct {
	// Source is the file the catalog was read from
	Source string

	Settings types.AdjustmentSettings

	// Warnings lists formulas that will fall back to the base price
	Warnings []string

	products map[string]types.Product
	order    []string
	walls    map[string][]types.ExistingModule
}

type fileSchema struct {
	Settings *settingsBlock `hcl:"settings,block"`
	Products []productBlock `hcl:"product,block"`
	Walls    []wallBlock    `hcl:"wall,block"`
}

type settingsBlock struct {
	GlobalEnabled             bool           `hcl:"global_enabled,optional"`
	GlobalPercent             float64        `hcl:"global_percent,optional"`
	ByCurrencyEnabled         bool           `hcl:"by_currency_enabled,optional"`
	USDPercent                float64        `hcl:"usd_percent,optional"`
	VESPercent                float64        `hcl:"ves_percent,optional"`
	CategoryOverrides         hcl.Expression `hcl:"category_overrides,optional"`
	USDPaymentDiscountEnabled bool           `hcl:"usd_payment_discount_enabled,optional"`
	USDPaymentDiscountPercent float64        `hcl:"usd_payment_discount_percent,optional"`
}

type productBlock struct {
	ID               string   `hcl:"id,label"`
	Name             string   `hcl:"name,optional"`
	Family           string   `hcl:"family,optional"`
	BasePriceUSD     float64  `hcl:"base_price_usd,optional"`
	FallbackPriceUSD float64  `hcl:"fallback_price_usd,optional"`
	Formula          string   `hcl:"formula,optional"`
	WidthMm          float64  `hcl:"width_mm,optional"`
	HeightMm         float64  `hcl:"height_mm,optional"`
	DepthMm          float64  `hcl:"depth_mm,optional"`
	WidthMinMm       *float64 `hcl:"width_min_mm,optional"`
	WidthMaxMm       *float64 `hcl:"width_max_mm,optional"`
	HeightMinMm      *float64 `hcl:"height_min_mm,optional"`
	HeightMaxMm      *float64 `hcl:"height_max_mm,optional"`
	CategoryID       string   `hcl:"category,optional"`
	SupplierCurrency string   `hcl:"supplier_currency,optional"`
}

type wallBlock struct {
	Name    string        `hcl:"name,label"`
	Modules []moduleBlock `hcl:"module,block"`
}

type moduleBlock struct {
	ID        string `hcl:"id,label"`
	Product   string `hcl:"product,optional"`
	PositionX int    `hcl:"position_x"`
	PositionY int    `hcl:"position_y"`
	WidthMm   int    `hcl:"width_mm"`
}

// Load reads and decodes a catalog file
func Load(path string) (*Catalog, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NotFound("catalog", path)
		}
		return nil, errors.Wrapf(errors.TypeInput, err, "failed to read catalog %s", path)
	}
	return Parse(src, path)
}

// Parse decodes catalog source. filename is used in diagnostics only.
func Parse(src []byte, filename string) (*Catalog, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, diagError(diags)
	}

	var schema fileSchema
	if diags := gohcl.DecodeBody(file.Body, nil, &schema); diags.HasErrors() {
		return nil, diagError(diags)
	}

	cat := &Catalog{
		Source:   filename,
		products: make(map[string]types.Product, len(schema.Products)),
		walls:    make(map[string][]types.ExistingModule, len(schema.Walls)),
	}

	if schema.Settings != nil {
		settings, err := decodeSettings(*schema.Settings)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "%s: settings", filename)
		}
		cat.Settings = settings
	}

	for _, pb := range schema.Products {
		if _, dup := cat.products[pb.ID]; dup {
			return nil, errors.Newf(errors.TypeParsing, "%s: duplicate product %q", filename, pb.ID)
		}
		product, err := decodeProduct(pb)
		if err != nil {
			return nil, errors.Wrapf(errors.TypeParsing, err, "%s: product %q", filename, pb.ID)
		}
		cat.products[pb.ID] = product
		cat.order = append(cat.order, pb.ID)
	}

	for _, wb := range schema.Walls {
		if _, dup := cat.walls[wb.Name]; dup {
			return nil, errors.Newf(errors.TypeParsing, "%s: duplicate wall %q", filename, wb.Name)
		}
		modules := make([]types.ExistingModule, 0, len(wb.Modules))
		for _, mb := range wb.Modules {
			if mb.Product != "" {
				if _, ok := cat.products[mb.Product]; !ok {
					return nil, errors.Newf(errors.TypeParsing, "%s: wall %q module %q references unknown product %q",
						filename, wb.Name, mb.ID, mb.Product)
				}
			}
			modules = append(modules, types.ExistingModule{
				ID:        mb.ID,
				ProductID: mb.Product,
				PositionX: mb.PositionX,
				PositionY: mb.PositionY,
				WidthMm:   mb.WidthMm,
			})
		}
		cat.walls[wb.Name] = modules
	}

	cat.Warnings = cat.lintFormulas()
	return cat, nil
}

func decodeProduct(pb productBlock) (types.Product, error) {
	family := types.Family(strings.ToUpper(strings.TrimSpace(pb.Family)))
	switch family {
	case "":
		family = types.FamilyStandard
	case types.FamilyStandard, types.FamilyKitchenModule:
	default:
		return types.Product{}, fmt.Errorf("unknown family %q", pb.Family)
	}

	return types.Product{
		ID:               pb.ID,
		Name:             pb.Name,
		Family:           family,
		BasePriceUSD:     pb.BasePriceUSD,
		FallbackPriceUSD: pb.FallbackPriceUSD,
		Formula:          strings.TrimSpace(pb.Formula),
		WidthMm:          pb.WidthMm,
		HeightMm:         pb.HeightMm,
		DepthMm:          pb.DepthMm,
		WidthMinMm:       pb.WidthMinMm,
		WidthMaxMm:       pb.WidthMaxMm,
		HeightMinMm:      pb.HeightMinMm,
		HeightMaxMm:      pb.HeightMaxMm,
		CategoryID:       pb.CategoryID,
		SupplierCurrency: pb.SupplierCurrency,
	}, nil
}

func decodeSettings(sb settingsBlock) (types.AdjustmentSettings, error) {
	overrides, err := decodePercentMap(sb.CategoryOverrides)
	if err != nil {
		return types.AdjustmentSettings{}, err
	}
	return types.AdjustmentSettings{
		GlobalEnabled:             sb.GlobalEnabled,
		GlobalPercent:             sb.GlobalPercent,
		ByCurrencyEnabled:         sb.ByCurrencyEnabled,
		USDPercent:                sb.USDPercent,
		VESPercent:                sb.VESPercent,
		CategoryOverrides:         overrides,
		USDPaymentDiscountEnabled: sb.USDPaymentDiscountEnabled,
		USDPaymentDiscountPercent: sb.USDPaymentDiscountPercent,
	}, nil
}

// lintFormulas checks every formula against the closed variable set. Broken
// formulas are still loaded: pricing falls back to the base price for them.
func (c *Catalog) lintFormulas() []string {
	var warnings []string
	for _, id := range c.order {
		p := c.products[id]
		if p.Formula == "" {
			continue
		}
		vars := dimensions.Variables(p.BasePrice(), dimensions.Resolve(p, types.RequestedDimensions{}))
		if err := formula.Check(p.Formula, vars); err != nil {
			warnings = append(warnings, fmt.Sprintf("product %q: %v", id, err))
		}
	}
	return warnings
}

// Product returns a product by id
func (c *Catalog) Product(id string) (types.Product, error) {
	p, ok := c.products[id]
	if !ok {
		return types.Product{}, errors.NotFound("product", id)
	}
	return p, nil
}

// Products returns every product in file order
func (c *Catalog) Products() []types.Product {
	out := make([]types.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Wall returns the modules placed on a wall
func (c *Catalog) Wall(name string) ([]types.ExistingModule, error) {
	modules, ok := c.walls[name]
	if !ok {
		return nil, errors.NotFound("wall", name)
	}
	out := make([]types.ExistingModule, len(modules))
	copy(out, modules)
	return out, nil
}

// WallNames returns the declared walls, sorted
func (c *Catalog) WallNames() []string {
	names := make([]string, 0, len(c.walls))
	for name := range c.walls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func diagError(diags hcl.Diagnostics) error {
	for _, diag := range diags {
		if diag.Severity != hcl.DiagError {
			continue
		}
		loc := ""
		if diag.Subject != nil {
			loc = fmt.Sprintf("%s:%d", diag.Subject.Filename, diag.Subject.Start.Line)
		}
		return errors.Parsing(loc, fmt.Errorf("%s: %s", diag.Summary, diag.Detail)).
			WithContext("diagnostics", len(diags.Errs()))
	}
	return errors.Parsing("catalog", diags)
}
