// Package cmd - price and quote commands
package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cabinet-pricing/core/pricing"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/errors"
)

// priceFlags are shared by price and quote
type priceFlags struct {
	width    float64
	height   float64
	depth    float64
	currency string
	category string
}

func (f *priceFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "requested width in mm (0 uses the base width)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "requested height in mm (ignored for kitchen modules)")
	cmd.Flags().Float64Var(&f.depth, "depth", 0, "requested depth in mm")
	cmd.Flags().StringVarP(&f.currency, "currency", "c", "", "quote currency (USD, VES)")
	cmd.Flags().StringVar(&f.category, "category", "", "category used for overrides (default is the product's)")
}

var (
	priceOpts priceFlags
	quoteOpts priceFlags
)

// priceCmd prints the final unit price
var priceCmd = &cobra.Command{
	Use:   "price <product-id>",
	Short: "Compute the final unit price of a configured product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := runQuote(args[0], priceOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), q.Final.StringFixed(2))
		return nil
	},
}

// quoteCmd prints the full price breakdown
var quoteCmd = &cobra.Command{
	Use:   "quote <product-id>",
	Short: "Compute a price and show how it was built",
	Long: `Compute a price and show the resolved dimensions, the formula result and
every adjustment stage that was applied.

Examples:
  cabinet-pricing quote base-600 --width 800
  cabinet-pricing quote base-600 --width 800 --currency VES --format json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := runQuote(args[0], quoteOpts)
		if err != nil {
			return err
		}
		out := quoteOutput{ID: uuid.New().String(), Quotation: q}
		if q.FormulaError != nil {
			out.FormulaError = q.FormulaError.Error()
		}

		switch outputFormat() {
		case "json":
			return writeJSON(cmd.OutOrStdout(), out)
		case "table":
			printQuote(cmd.OutOrStdout(), out)
			return nil
		default:
			return errors.Newf(errors.TypeInput, "unsupported format %q", outputFormat())
		}
	},
}

func init() {
	priceOpts.register(priceCmd)
	quoteOpts.register(quoteCmd)
	rootCmd.AddCommand(priceCmd)
	rootCmd.AddCommand(quoteCmd)
}

type quoteOutput struct {
	ID string `json:"id"`
	pricing.Quotation
	FormulaError string `json:"formula_error,omitempty"`
}

func runQuote(productID string, f priceFlags) (pricing.Quotation, error) {
	cat, err := loadCatalog()
	if err != nil {
		return pricing.Quotation{}, err
	}
	product, err := cat.Product(productID)
	if err != nil {
		return pricing.Quotation{}, err
	}
	currency, err := currencyOrDefault(f.currency)
	if err != nil {
		return pricing.Quotation{}, err
	}

	return pricing.Quote(pricing.Request{
		Product: product,
		Dimensions: types.RequestedDimensions{
			WidthMm:  f.width,
			HeightMm: f.height,
			DepthMm:  f.depth,
		},
		Currency:   currency,
		CategoryID: f.category,
	}, cat.Settings), nil
}

const boxWidth = 73

func boxLine(w io.Writer, left, right string) {
	fmt.Fprintf(w, "│ %-50s %20s │\n", truncate(left, 50), truncate(right, 20))
}

func boxRule(w io.Writer, l, r string) {
	fmt.Fprintln(w, l+strings.Repeat("─", boxWidth)+r)
}

func printQuote(w io.Writer, q quoteOutput) {
	boxRule(w, "┌", "┐")
	boxLine(w, "QUOTE "+q.ID, "")
	boxRule(w, "├", "┤")

	boxLine(w, "Product", q.ProductID)
	boxLine(w, "Pricing currency", q.Currency.String())
	if q.CategoryID != "" {
		boxLine(w, "Category", q.CategoryID)
	}
	printAxis(w, "Width", q.Dimensions.Width, false)
	printAxis(w, "Height", q.Dimensions.Height, q.Dimensions.HeightLocked)
	printAxis(w, "Depth", q.Dimensions.Depth, false)

	boxRule(w, "├", "┤")
	boxLine(w, "Base price (USD)", q.BasePrice.StringFixed(2))
	switch {
	case q.Formula == "":
	case q.FormulaApplied:
		boxLine(w, "Formula: "+q.Formula, q.Computed.StringFixed(2))
	default:
		boxLine(w, "Formula failed, using base price", q.Computed.StringFixed(2))
		boxLine(w, "  └─ "+q.FormulaError, "")
	}
	for _, s := range q.Adjustments {
		boxLine(w, fmt.Sprintf("  └─ %s %s%%", s.Name, s.Percent.String()), s.After.StringFixed(2))
	}

	boxRule(w, "├", "┤")
	// Amounts stay in USD; the quote currency only selects the adjustment stage.
	label := "FINAL PRICE"
	if q.Currency != types.CurrencyUSD {
		label += " (" + q.Currency.String() + " pricing)"
	}
	boxLine(w, label, q.Final.StringFixed(2)+" USD")
	boxRule(w, "└", "┘")
}

func printAxis(w io.Writer, label string, a types.Axis, locked bool) {
	value := fmt.Sprintf("%.0f mm", a.Mm)
	switch {
	case locked:
		value += " (locked)"
	case a.Clamped:
		value += " (clamped)"
	}
	boxLine(w, fmt.Sprintf("%s (base %.0f mm)", label, a.BaseMm), value)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
