// Package cmd - discount command
package cmd

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"cabinet-pricing/core/adjustment"
	"cabinet-pricing/internal/errors"
)

var discountCurrency string

// discountCmd applies the checkout discount for USD payments
var discountCmd = &cobra.Command{
	Use:   "discount <subtotal>",
	Short: "Apply the USD payment discount to a cart subtotal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		subtotal, err := decimal.NewFromString(args[0])
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "invalid subtotal %q", args[0])
		}
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		d := adjustment.ApplyUSDPaymentDiscount(subtotal, discountCurrency, cat.Settings)
		out := cmd.OutOrStdout()
		if outputFormat() == "json" {
			return writeJSON(out, d)
		}
		if d.Applied {
			fmt.Fprintf(out, "discount %s%%: -%s\n", d.Percent.String(), d.Amount.StringFixed(2))
		}
		fmt.Fprintln(out, d.Subtotal.StringFixed(2))
		return nil
	},
}

func init() {
	discountCmd.Flags().StringVarP(&discountCurrency, "currency", "c", "USD", "payment currency (USD, USDT, VES)")
	rootCmd.AddCommand(discountCmd)
}
