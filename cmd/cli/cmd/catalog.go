// Package cmd - catalog commands
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cabinet-pricing/internal/errors"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the product catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if outputFormat() == "json" {
			return writeJSON(out, cat.Products())
		}
		for _, p := range cat.Products() {
			fmt.Fprintf(out, "%-20s %-15s %10.2f  %s\n", truncate(p.ID, 20), p.Family, p.BasePrice(), p.Name)
		}
		return nil
	},
}

var catalogLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Report formulas that would fall back to the base price",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, w := range cat.Warnings {
			fmt.Fprintln(out, w)
		}
		if len(cat.Warnings) > 0 {
			return errors.Newf(errors.TypeFormula, "%d formulas will fall back to the base price", len(cat.Warnings))
		}
		fmt.Fprintf(out, "%s: %d products, %d walls, no formula problems\n",
			cat.Source, len(cat.Products()), len(cat.WallNames()))
		return nil
	},
}

func init() {
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogLintCmd)
	rootCmd.AddCommand(catalogCmd)
}
