// Package cmd - formula and variables commands
package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cabinet-pricing/core/dimensions"
	"cabinet-pricing/core/formula"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/errors"
)

var (
	formulaVars    map[string]string
	formulaProduct string
	varsProduct    string
	varsWidth      float64
	varsHeight     float64
	varsDepth      float64
)

var formulaCmd = &cobra.Command{
	Use:   "formula",
	Short: "Author and test pricing formulas",
}

var formulaCheckCmd = &cobra.Command{
	Use:   "check <expr>",
	Short: "Validate a formula's grammar and identifiers",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := formula.Check(args[0], dimensions.VariableTable{}); err != nil {
			return err
		}
		prog, err := formula.Compile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "OK")
		if ids := prog.Identifiers(); len(ids) > 0 {
			fmt.Fprintf(out, "uses: %s\n", strings.Join(ids, ", "))
		}
		return nil
	},
}

var formulaEvalCmd = &cobra.Command{
	Use:   "eval <expr>",
	Short: "Evaluate a formula with explicit variable values",
	Long: `Evaluate a formula. Variables default to 0, or to the values a catalog
product resolves to when --product is given. --var overrides either.

Examples:
  cabinet-pricing formula eval "basePriceUsd * widthRatio" --var basePriceUsd=100 --var widthRatio=1.5
  cabinet-pricing formula eval "basePriceUsd + widthDeltaMm * 0.5" --product base-600`,
	Args: cobra.ExactArgs(1),
	RunE: runFormulaEval,
}

var variablesCmd = &cobra.Command{
	Use:   "variables",
	Short: "List the identifiers a formula may use",
	Long: `List the identifiers a formula may use. With --product the values the
product resolves to are printed next to each name.`,
	Args: cobra.NoArgs,
	RunE: runVariables,
}

func init() {
	formulaEvalCmd.Flags().StringToStringVar(&formulaVars, "var", nil, "variable value as name=number (repeatable)")
	formulaEvalCmd.Flags().StringVarP(&formulaProduct, "product", "p", "", "seed variables from a catalog product")

	variablesCmd.Flags().StringVarP(&varsProduct, "product", "p", "", "show values resolved for a catalog product")
	variablesCmd.Flags().Float64Var(&varsWidth, "width", 0, "requested width in mm")
	variablesCmd.Flags().Float64Var(&varsHeight, "height", 0, "requested height in mm")
	variablesCmd.Flags().Float64Var(&varsDepth, "depth", 0, "requested depth in mm")

	formulaCmd.AddCommand(formulaCheckCmd)
	formulaCmd.AddCommand(formulaEvalCmd)
	rootCmd.AddCommand(formulaCmd)
	rootCmd.AddCommand(variablesCmd)
}

func runFormulaEval(cmd *cobra.Command, args []string) error {
	vars := formula.Vars(dimensions.VariableTable{}.Map())
	if formulaProduct != "" {
		table, err := productVariables(formulaProduct, types.RequestedDimensions{})
		if err != nil {
			return err
		}
		vars = formula.Vars(table.Map())
	}

	for name, raw := range formulaVars {
		if _, ok := vars[name]; !ok {
			return errors.Newf(errors.TypeInput, "unknown variable %q", name).
				WithContext("known", dimensions.Names())
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return errors.Wrapf(errors.TypeInput, err, "variable %s", name)
		}
		vars[name] = v
	}

	value, err := formula.Eval(args[0], vars)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(value, 'f', -1, 64))
	return nil
}

func runVariables(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	if varsProduct == "" {
		for _, name := range dimensions.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	table, err := productVariables(varsProduct, types.RequestedDimensions{
		WidthMm:  varsWidth,
		HeightMm: varsHeight,
		DepthMm:  varsDepth,
	})
	if err != nil {
		return err
	}
	values := table.Map()
	if outputFormat() == "json" {
		return writeJSON(out, values)
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "%-16s %s\n", name, strconv.FormatFloat(values[name], 'f', -1, 64))
	}
	return nil
}

func productVariables(id string, req types.RequestedDimensions) (dimensions.VariableTable, error) {
	cat, err := loadCatalog()
	if err != nil {
		return dimensions.VariableTable{}, err
	}
	p, err := cat.Product(id)
	if err != nil {
		return dimensions.VariableTable{}, err
	}
	return dimensions.Variables(p.BasePrice(), dimensions.Resolve(p, req)), nil
}
