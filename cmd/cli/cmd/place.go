// Package cmd - place command
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cabinet-pricing/core/placement"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/config"
	"cabinet-pricing/internal/errors"
)

var (
	placeX      float64
	placeY      float64
	placeWidth  float64
	placeWall   string
	placeModule string
)

// placeCmd validates a module position against a wall
var placeCmd = &cobra.Command{
	Use:   "place <product-id>",
	Short: "Validate a module placement on a wall",
	Long: `Validate a proposed module position against the product's width range and
the modules already placed on the same row of a wall.

Every problem is reported at once. The command fails when any is found.

Examples:
  cabinet-pricing place base-600 --wall north --x 1200 --y 0 --width 600
  cabinet-pricing place base-600 --wall north --id m2 --x 500 --y 0 --width 600`,
	Args: cobra.ExactArgs(1),
	RunE: runPlace,
}

func init() {
	placeCmd.Flags().Float64Var(&placeX, "x", 0, "position along the wall in mm")
	placeCmd.Flags().Float64Var(&placeY, "y", 0, "row offset in mm")
	placeCmd.Flags().Float64Var(&placeWidth, "width", 0, "module width in mm")
	placeCmd.Flags().StringVar(&placeWall, "wall", "", "wall to check against (default is catalog.wall from config)")
	placeCmd.Flags().StringVar(&placeModule, "id", "", "id of the module being moved, skipped in the overlap check")
	rootCmd.AddCommand(placeCmd)
}

func runPlace(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	product, err := cat.Product(args[0])
	if err != nil {
		return err
	}

	wall := placeWall
	if wall == "" {
		wall = config.Get().Catalog.Wall
	}
	var existing []types.ExistingModule
	if wall != "" {
		if existing, err = cat.Wall(wall); err != nil {
			return err
		}
	}

	res := placement.Check(types.PlacementDraft{
		ID:        placeModule,
		ProductID: product.ID,
		PositionX: placeX,
		PositionY: placeY,
		WidthMm:   placeWidth,
	}, product, existing)

	out := cmd.OutOrStdout()
	switch outputFormat() {
	case "json":
		if err := writeJSON(out, res); err != nil {
			return err
		}
	case "table":
		if res.OK() {
			n := res.Normalized
			fmt.Fprintf(out, "OK: %s at x=%d y=%d width=%d mm", product.ID, n.PositionX, n.PositionY, n.WidthMm)
			if n.LockedHeightMm > 0 {
				fmt.Fprintf(out, " height=%d mm", n.LockedHeightMm)
			}
			fmt.Fprintln(out)
		} else {
			fmt.Fprintf(out, "Placement rejected (%d problems):\n", len(res.Errors))
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
	default:
		return errors.Newf(errors.TypeInput, "unsupported format %q", outputFormat())
	}

	if !res.OK() {
		return errors.New(errors.TypePlacement, strings.Join(res.Errors, "; ")).
			WithContext("collides_with", res.CollidesWith)
	}
	return nil
}
