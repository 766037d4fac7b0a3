// Package cmd provides the CLI commands for cabinet-pricing.
package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cabinet-pricing/adapters/catalog"
	"cabinet-pricing/core/types"
	"cabinet-pricing/internal/config"
	"cabinet-pricing/internal/errors"
	"cabinet-pricing/internal/logging"
)

const version = "0.1.0"

var (
	cfgFile     string
	catalogPath string
	format      string
	verbose     bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cabinet-pricing",
	Short: "Price and place configurable kitchen cabinet modules",
	Long: `cabinet-pricing evaluates per-product pricing formulas, applies the
configured price adjustments and validates module placement on a wall.

Products, adjustment settings and wall layouts are read from an HCL catalog.

Examples:
  cabinet-pricing price base-600 --width 800
  cabinet-pricing quote base-600 --width 800 --currency VES --format json
  cabinet-pricing place base-600 --wall north --x 1200 --y 0 --width 600
  cabinet-pricing formula check "basePriceUsd + widthDeltaMm * 0.5"`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute() error {
	defer logging.Sync()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.cabinet-pricing.json)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (overrides catalog.path from config)")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	configCmd.AddCommand(configSaveCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	path := cfgFile
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying environment: %v\n", err)
		os.Exit(1)
	}
	config.Set(cfg)

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// loadCatalog reads the catalog named by --catalog or the config file
func loadCatalog() (*catalog.Catalog, error) {
	path := catalogPath
	if path == "" {
		path = config.Get().Catalog.Path
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range cat.Warnings {
		logging.Warn("catalog formula will fall back to base price",
			zap.String("catalog", cat.Source),
			zap.String("warning", w))
	}
	return cat, nil
}

func outputFormat() string {
	if format != "" {
		return format
	}
	return config.Get().Output.DefaultFormat
}

func currencyOrDefault(code string) (types.Currency, error) {
	if code == "" {
		return config.Get().Pricing.DefaultCurrency, nil
	}
	c, err := types.ParseCurrency(code)
	if err != nil {
		return "", errors.Wrap(errors.TypeInput, "invalid --currency", err)
	}
	return c, nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "cabinet-pricing version %s\n", version)
	},
}

// configCmd prints the effective configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), config.Get())
	},
}

// configSaveCmd writes the effective configuration to a file
var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the effective configuration (default is the --config path)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if len(args) > 0 {
			path = args[0]
		}
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Get().Save(path); err != nil {
			return errors.Config("save "+path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "configuration written to %s\n", path)
		return nil
	},
}
