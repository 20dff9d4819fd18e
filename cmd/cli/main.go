package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/curations/storefront/config"
	"github.com/curations/storefront/internal/app"
	"github.com/curations/storefront/internal/catalog"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront CLI - inspect and export the curated catalogs",
	Long: `A CLI for the curated storefront. Fetches the accessories and gifts catalogs
from the configured source (REST API, CMS or spreadsheet), lists the filters each
category offers, renders static page snapshots and exports catalogs to a workbook.`,
	PersistentPreRunE: persistentPreRun,
	SilenceUsage:      true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml or ./config.yaml)")
}

// persistentPreRun loads config and the logger before each command
func persistentPreRun(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// logs go to stderr so json output stays machine readable
	logging := cfg.Logging
	if logging.Format == "" || logging.Format == "json" {
		logging.Format = "console"
	}
	logger = app.NewLogger(logging, os.Stderr)
	return nil
}

func parseCategoryArg(arg string) (catalog.Category, error) {
	c, ok := catalog.ParseCategory(arg)
	if !ok {
		return "", fmt.Errorf("invalid category: %s (use accessories or gifts)", arg)
	}
	return c, nil
}

func main() {
	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
