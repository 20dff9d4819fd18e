package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curations/storefront/internal/catalog"
)

var filtersCmd = &cobra.Command{
	Use:     "filters <category>",
	Short:   "List the filters offered for a category",
	Example: `  storefront filters gifts`,
	Args:    cobra.ExactArgs(1),
	RunE:    runFilters,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
}

func runFilters(cmd *cobra.Command, args []string) error {
	c, err := parseCategoryArg(args[0])
	if err != nil {
		return err
	}

	registry := catalog.NewRegistry(catalog.ParsePriceScheme(cfg.Catalog.PriceScheme))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tLABEL")
	for _, f := range registry.Filters(c) {
		fmt.Fprintf(w, "%s\t%s\n", f.ID, f.Label)
	}
	return w.Flush()
}
