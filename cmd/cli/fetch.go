package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/curations/storefront/internal/app"
	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/sources"
	"github.com/curations/storefront/internal/sources/api"
)

var (
	fetchOutput string
	fetchFilter string
	fetchBulk   bool
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <category|all>",
	Short: "Fetch and normalize a catalog from the configured source",
	Long: `Fetch one category (or both) from the configured source, normalize the records
and print the products the storefront would show. Fetch failures are logged and
produce an empty catalog, exactly as on the site.

Output can be formatted as a human-readable table (default) or JSON.`,
	Example: `  storefront fetch gifts
  storefront fetch accessories --filter featured
  storefront fetch all --output json
  storefront fetch all --bulk`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchOutput, "output", "table", "Output format: table or json")
	fetchCmd.Flags().StringVar(&fetchFilter, "filter", catalog.FilterAll, "Filter id applied to each category")
	fetchCmd.Flags().BoolVar(&fetchBulk, "bulk", false, "With the api source, load both categories in one request")
}

func runFetch(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	categories := catalog.Categories()
	if args[0] != "all" {
		c, err := parseCategoryArg(args[0])
		if err != nil {
			return err
		}
		categories = []catalog.Category{c}
	}

	result := make(map[catalog.Category][]catalog.Product, len(categories))
	bulk, err := bulkSource(a.Source, fetchBulk)
	if err != nil {
		return err
	}

	switch {
	case bulk != nil:
		all, err := bulk.FetchAll(cmd.Context())
		if err != nil {
			return err
		}
		for _, c := range categories {
			result[c] = catalog.NormalizeBatch(all.ByCategory(c))
		}
	case len(categories) == 1:
		result[categories[0]] = catalog.NormalizeBatch(a.Collaborator.FetchProducts(cmd.Context(), categories[0]))
	default:
		a.Store.Load(cmd.Context())
		for _, c := range categories {
			result[c] = a.Store.Products(c)
		}
	}

	registry := a.Store.Registry()
	for _, c := range categories {
		result[c] = registry.Apply(c, fetchFilter, result[c])
		logger.Info().Str("category", c.String()).Str("source", a.Source.Name()).Msgf("Found %d products", len(result[c]))
	}

	switch strings.ToLower(fetchOutput) {
	case "json":
		return outputFetchJSON(os.Stdout, categories, result)
	case "table":
		outputFetchTable(os.Stdout, categories, result)
		return nil
	default:
		return fmt.Errorf("invalid output format: %s (use 'table' or 'json')", fetchOutput)
	}
}

// bulkSource returns the REST source when --bulk was requested; other sources have no bulk endpoint
func bulkSource(src sources.Source, bulk bool) (*api.Source, error) {
	if !bulk {
		return nil, nil
	}
	rest, ok := src.(*api.Source)
	if !ok {
		return nil, fmt.Errorf("--bulk needs the %s source, configured source is %s", api.SourceName, src.Name())
	}
	return rest, nil
}

func outputFetchTable(out io.Writer, categories []catalog.Category, result map[catalog.Category][]catalog.Product) {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tID\tNAME\tPRICE\tWAS\tBADGE\tSTOCK")
	fmt.Fprintln(w, "--------\t--\t----\t-----\t---\t-----\t-----")

	for _, c := range categories {
		if len(result[c]) == 0 {
			fmt.Fprintf(w, "%s\t-\t(no products)\t\t\t\t\n", c)
			continue
		}
		for _, p := range result[c] {
			badge := "-"
			if p.HasBadge() {
				badge = *p.Badge
			}
			was := "-"
			if p.HasDiscount() {
				was = p.StrikePrice()
			}
			stock := "yes"
			if !p.InStock() {
				stock = "no"
			} else if p.AvailableQuantity != nil {
				stock = fmt.Sprintf("%d", *p.AvailableQuantity)
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n", c, p.ID, p.Name, p.EffectivePrice(), was, badge, stock)
		}
	}

	w.Flush()
}

func outputFetchJSON(out io.Writer, categories []catalog.Category, result map[catalog.Category][]catalog.Product) error {
	payload := make(map[string][]catalog.Product, len(categories))
	for _, c := range categories {
		payload[c.String()] = result[c]
	}
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
