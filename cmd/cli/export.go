package main

import (
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/curations/storefront/internal/app"
	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/sources/sheet"
	"github.com/curations/storefront/internal/storage"
)

var exportName string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export both catalogs from the configured source to a workbook",
	Long: `Fetch both catalogs and write them to catalog/<name>.xlsx in storage, one
worksheet per category. The workbook can be edited and served back with the
sheet source.`,
	Example: `  storefront export
  storefront export --name snapshot-2026-10`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportName, "name", "catalog", "Workbook name")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := app.New(cfg, logger)
	if err != nil {
		return err
	}

	var mu sync.Mutex
	records := make(map[catalog.Category][]catalog.RawProductRecord, 2)

	g, ctx := errgroup.WithContext(cmd.Context())
	for _, c := range catalog.Categories() {
		g.Go(func() error {
			fetched := a.Collaborator.FetchProducts(ctx, c)
			mu.Lock()
			records[c] = fetched
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	key := storage.WorkbookKey(exportName)
	if err := sheet.Export(cmd.Context(), a.Storage, key, records); err != nil {
		return err
	}

	logger.Info().
		Str("key", key).
		Int("accessories", len(records[catalog.CategoryAccessories])).
		Int("gifts", len(records[catalog.CategoryGifts])).
		Msg("Exported catalog")
	return nil
}
