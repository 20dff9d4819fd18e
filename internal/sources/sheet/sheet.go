// Package sheet reads and writes catalogs kept in a spreadsheet workbook,
// one worksheet per category with a header row naming the columns.
package sheet

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/storage"
)

// SourceName identifies this source in logs and metrics
const SourceName = "sheet"

// ContentType of exported workbooks
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Column names, in export order
const (
	ColumnTitle             = "title"
	ColumnDescription       = "description"
	ColumnPrice             = "price"
	ColumnOriginalPrice     = "original_price"
	ColumnOfferPrice        = "offer_price"
	ColumnImageURL          = "image_url"
	ColumnBadge             = "badge"
	ColumnSubcategory       = "subcategory"
	ColumnAvailableQuantity = "available_quantity"
)

// Columns is the header written by Export
var Columns = []string{
	ColumnTitle,
	ColumnDescription,
	ColumnPrice,
	ColumnOriginalPrice,
	ColumnOfferPrice,
	ColumnImageURL,
	ColumnBadge,
	ColumnSubcategory,
	ColumnAvailableQuantity,
}

// Source reads a workbook from storage
type Source struct {
	store storage.Storage
	key   string
}

// New creates a sheet source reading key from store
func New(store storage.Storage, key string) *Source {
	return &Source{store: store, key: key}
}

// Name implements sources.Source
func (s *Source) Name() string {
	return SourceName
}

// Key returns the storage key of the workbook
func (s *Source) Key() string {
	return s.key
}

// Fetch reads the worksheet named after category.
// Keys ending in .csv are read as a single table with a category column.
func (s *Source) Fetch(ctx context.Context, category catalog.Category) ([]catalog.RawProductRecord, error) {
	content, err := s.store.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	if strings.EqualFold(path.Ext(s.key), ".csv") {
		return ParseCSV(content, category)
	}
	return Parse(content, category)
}

// Parse extracts one category's records from workbook bytes
func Parse(content []byte, category catalog.Category) ([]catalog.RawProductRecord, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}
	defer f.Close()

	sheetName, err := selectSheet(f, category)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheetName, err)
	}

	return parseRows(rows, fmt.Sprintf("worksheet %q", sheetName), nil)
}

// parseRows maps a header row plus data rows onto records.
// keep, when set, decides per row whether it belongs to the requested catalog.
func parseRows(rows [][]string, where string, keep func(cell func(string) string) bool) ([]catalog.RawProductRecord, error) {
	records := []catalog.RawProductRecord{}
	if len(rows) == 0 {
		return records, nil
	}

	indices := make(map[string]int, len(rows[0]))
	for i, cell := range rows[0] {
		if key := headerKey(cell); key != "" {
			if _, seen := indices[key]; !seen {
				indices[key] = i
			}
		}
	}
	if _, ok := indices[headerKey(ColumnTitle)]; !ok {
		return nil, fmt.Errorf("%s has no %s column", where, ColumnTitle)
	}

	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		cell := func(column string) string {
			i, ok := indices[headerKey(column)]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		if keep != nil && !keep(cell) {
			continue
		}

		records = append(records, catalog.RawProductRecord{
			Title:             optional(cell(ColumnTitle)),
			Description:       optional(cell(ColumnDescription)),
			Price:             scalar(cell(ColumnPrice)),
			OriginalPrice:     scalar(cell(ColumnOriginalPrice)),
			OfferPrice:        scalar(cell(ColumnOfferPrice)),
			ImageURL:          optional(cell(ColumnImageURL)),
			Badge:             optional(cell(ColumnBadge)),
			Subcategory:       optional(cell(ColumnSubcategory)),
			AvailableQuantity: catalog.ParseQuantity(cell(ColumnAvailableQuantity)),
		})
	}
	return records, nil
}

// Export writes one worksheet per category and stores the workbook at key
func Export(ctx context.Context, store storage.Storage, key string, catalogs map[catalog.Category][]catalog.RawProductRecord) error {
	content, err := Build(catalogs)
	if err != nil {
		return err
	}
	meta := &storage.Metadata{
		ContentType: ContentType,
		Source:      SourceName,
		GeneratedAt: time.Now().UTC(),
	}
	if err := store.Put(ctx, key, content, meta); err != nil {
		return fmt.Errorf("store workbook: %w", err)
	}
	return nil
}

// Build renders catalogs into workbook bytes. Every category gets a sheet, even if empty.
func Build(catalogs map[catalog.Category][]catalog.RawProductRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, category := range catalog.Categories() {
		name := category.String()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}

		if err := f.SetSheetRow(name, "A1", &header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
		if err := f.SetCellStyle(name, "A1", last, bold); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}

		for r, rec := range catalogs[category] {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			values := []any{
				deref(rec.Title),
				deref(rec.Description),
				rec.Price.String(),
				rec.OriginalPrice.String(),
				rec.OfferPrice.String(),
				deref(rec.ImageURL),
				deref(rec.Badge),
				deref(rec.Subcategory),
				"",
			}
			if rec.AvailableQuantity != nil {
				values[len(values)-1] = *rec.AvailableQuantity
			}
			if err := f.SetSheetRow(name, cell, &values); err != nil {
				return nil, fmt.Errorf("failed to write row %d of %s: %w", r+2, name, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func selectSheet(f *excelize.File, category catalog.Category) (string, error) {
	sheetList := f.GetSheetList()
	for _, name := range sheetList {
		if strings.EqualFold(strings.TrimSpace(name), category.String()) {
			return name, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found. Available sheets: %s", category, strings.Join(sheetList, ", "))
}

// headerKey folds "Image URL", "image_url" and "imageUrl" onto the same key
func headerKey(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func scalar(s string) catalog.Scalar {
	if s == "" {
		return catalog.Scalar{}
	}
	return catalog.ScalarOf(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
