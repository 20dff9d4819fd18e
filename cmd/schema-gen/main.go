// Schema Generator
//
// Writes JSON Schema files for the storefront's catalog payloads so the frontend
// and content tooling can validate them without reading Go. With --check it
// compares instead of writing and fails when a committed schema is stale.
//
// Usage:
//
//	go run ./cmd/schema-gen [--out schemas] [--check]
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/curations/storefront/internal/catalog"
	"github.com/curations/storefront/internal/handlers"
)

// SchemaGroup is one output file holding the definitions of related types
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

// Groups lists every generated file
var Groups = []SchemaGroup{
	{
		Name: "catalog",
		Types: []any{
			catalog.RawProductRecord{},
			catalog.Product{},
			catalog.CategoryState{},
			handlers.CatalogResponse{},
			handlers.FiltersResponse{},
		},
		Output: "catalog.json",
	},
	{
		Name: "service",
		Types: []any{
			handlers.HealthResponse{},
			handlers.StateResponse{},
		},
		Output: "service.json",
	},
}

var (
	outputDir string
	checkOnly bool
)

var rootCmd = &cobra.Command{
	Use:          "schema-gen",
	Short:        "Generate JSON Schema for the storefront API types",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&outputDir, "out", "schemas", "Output directory")
	rootCmd.Flags().BoolVar(&checkOnly, "check", false, "Fail if generated schemas differ from the files on disk")
}

func run(cmd *cobra.Command, args []string) error {
	if !checkOnly {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var stale []string
	for _, group := range Groups {
		data, err := Render(group)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", group.Output, err)
		}
		path := filepath.Join(outputDir, group.Output)

		if checkOnly {
			current, err := os.ReadFile(path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if !bytes.Equal(current, data) {
				stale = append(stale, path)
			}
			continue
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Generated %s\n", path)
	}

	if len(stale) > 0 {
		return fmt.Errorf("schemas out of date, run schema-gen: %s", strings.Join(stale, ", "))
	}
	return nil
}

// Render returns the indented schema document of group
func Render(group SchemaGroup) ([]byte, error) {
	reflector := &jsonschema.Reflector{}
	definitions := make(map[string]*jsonschema.Schema)
	for _, t := range group.Types {
		for name, def := range reflector.Reflect(t).Definitions {
			definitions[name] = def
		}
	}

	doc := map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://curations.shop/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// DefinitionNames lists the definitions of group, sorted
func DefinitionNames(group SchemaGroup) []string {
	reflector := &jsonschema.Reflector{}
	seen := make(map[string]bool)
	for _, t := range group.Types {
		for name := range reflector.Reflect(t).Definitions {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
