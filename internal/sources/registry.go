package sources

import (
	"fmt"
	"strings"

	httpclient "github.com/curations/storefront/internal/http"
	"github.com/curations/storefront/internal/sources/api"
	"github.com/curations/storefront/internal/sources/cms"
	"github.com/curations/storefront/internal/sources/sheet"
	"github.com/curations/storefront/internal/storage"
)

// Kind selects a catalog backend
type Kind string

const (
	KindAPI   Kind = "api"
	KindCMS   Kind = "cms"
	KindSheet Kind = "sheet"
)

// Kinds lists the supported backends
func Kinds() []Kind {
	return []Kind{KindAPI, KindCMS, KindSheet}
}

// Config selects and configures the catalog backend
type Config struct {
	Kind     string     `mapstructure:"kind"`
	APIBase  string     `mapstructure:"api_base"`
	CMS      cms.Config `mapstructure:"cms"`
	SheetKey string     `mapstructure:"sheet_key"`
}

// New builds the configured Source. store is only required for the sheet backend.
func New(cfg Config, client *httpclient.Client, store storage.Storage) (Source, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(cfg.Kind))) {
	case KindAPI, "":
		return api.New(cfg.APIBase, client), nil
	case KindCMS:
		return cms.New(cfg.CMS, client), nil
	case KindSheet:
		if store == nil {
			return nil, fmt.Errorf("sheet source requires storage")
		}
		key := cfg.SheetKey
		if key == "" {
			key = storage.WorkbookKey("catalog")
		}
		return sheet.New(store, key), nil
	default:
		return nil, fmt.Errorf("no source implementation for kind: %s", cfg.Kind)
	}
}
