package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"

	"github.com/curations/storefront/internal/middleware"
)

type swaggerDoc struct {
	Swagger  string `json:"swagger"`
	BasePath string `json:"basePath"`
	Info     struct {
		Title   string `json:"title"`
		Version string `json:"version"`
	} `json:"info"`
	Paths map[string]map[string]struct {
		Tags     []string              `json:"tags"`
		Security []map[string][]string `json:"security"`
	} `json:"paths"`
	Definitions         map[string]json.RawMessage `json:"definitions"`
	SecurityDefinitions map[string]struct {
		Type string `json:"type"`
		Name string `json:"name"`
		In   string `json:"in"`
	} `json:"securityDefinitions"`
}

func readDoc(t *testing.T) swaggerDoc {
	t.Helper()
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc swaggerDoc
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return doc
}

func TestSwaggerInfo(t *testing.T) {
	assert.Equal(t, "Curations Storefront API", SwaggerInfo.Title)
	assert.Equal(t, "1.0", SwaggerInfo.Version)
	assert.Equal(t, "/", SwaggerInfo.BasePath)
	assert.Equal(t, "swagger", SwaggerInfo.InstanceName())
	assert.NotEmpty(t, SwaggerInfo.Description)
}

func TestRegisteredDoc(t *testing.T) {
	doc := readDoc(t)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "/", doc.BasePath)
	assert.Equal(t, SwaggerInfo.Title, doc.Info.Title)
}

func TestDocumentedRoutes(t *testing.T) {
	doc := readDoc(t)

	tests := []struct {
		path      string
		protected bool
	}{
		{"/api/catalog/{category}", false},
		{"/api/filters/{category}", false},
		{"/health", false},
		{"/internal/state", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			ops, ok := doc.Paths[tt.path]
			require.True(t, ok, "path %s is not documented", tt.path)
			get, ok := ops["get"]
			require.True(t, ok)

			if tt.protected {
				require.Len(t, get.Security, 1)
				assert.Contains(t, get.Security[0], "ApiKeyAuth")
			} else {
				assert.Empty(t, get.Security)
			}
		})
	}
}

func TestAPIKeyMatchesMiddleware(t *testing.T) {
	doc := readDoc(t)

	scheme, ok := doc.SecurityDefinitions["ApiKeyAuth"]
	require.True(t, ok)
	assert.Equal(t, "apiKey", scheme.Type)
	assert.Equal(t, "header", scheme.In)
	assert.Equal(t, middleware.APIKeyHeader, scheme.Name)
}

func TestDefinitions(t *testing.T) {
	doc := readDoc(t)

	for _, name := range []string{
		"catalog.Product",
		"handlers.CatalogResponse",
		"handlers.FiltersResponse",
		"handlers.HealthResponse",
		"handlers.StateResponse",
	} {
		assert.Contains(t, doc.Definitions, name)
	}
}
