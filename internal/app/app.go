// Package app wires configuration into the catalog pipeline shared by the server and the CLI.
package app

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/curations/storefront/config"
	"github.com/curations/storefront/internal/catalog"
	httpclient "github.com/curations/storefront/internal/http"
	"github.com/curations/storefront/internal/metrics"
	"github.com/curations/storefront/internal/site"
	"github.com/curations/storefront/internal/sources"
	"github.com/curations/storefront/internal/storage"
)

// FetchTimeout bounds each outbound HTTP attempt
const FetchTimeout = 15 * time.Second

// App is the assembled pipeline
type App struct {
	Config       *config.Config
	Logger       zerolog.Logger
	Storage      storage.Storage
	Source       sources.Source
	Collaborator *sources.Collaborator
	Store        *catalog.Store
	Renderer     *site.Renderer
}

// NewLogger builds the service logger
func NewLogger(cfg config.LoggingConfig, out io.Writer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if out == nil {
		out = os.Stdout
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, NoColor: cfg.NoColor}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Str("service", "storefront").Logger()
}

// New assembles storage, source, store and renderer from cfg. Nothing is fetched yet.
func New(cfg *config.Config, logger zerolog.Logger) (*App, error) {
	store, err := storage.New(cfg.Storage.Type, cfg.Storage.BasePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	client := httpclient.NewClient(cfg.RateLimit, FetchTimeout)
	source, err := sources.New(cfg.Source, client, store)
	if err != nil {
		return nil, fmt.Errorf("init source: %w", err)
	}
	collaborator := sources.NewCollaborator(source, logger)

	registry := catalog.NewRegistry(catalog.ParsePriceScheme(cfg.Catalog.PriceScheme))
	recorder := metrics.NewRecorder()
	catalogStore := catalog.NewStore(collaborator, registry, catalog.WithObserver(observer(logger, recorder)))
	for _, c := range catalog.Categories() {
		recorder.RecordCatalog(c.String(), 0, catalogStore.Loading(c))
	}

	renderer, err := site.NewRenderer(site.Options{
		Title:            cfg.App.Title,
		Description:      cfg.App.Description,
		AccessoriesLabel: cfg.Social.AccessoriesLabel,
		GiftsLabel:       cfg.Social.GiftsLabel,
		Analytics: site.Analytics{
			Enabled:   cfg.Analytics.Enabled,
			ScriptURL: cfg.Analytics.ScriptURL,
			SiteID:    cfg.Analytics.SiteID,
		},
		Links: site.NewLinks(
			cfg.Social.WhatsAppNumber,
			cfg.Social.InstagramAccessories,
			cfg.Social.InstagramGifts,
			cfg.Social.InquiryChannel,
		),
	})
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	return &App{
		Config:       cfg,
		Logger:       logger,
		Storage:      store,
		Source:       source,
		Collaborator: collaborator,
		Store:        catalogStore,
		Renderer:     renderer,
	}, nil
}

func observer(logger zerolog.Logger, recorder *metrics.Recorder) catalog.Observer {
	log := logger.With().Str("component", "catalog").Logger()
	return func(c catalog.Category, state catalog.CategoryState) {
		recorder.RecordCatalog(c.String(), len(state.Products), state.Loading)
		log.Info().Str("category", c.String()).Int("products", len(state.Products)).Msg("Category loaded")
	}
}
