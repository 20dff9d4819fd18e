package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/curations/storefront/internal/http/ratelimit"
	"github.com/curations/storefront/internal/sources"
	"github.com/curations/storefront/internal/telemetry"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig     `mapstructure:"server"`
	Logging   LoggingConfig    `mapstructure:"logging"`
	App       AppConfig        `mapstructure:"app"`
	Social    SocialConfig     `mapstructure:"social"`
	Analytics AnalyticsConfig  `mapstructure:"analytics"`
	Source    sources.Config   `mapstructure:"source"`
	Storage   StorageConfig    `mapstructure:"storage"`
	RateLimit ratelimit.Config `mapstructure:"rate_limit"`
	Telemetry telemetry.Config `mapstructure:"telemetry"`
	Catalog   CatalogConfig    `mapstructure:"catalog"`
	Internal  InternalConfig   `mapstructure:"internal"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// RequestsPerSecond and Burst limit each client IP
	RequestsPerSecond float64  `mapstructure:"requests_per_second"`
	Burst             int      `mapstructure:"burst"`
	CORSOrigins       []string `mapstructure:"cors_origins"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// AppConfig holds the storefront copy used in the document head
type AppConfig struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// SocialConfig holds the outbound contact targets
type SocialConfig struct {
	WhatsAppNumber       string `mapstructure:"whatsapp_number"`
	InstagramAccessories string `mapstructure:"instagram_accessories"`
	InstagramGifts       string `mapstructure:"instagram_gifts"`
	AccessoriesLabel     string `mapstructure:"accessories_label"`
	GiftsLabel           string `mapstructure:"gifts_label"`
	// InquiryChannel is "whatsapp" or "instagram"
	InquiryChannel string `mapstructure:"inquiry_channel"`
}

// AnalyticsConfig toggles the analytics snippet
type AnalyticsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	ScriptURL string `mapstructure:"script_url"`
	SiteID    string `mapstructure:"site_id"`
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Type     string `mapstructure:"type"`
	BasePath string `mapstructure:"base_path"`
}

// CatalogConfig holds catalog behaviour switches
type CatalogConfig struct {
	// PriceScheme is "cascade" (offer, then original, then list price) or "single"
	PriceScheme string `mapstructure:"price_scheme"`
}

// InternalConfig guards the /internal routes
type InternalConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads the configuration from file, .env, and environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Telemetry.Endpoint != "" {
		cfg.Telemetry.Enabled = true
	}

	return &cfg, nil
}

// loadEnvFile loads the first .env found; existing variables win
func loadEnvFile() error {
	for _, path := range []string{".env", "config/.env"} {
		if err := godotenv.Load(path); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no .env file found")
}

// bindEnvVars binds the deployment's unprefixed variable names
func bindEnvVars(v *viper.Viper) error {
	bindings := map[string][]string{
		"server.port":            {"PORT"},
		"server.host":            {"HOST"},
		"logging.level":          {"LOG_LEVEL"},
		"source.kind":            {"CATALOG_SOURCE"},
		"source.api_base":        {"VITE_API_BASE", "API_BASE"},
		"source.cms.project_id":  {"VITE_SANITY_PROJECT_ID", "SANITY_PROJECT_ID"},
		"source.cms.dataset":     {"VITE_SANITY_DATASET", "SANITY_DATASET"},
		"source.cms.api_version": {"VITE_SANITY_API_VERSION"},
		"source.cms.token":       {"VITE_SANITY_API_TOKEN", "SANITY_API_TOKEN"},
		"analytics.enabled":      {"VITE_ENABLE_ANALYTICS"},
		"storage.base_path":      {"STORAGE_PATH"},
		"internal.api_key":       {"INTERNAL_API_KEY"},
		"telemetry.endpoint":     {"OTEL_EXPORTER_OTLP_ENDPOINT"},
		"telemetry.service_name": {"OTEL_SERVICE_NAME"},
		"social.whatsapp_number": {"WHATSAPP_NUMBER"},
		"catalog.price_scheme":   {"PRICE_SCHEME"},
	}
	for key, envs := range bindings {
		args := append([]string{key, "STOREFRONT_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}
	return nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.requests_per_second", 10)
	v.SetDefault("server.burst", 20)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)

	v.SetDefault("app.title", "Curations by Amreen")
	v.SetDefault("app.description", "Elegant handcrafted accessories and bespoke gifts, curated by Amreen.")

	v.SetDefault("social.whatsapp_number", "917406785941")
	v.SetDefault("social.instagram_accessories", "ever_glow_accessories01")
	v.SetDefault("social.instagram_gifts", "gifts_n_crafts_hub")
	v.SetDefault("social.accessories_label", "EverGlow Accessories")
	v.SetDefault("social.gifts_label", "Gifts & Crafts Hub")
	v.SetDefault("social.inquiry_channel", "whatsapp")

	v.SetDefault("analytics.enabled", false)
	v.SetDefault("analytics.script_url", "https://plausible.io/js/script.js")

	v.SetDefault("source.kind", "api")
	v.SetDefault("source.api_base", "http://localhost:4000")
	v.SetDefault("source.cms.api_version", "2023-10-01")
	v.SetDefault("source.cms.use_cdn", true)
	v.SetDefault("source.sheet_key", "catalog/catalog.xlsx")

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.base_path", "./data")

	v.SetDefault("rate_limit.requests_per_second", 5)
	v.SetDefault("rate_limit.burst", 2)
	v.SetDefault("rate_limit.max_retries", 2)
	v.SetDefault("rate_limit.initial_backoff_ms", 100)
	v.SetDefault("rate_limit.max_backoff_ms", 5000)

	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", telemetry.DefaultServiceName)
	v.SetDefault("telemetry.insecure", true)
	v.SetDefault("telemetry.sample_ratio", 1.0)
	v.SetDefault("telemetry.export_interval", telemetry.DefaultExportInterval)

	v.SetDefault("catalog.price_scheme", "cascade")
}
