package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/free-shipping-service/pkg/db"
)

const (
	defaultPort            = "8080"
	defaultShopDomain      = "nv-soy-candles.myshopify.com"
	defaultAPIVersion      = "2023-07"
	defaultThreshold       = "75"
	defaultDiscountCode    = "FIRSTSHIP"
	defaultLookupTimeout   = 5 * time.Second
	defaultReadTimeout     = 10 * time.Second
	defaultWriteTimeout    = 15 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 15 * time.Second
)

// OrderSource selects where order history is read from.
type OrderSource string

const (
	OrderSourceShopify  OrderSource = "shopify"
	OrderSourcePostgres OrderSource = "postgres"
)

// Config is built once at startup and passed by value afterwards.
type Config struct {
	Server      ServerConfig
	Shopify     ShopifyConfig
	Eligibility EligibilityConfig
	OrderSource OrderSource
	Postgres    db.PostgresConfig
	CORS        CORSConfig
	Telemetry   TelemetryConfig
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// ShopifyConfig holds the admin API coordinates for the single shop this service answers for.
type ShopifyConfig struct {
	ShopDomain    string
	AccessToken   string
	APIVersion    string
	LookupTimeout time.Duration
}

type EligibilityConfig struct {
	FreeShippingThreshold decimal.Decimal
	DiscountCode          string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// Load reads the process environment.
func Load() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	thresholdRaw := valueOr(getenv("FREE_SHIPPING_THRESHOLD"), defaultThreshold)
	threshold, err := decimal.NewFromString(thresholdRaw)
	if err != nil {
		return Config{}, fmt.Errorf("parse FREE_SHIPPING_THRESHOLD %q: %w", thresholdRaw, err)
	}
	if threshold.IsNegative() {
		return Config{}, fmt.Errorf("FREE_SHIPPING_THRESHOLD must not be negative, got %s", threshold)
	}

	source := OrderSource(strings.ToLower(valueOr(getenv("ORDER_SOURCE"), string(OrderSourceShopify))))
	switch source {
	case OrderSourceShopify, OrderSourcePostgres:
	default:
		return Config{}, fmt.Errorf("unsupported ORDER_SOURCE %q", source)
	}

	var pg db.PostgresConfig
	if source == OrderSourcePostgres {
		pg, err = db.LoadPostgresConfig()
		if err != nil {
			return Config{}, err
		}
	}

	return Config{
		Server: ServerConfig{
			Port:            valueOr(getenv("PORT"), defaultPort),
			ReadTimeout:     defaultReadTimeout,
			WriteTimeout:    defaultWriteTimeout,
			IdleTimeout:     defaultIdleTimeout,
			ShutdownTimeout: defaultShutdownTimeout,
		},
		Shopify: ShopifyConfig{
			ShopDomain:    strings.TrimSpace(valueOr(getenv("SHOPIFY_SHOP_DOMAIN"), defaultShopDomain)),
			AccessToken:   strings.TrimSpace(getenv("SHOPIFY_ACCESS_TOKEN")),
			APIVersion:    valueOr(getenv("SHOPIFY_API_VERSION"), defaultAPIVersion),
			LookupTimeout: defaultLookupTimeout,
		},
		Eligibility: EligibilityConfig{
			FreeShippingThreshold: threshold,
			DiscountCode:          valueOr(getenv("FREE_SHIPPING_CODE"), defaultDiscountCode),
		},
		OrderSource: source,
		Postgres:    pg,
		CORS: CORSConfig{
			AllowedOrigins: splitList(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
			ServiceName:  valueOr(getenv("OTEL_SERVICE_NAME"), "free-shipping-service"),
		},
	}, nil
}

// Configured reports whether enough settings are present to answer eligibility checks.
// The Postgres source reads a local mirror and does not need the admin credential.
func (c Config) Configured() bool {
	if c.Shopify.ShopDomain == "" {
		return false
	}
	if c.OrderSource == OrderSourcePostgres {
		return true
	}
	return c.Shopify.AccessToken != ""
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.TrimSpace(v)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
