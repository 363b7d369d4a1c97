package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "nv-soy-candles.myshopify.com", cfg.Shopify.ShopDomain)
	assert.Equal(t, "2023-07", cfg.Shopify.APIVersion)
	assert.Equal(t, 5*time.Second, cfg.Shopify.LookupTimeout)
	assert.True(t, cfg.Eligibility.FreeShippingThreshold.Equal(decimal.NewFromInt(75)))
	assert.Equal(t, "FIRSTSHIP", cfg.Eligibility.DiscountCode)
	assert.Equal(t, OrderSourceShopify, cfg.OrderSource)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Configured(), "missing access token")
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := load(envFrom(map[string]string{
		"SHOPIFY_ACCESS_TOKEN":    " shpat_123 ",
		"SHOPIFY_SHOP_DOMAIN":     "example.myshopify.com",
		"FREE_SHIPPING_THRESHOLD": "49.99",
		"FREE_SHIPPING_CODE":      "WELCOME",
		"CORS_ALLOWED_ORIGINS":    "https://a.example, https://b.example",
		"PORT":                    "9090",
	}))
	require.NoError(t, err)

	assert.Equal(t, "shpat_123", cfg.Shopify.AccessToken)
	assert.Equal(t, "example.myshopify.com", cfg.Shopify.ShopDomain)
	assert.Equal(t, "49.99", cfg.Eligibility.FreeShippingThreshold.String())
	assert.Equal(t, "WELCOME", cfg.Eligibility.DiscountCode)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Configured())
}

func TestLoadRejectsBadValues(t *testing.T) {
	testCases := map[string]map[string]string{
		"unparsable threshold": {"FREE_SHIPPING_THRESHOLD": "lots"},
		"negative threshold":   {"FREE_SHIPPING_THRESHOLD": "-1"},
		"unknown order source": {"ORDER_SOURCE": "csv"},
	}

	for name, env := range testCases {
		t.Run(name, func(t *testing.T) {
			_, err := load(envFrom(env))
			assert.Error(t, err)
		})
	}
}

func TestConfigured(t *testing.T) {
	t.Run("requires a shop domain", func(t *testing.T) {
		cfg := Config{Shopify: ShopifyConfig{AccessToken: "token"}}
		assert.False(t, cfg.Configured())
	})

	t.Run("postgres source does not need the access token", func(t *testing.T) {
		cfg := Config{
			OrderSource: OrderSourcePostgres,
			Shopify:     ShopifyConfig{ShopDomain: "example.myshopify.com"},
		}
		assert.True(t, cfg.Configured())
	})
}
