package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "wss://localhost:6006", cfg.Ledger.URL)
	assert.Equal(t, 3, cfg.Ledger.ConnectRetries)
	assert.Equal(t, uint32(20), cfg.Ledger.WindowSequences)
	assert.Equal(t, "ETK", cfg.Market.BaseAsset)
	assert.Equal(t, "XRP", cfg.Market.QuoteAsset)
	assert.Equal(t, []string{"direct", "sell_offer", "buy_offer", "auto"}, cfg.Transfer.FallbackOrder)
	assert.Equal(t, 12*time.Hour, cfg.Session.TokenExpiry)
	assert.False(t, cfg.Archive.Enabled)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EDX_LEDGER_URL", "wss://ledger.example.com")
	t.Setenv("EDX_REDIS_PORT", "6380")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "wss://ledger.example.com", cfg.Ledger.URL)
	assert.Equal(t, "localhost:6380", cfg.Redis.Addr())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
ledger:
  url: wss://testnet.example.org
  window_sequences: 50
market:
  base_asset: NRG
participants:
  - address: rSolarFarmAlpha
    name: Solar Farm Alpha
    role: PRODUCER
  - address: rEcoHome
    name: Eco Conscious Home
    role: CONSUMER
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://testnet.example.org", cfg.Ledger.URL)
	assert.Equal(t, uint32(50), cfg.Ledger.WindowSequences)
	assert.Equal(t, "NRG", cfg.Market.BaseAsset)
	require.Len(t, cfg.Participants, 2)
	assert.Equal(t, "PRODUCER", cfg.Participants[0].Role)
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty ledger url", func(c *Config) { c.Ledger.URL = "" }},
		{"same assets", func(c *Config) { c.Market.QuoteAsset = c.Market.BaseAsset }},
		{"zero window", func(c *Config) { c.Ledger.WindowSequences = 0 }},
		{"empty fallback order", func(c *Config) { c.Transfer.FallbackOrder = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
