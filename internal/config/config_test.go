package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "acpcbench.hcl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadBackfillsDefaults(t *testing.T) {
	path := writeConfig(t, `
dealer {
  path = "/opt/acpc/dealer"
}
game {
  total_hands = 500
}
eval {
  seed = 99
}
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/acpc/dealer", cfg.Dealer.Path)
	assert.Equal(t, 500, cfg.Game.TotalHands)
	assert.Equal(t, int64(99), cfg.Eval.Seed)
	// Untouched fields come from the defaults.
	assert.Equal(t, "holdem.limit.2p.reverse_blinds.game", cfg.Dealer.GameDefPath)
	assert.Equal(t, 10, cfg.Game.SmallBet)
	assert.Equal(t, 20, cfg.Game.BigBet)
	assert.Equal(t, 18790, cfg.Dealer.PortA)
	assert.Equal(t, 18791, cfg.Dealer.PortB)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := writeConfig(t, `dealer { path = `)
	_, err := Load(path)
	require.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
dealer {
  path = "from-file"
}
game {}
eval {}
`)
	t.Setenv("ACPC_DEALER_PATH", "from-env")
	t.Setenv("ACPC_TOTAL_HANDS", "250")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Dealer.Path)
	assert.Equal(t, 250, cfg.Game.TotalHands)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"same ports", func(c *Config) { c.Dealer.PortB = c.Dealer.PortA }},
		{"negative port", func(c *Config) { c.Dealer.PortA = -1 }},
		{"zero hands", func(c *Config) { c.Game.TotalHands = 0 }},
		{"small bet over big bet", func(c *Config) { c.Game.SmallBet = 100 }},
		{"same seat names", func(c *Config) { c.Game.SeatNameB = c.Game.SeatNameA }},
		{"empty dealer path", func(c *Config) { c.Dealer.Path = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	assert.NoError(t, Default().Validate())
}

func TestMatchConfigMapping(t *testing.T) {
	cfg := Default()
	mc := cfg.MatchConfig()
	assert.Equal(t, [2]int{18790, 18791}, mc.Ports)
	assert.Equal(t, [2]string{"sbb", "opponent"}, mc.SeatNames)
	assert.Equal(t, 100, mc.TotalHands)
	assert.Equal(t, 10, mc.SmallBet)
	assert.Equal(t, 20, mc.BigBet)
}
