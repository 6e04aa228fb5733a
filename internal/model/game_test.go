package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func validConfig() *GameConfig {
	strip := []string{"A", "B", "C"}
	return &GameConfig{
		Slug:     "valid",
		Rows:     3,
		Reels:    [][]string{strip, strip, strip},
		Paylines: [][]int{{0, 1, 2}},
		Paytable: map[string]map[int]float64{"A": {3: 10}},
		MinBet:   decimal.RequireFromString("0.10"),
		MaxBet:   decimal.RequireFromString("10"),
		StepBet:  decimal.RequireFromString("0.10"),
	}
}

func TestGameConfigValidate(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name  string
		mutate func(*GameConfig)
	}{
		{"empty slug", func(g *GameConfig) { g.Slug = "" }},
		{"no reels", func(g *GameConfig) { g.Reels = nil }},
		{"empty strip", func(g *GameConfig) { g.Reels[1] = nil }},
		{"zero rows", func(g *GameConfig) { g.Rows = 0 }},
		{"short payline", func(g *GameConfig) { g.Paylines = [][]int{{0, 1}} }},
		{"row out of window", func(g *GameConfig) { g.Paylines = [][]int{{0, 1, 3}} }},
		{"impossible paytable count", func(g *GameConfig) { g.Paytable["A"][4] = 100 }},
		{"max below min", func(g *GameConfig) { g.MaxBet = decimal.RequireFromString("0.05") }},
		{"zero step", func(g *GameConfig) { g.StepBet = decimal.Zero }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("broken config accepted")
			}
		})
	}
}
