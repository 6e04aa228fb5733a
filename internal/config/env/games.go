package env

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"slots_backend/internal/model"
)

const (
	gamesConfigPathEnvName = "GAMES_CONFIG_PATH"
	defaultGamesConfigPath = "config.yaml"
)

// yaml-представление конфига игры. Деньги в файле - float64,
// в модель конвертируются в decimal при загрузке
type gameYAML struct {
	Slug             string                     `yaml:"slug"`
	Name             string                     `yaml:"name"`
	Reels            [][]string                 `yaml:"reels"`
	Rows             int                        `yaml:"rows"`
	Paylines         [][]int                    `yaml:"paylines"`
	Paytable         map[string]map[int]float64 `yaml:"paytable"`
	MinBet           float64                    `yaml:"min_bet"`
	MaxBet           float64                    `yaml:"max_bet"`
	StepBet          float64                    `yaml:"step_bet"`
	WildSymbol       string                     `yaml:"wild_symbol"`
	ScatterSymbol    string                     `yaml:"scatter_symbol"`
	JackpotSymbol    string                     `yaml:"jackpot_symbol"`
	ScatterPayouts   map[int]float64            `yaml:"scatter_payouts"`
	ScatterFreeSpins map[int]int                `yaml:"scatter_free_spins"`
	JackpotAmount    float64                    `yaml:"jackpot_amount"`
	RTP              float64                    `yaml:"rtp"`
}

type gamesFile struct {
	Games []gameYAML `yaml:"games"`
}

// NewGameConfigs читает конфиги игр из yaml файла и валидирует каждый
func NewGameConfigs() ([]*model.GameConfig, error) {
	path := os.Getenv(gamesConfigPathEnvName)
	if len(path) == 0 {
		path = defaultGamesConfigPath
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read games config: %w", err)
	}

	var file gamesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse games config: %w", err)
	}

	if len(file.Games) == 0 {
		return nil, fmt.Errorf("games config %s contains no games", path)
	}

	cfgs := make([]*model.GameConfig, 0, len(file.Games))
	for _, g := range file.Games {
		cfg := convertGame(g)
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("game %q: %w", g.Slug, err)
		}
		cfgs = append(cfgs, cfg)
	}

	return cfgs, nil
}

func convertGame(g gameYAML) *model.GameConfig {
	return &model.GameConfig{
		Slug:             g.Slug,
		Name:             g.Name,
		Reels:            g.Reels,
		Rows:             g.Rows,
		Paylines:         g.Paylines,
		Paytable:         g.Paytable,
		MinBet:           decimal.NewFromFloat(g.MinBet),
		MaxBet:           decimal.NewFromFloat(g.MaxBet),
		StepBet:          decimal.NewFromFloat(g.StepBet),
		WildSymbol:       g.WildSymbol,
		ScatterSymbol:    g.ScatterSymbol,
		JackpotSymbol:    g.JackpotSymbol,
		ScatterPayouts:   g.ScatterPayouts,
		ScatterFreeSpins: g.ScatterFreeSpins,
		JackpotAmount:    decimal.NewFromFloat(g.JackpotAmount),
		RTP:              g.RTP,
	}
}
