package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GameConfig - конфигурация одного слота. Загружается из config.yaml
// при старте и не меняется во время игры
type GameConfig struct {
	Slug string
	Name string

	// Ленты барабанов: Reels[r] - упорядоченная последовательность символов
	Reels [][]string
	// Видимых рядов в окне
	Rows int
	// Линии выплат: Paylines[i][r] - индекс ряда на барабане r
	Paylines [][]int
	// Таблица выплат: символ -> длина серии -> множитель ставки
	Paytable map[string]map[int]float64

	MinBet  decimal.Decimal
	MaxBet  decimal.Decimal
	StepBet decimal.Decimal

	WildSymbol    string
	ScatterSymbol string
	JackpotSymbol string

	// Скаттер: точное количество -> множитель ставки / начисляемые фриспины
	ScatterPayouts   map[int]float64
	ScatterFreeSpins map[int]int

	JackpotAmount decimal.Decimal
	RTP           float64
}

// Validate проверяет согласованность конфигурации до начала игры
func (g *GameConfig) Validate() error {
	if g.Slug == "" {
		return fmt.Errorf("game config: empty slug")
	}
	if len(g.Reels) == 0 {
		return fmt.Errorf("game %q: no reels", g.Slug)
	}
	for r, strip := range g.Reels {
		if len(strip) == 0 {
			return fmt.Errorf("game %q: reel %d is empty", g.Slug, r)
		}
	}
	if g.Rows < 1 {
		return fmt.Errorf("game %q: rows must be at least 1", g.Slug)
	}

	// Каждая линия должна покрывать все барабаны и указывать на видимые ряды
	for i, line := range g.Paylines {
		if len(line) != len(g.Reels) {
			return fmt.Errorf("game %q: payline %d has %d positions, want %d", g.Slug, i, len(line), len(g.Reels))
		}
		for r, row := range line {
			if row < 0 || row >= g.Rows {
				return fmt.Errorf("game %q: payline %d reel %d points at row %d, rows=%d", g.Slug, i, r, row, g.Rows)
			}
		}
	}

	// Серия не может быть длиннее количества барабанов
	for sym, counts := range g.Paytable {
		for count := range counts {
			if count < 1 || count > len(g.Reels) {
				return fmt.Errorf("game %q: paytable %q has impossible count %d", g.Slug, sym, count)
			}
		}
	}

	if g.MinBet.IsNegative() || g.MaxBet.LessThan(g.MinBet) {
		return fmt.Errorf("game %q: invalid bet bounds %s..%s", g.Slug, g.MinBet, g.MaxBet)
	}
	if !g.StepBet.IsPositive() {
		return fmt.Errorf("game %q: step bet must be positive", g.Slug)
	}

	return nil
}
