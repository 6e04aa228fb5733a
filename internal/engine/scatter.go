package engine

import (
	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

// EvaluateScatter считает скаттеры по всему полю независимо от линий.
// От 3 штук - выплата bet * множитель и фриспины по таблицам,
// ключ - точное количество
func EvaluateScatter(cfg *model.GameConfig, grid [][]string, bet decimal.Decimal) model.ScatterResult {
	res := model.ScatterResult{Payout: decimal.Zero}

	for r, column := range grid {
		for row, sym := range column {
			if sym == cfg.ScatterSymbol {
				res.Count++
				res.Positions = append(res.Positions, model.Position{Reel: r, Row: row})
			}
		}
	}

	if res.Count < 3 {
		return res
	}

	if mult, ok := cfg.ScatterPayouts[res.Count]; ok {
		res.Payout = bet.Mul(decimal.NewFromFloat(mult))
	}
	res.FreeSpins = cfg.ScatterFreeSpins[res.Count]

	return res
}
