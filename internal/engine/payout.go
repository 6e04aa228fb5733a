package engine

import (
	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

// Evaluate оценивает видимое поле: линии по активным paylines,
// скаттеры и джекпот по всему полю. Чистая функция - результат
// детерминированно выводится из аргументов.
// Округление до 2 знаков применяется один раз к итогу, а не по
// компонентам, чтобы не накапливать ошибку округления
func Evaluate(cfg *model.GameConfig, grid [][]string, bet decimal.Decimal, activePaylines []int) model.Outcome {
	out := model.Outcome{Multiplier: 1}
	total := decimal.Zero

	for _, idx := range activePaylines {
		// Устаревший индекс линии от клиента пропускаем, это не ошибка
		if idx < 0 || idx >= len(cfg.Paylines) {
			continue
		}

		line := checkPayline(cfg, grid, cfg.Paylines[idx], bet)
		if line.Payout.IsPositive() {
			line.Payline = idx
			out.WinningLines = append(out.WinningLines, line)
			total = total.Add(line.Payout)
		}
	}

	out.Scatter = EvaluateScatter(cfg, grid, bet)
	total = total.Add(out.Scatter.Payout)
	out.FreeSpinsAwarded = out.Scatter.FreeSpins

	if IsJackpot(cfg, grid) {
		out.IsJackpot = true
		total = total.Add(cfg.JackpotAmount)
	}

	out.WildPositions = WildPositions(grid, cfg.WildSymbol)
	out.TotalPayout = total.Round(2)

	return out
}

// checkPayline оценивает одну линию: слева направо считается серия
// символов, равных якорю или вайлду, до первого несовпадения.
// Якорь - первый символ линии; вайлд-якорь заменяется самым частым
// не-wild символом линии
func checkPayline(cfg *model.GameConfig, grid [][]string, payline []int, bet decimal.Decimal) model.WinningLine {
	symbols := make([]string, len(payline))
	for r, row := range payline {
		symbols[r] = grid[r][row]
	}

	line := model.WinningLine{Symbols: symbols, Payout: decimal.Zero}

	anchor := symbols[0]
	if anchor == cfg.WildSymbol {
		if sub := bestSubstitute(symbols, cfg.WildSymbol); sub != "" {
			anchor = sub
		}
	}

	count := 1
	for i := 1; i < len(symbols); i++ {
		if symbols[i] != anchor && symbols[i] != cfg.WildSymbol {
			break
		}
		count++
	}

	if count < 3 {
		return line
	}

	mult, ok := cfg.Paytable[anchor][count]
	if !ok {
		return line
	}

	line.Symbol = anchor
	line.Count = count
	line.Payout = bet.Mul(decimal.NewFromFloat(mult))

	return line
}
