package engine

import (
	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

// ValidateBet проверяет форму ставки против правил игры: границы и
// кратность шагу. Достаточность баланса здесь не проверяется - это
// делает вызывающая сторона под своей блокировкой, иначе проверка
// гонялась бы с параллельными спинами
func ValidateBet(cfg *model.GameConfig, bet decimal.Decimal) error {
	if bet.LessThan(cfg.MinBet) || bet.GreaterThan(cfg.MaxBet) {
		return &model.InvalidBetError{Bet: bet, Min: cfg.MinBet, Max: cfg.MaxBet, Step: cfg.StepBet}
	}

	if cfg.StepBet.IsPositive() && !bet.Sub(cfg.MinBet).Mod(cfg.StepBet).IsZero() {
		return &model.InvalidBetError{Bet: bet, Min: cfg.MinBet, Max: cfg.MaxBet, Step: cfg.StepBet}
	}

	return nil
}
