package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoStrategy - запрос не подошёл ни под одну стратегию спина
	ErrNoStrategy = errors.New("no suitable strategy for the spin request")
	// ErrInsufficientFreeSpins - фриспин запрошен при нулевом остатке
	ErrInsufficientFreeSpins = errors.New("no free spins available for this game")
	// ErrInsufficientBalance - баланса не хватает на ставку
	ErrInsufficientBalance = errors.New("not enough balance")
	// ErrRoundNotCompleted - отменить можно только завершённый раунд
	ErrRoundNotCompleted = errors.New("only completed rounds can be cancelled")
	// ErrGameNotFound - игра с таким slug не сконфигурирована
	ErrGameNotFound = errors.New("game not found")
)

// InvalidBetError - ставка вне границ игры или не кратна шагу
type InvalidBetError struct {
	Bet  decimal.Decimal
	Min  decimal.Decimal
	Max  decimal.Decimal
	Step decimal.Decimal
}

func (e *InvalidBetError) Error() string {
	return fmt.Sprintf("invalid bet %s: must be between %s and %s with step %s",
		e.Bet, e.Min, e.Max, e.Step)
}

// IntegrityViolationError - контрольный хэш раунда не сошёлся с
// пересчитанным. Повод для расследования, но не блокирует остальные
// операции
type IntegrityViolationError struct {
	RoundID int64
	Issues  []string
}

func (e *IntegrityViolationError) Error() string {
	return fmt.Sprintf("round %d integrity violation: %s", e.RoundID, strings.Join(e.Issues, "; "))
}
