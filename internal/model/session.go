package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

// PlaySession - игровая сессия: ограниченная серия раундов одного
// игрока в одной игре с накопительными итогами.
// Активна не более одной на пару (игрок, игра); просроченная сессия
// закрывается и заменяется новой, а не мутируется
type PlaySession struct {
	ID         int64
	PlayerID   int
	GameSlug   string
	Token      string
	TotalSpins int
	TotalBet   decimal.Decimal
	TotalWin   decimal.Decimal
	StartedAt  time.Time
	EndedAt    *time.Time
	Status     string
}
