package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы раунда
const (
	RoundStatusCompleted = "completed"
	RoundStatusCancelled = "cancelled"
	RoundStatusDisputed  = "disputed"
)

// Round - запись одного завершённого спина: денормализованный
// снимок ставки, выигрыша, поля и балансов до/после.
// Создаётся один раз; допустим только переход completed -> cancelled
type Round struct {
	ID        int64
	SessionID int64
	PlayerID  int
	GameSlug  string

	BetAmount     decimal.Decimal
	WinAmount     decimal.Decimal
	NetResult     decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal

	Positions   []int
	ReelsResult [][]string
	PaylinesWon []WinningLine
	Multiplier  float64

	IsFreeSpin       bool
	FreeSpinsAwarded int
	IsJackpot        bool

	ReferenceID    string
	Status         string
	CompletedAt    time.Time
	CompletionHash string
	ExtraData      map[string]any
}

// RoundDetail - входные данные для записи раунда
type RoundDetail struct {
	Session       *PlaySession
	PlayerID      int
	GameSlug      string
	Bet           decimal.Decimal
	Win           decimal.Decimal
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Positions     []int
	Board         [][]string
	Outcome       Outcome
	IsFreeSpin    bool
	Extra         map[string]any
}
