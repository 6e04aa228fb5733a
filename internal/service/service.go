package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

type GameService interface {
	Spin(ctx context.Context, gameSlug string, req model.SpinRequest) (*model.SpinResult, error)
	CheckData(ctx context.Context, gameSlug string) (*model.PlayerData, error)
	Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error)
}

type LedgerService interface {
	// Settle применяет ставку и выигрыш одним атомарным переходом
	// баланса и возвращает новый баланс
	Settle(ctx context.Context, playerID int, sessionID int64, bet, win decimal.Decimal) (decimal.Decimal, error)
	Deposit(ctx context.Context, playerID int, amount decimal.Decimal) (decimal.Decimal, error)
}

type RoundService interface {
	Record(ctx context.Context, detail model.RoundDetail) (*model.Round, error)
	Cancel(ctx context.Context, roundID int64, reason string) error
	VerifyIntegrity(ctx context.Context, roundID int64) ([]string, error)
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Round, error)
	PurgeAged(ctx context.Context, olderThan time.Duration) (int64, error)
}

type SessionService interface {
	GetOrCreate(ctx context.Context, playerID int, gameSlug string) (*model.PlaySession, error)
}
