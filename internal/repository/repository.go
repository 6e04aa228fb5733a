package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
)

type PlayerRepository interface {
	CreatePlayer(ctx context.Context, player *model.Player) (id int, err error)
	GetPlayer(ctx context.Context, id int) (*model.Player, error)

	GetBalance(ctx context.Context, id int) (decimal.Decimal, error)
	// GetBalanceForUpdate блокирует строку игрока до конца транзакции
	// (SELECT ... FOR UPDATE) - граница сериализации по игроку
	GetBalanceForUpdate(ctx context.Context, id int) (decimal.Decimal, error)
	UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) error
}

type SessionRepository interface {
	// GetActiveSession возвращает nil без ошибки, если активной сессии нет
	GetActiveSession(ctx context.Context, playerID int, gameSlug string) (*model.PlaySession, error)
	GetSession(ctx context.Context, id int64) (*model.PlaySession, error)
	CreateSession(ctx context.Context, session *model.PlaySession) (id int64, err error)
	CloseSession(ctx context.Context, id int64, endedAt time.Time) error

	AddTotals(ctx context.Context, id int64, spins int, bet, win decimal.Decimal) error
	// SubtractTotals уменьшает итоги с полом в ноль
	SubtractTotals(ctx context.Context, id int64, spins int, bet, win decimal.Decimal) error
}

type TransactionRepository interface {
	CreateTransaction(ctx context.Context, tx *model.Transaction) (id int64, err error)
	GetByReference(ctx context.Context, referenceID string) (*model.Transaction, error)
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Transaction, error)
	ListBySession(ctx context.Context, sessionID int64) ([]model.Transaction, error)
}

type RoundRepository interface {
	CreateRound(ctx context.Context, round *model.Round) (id int64, err error)
	GetRound(ctx context.Context, id int64) (*model.Round, error)
	ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Round, error)
	ListBySession(ctx context.Context, sessionID int64) ([]model.Round, error)
	MarkCancelled(ctx context.Context, id int64, extra map[string]any) error
	// PurgeAged удаляет старые неоспоренные раунды (политика хранения)
	PurgeAged(ctx context.Context, before time.Time) (int64, error)
}

type FreeSpinRepository interface {
	GetFreeSpins(ctx context.Context, playerID int, gameSlug string) (count int, betValue decimal.Decimal, err error)
	GetFreeSpinsForUpdate(ctx context.Context, playerID int, gameSlug string) (count int, betValue decimal.Decimal, err error)
	AwardFreeSpins(ctx context.Context, playerID int, gameSlug string, count int, betValue decimal.Decimal) error
	// ConsumeFreeSpin списывает один фриспин; при нулевом остатке
	// возвращает model.ErrInsufficientFreeSpins
	ConsumeFreeSpin(ctx context.Context, playerID int, gameSlug string) error
}
