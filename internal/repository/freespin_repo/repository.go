package freespin_repo

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
)

const (
	table        = "free_spins"
	colPlayerID  = "player_id"
	colGameSlug  = "game_slug"
	colSpinsLeft = "spins_left"
	colBetValue  = "bet_value"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewFreeSpinRepository(dbc *pgxpool.Pool) repository.FreeSpinRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetFreeSpins - остаток фриспинов и их ставочный эквивалент.
// Возвращает нули, если записи нет
func (r *repo) GetFreeSpins(ctx context.Context, playerID int, gameSlug string) (int, decimal.Decimal, error) {
	return r.freeSpins(ctx, playerID, gameSlug, false)
}

// GetFreeSpinsForUpdate - то же с блокировкой строки до конца
// транзакции, чтобы параллельные фриспины не списали один остаток
func (r *repo) GetFreeSpinsForUpdate(ctx context.Context, playerID int, gameSlug string) (int, decimal.Decimal, error) {
	return r.freeSpins(ctx, playerID, gameSlug, true)
}

func (r *repo) freeSpins(ctx context.Context, playerID int, gameSlug string, forUpdate bool) (int, decimal.Decimal, error) {
	query := sq.Select(colSpinsLeft, colBetValue).
		From(table).
		Where(sq.Eq{colPlayerID: playerID, colGameSlug: gameSlug}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, decimal.Zero, err
	}

	var (
		count    int
		betValue decimal.Decimal
	)
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&count, &betValue)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, decimal.Zero, nil
		}
		return 0, decimal.Zero, err
	}

	return count, betValue, nil
}

// AwardFreeSpins - начисляет фриспины и запоминает их ставочный
// эквивалент. Если записи нет, создаётся новая
func (r *repo) AwardFreeSpins(ctx context.Context, playerID int, gameSlug string, count int, betValue decimal.Decimal) error {
	query := sq.Update(table).
		Set(colSpinsLeft, sq.Expr(colSpinsLeft+" + ?", count)).
		Set(colBetValue, betValue).
		Where(sq.Eq{colPlayerID: playerID, colGameSlug: gameSlug}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	db := r.getter.DefaultTrOrDB(ctx, r.dbc)
	res, err := db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	// Если записи не существует - делаем вставку
	if res.RowsAffected() == 0 {
		insertQuery := sq.Insert(table).
			Columns(colPlayerID, colGameSlug, colSpinsLeft, colBetValue).
			Values(playerID, gameSlug, count, betValue).
			PlaceholderFormat(sq.Dollar)

		sqlStr, args, err = insertQuery.ToSql()
		if err != nil {
			return err
		}

		_, err = db.Exec(ctx, sqlStr, args...)
		if err != nil {
			return err
		}
	}

	return nil
}

// ConsumeFreeSpin - списывает ровно один фриспин.
// Условие spins_left > 0 в самом запросе защищает от ухода в минус
func (r *repo) ConsumeFreeSpin(ctx context.Context, playerID int, gameSlug string) error {
	query := sq.Update(table).
		Set(colSpinsLeft, sq.Expr(colSpinsLeft+" - 1")).
		Where(sq.Eq{colPlayerID: playerID, colGameSlug: gameSlug}).
		Where(sq.Gt{colSpinsLeft: 0}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	if res.RowsAffected() == 0 {
		return model.ErrInsufficientFreeSpins
	}

	return nil
}
