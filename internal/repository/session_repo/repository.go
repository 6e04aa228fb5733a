package session_repo

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
)

const (
	table         = "play_sessions"
	colID         = "id"
	colPlayerID   = "player_id"
	colGameSlug   = "game_slug"
	colToken      = "session_token"
	colTotalSpins = "total_spins"
	colTotalBet   = "total_bet"
	colTotalWin   = "total_win"
	colStartedAt  = "started_at"
	colEndedAt    = "ended_at"
	colStatus     = "status"
)

var allColumns = []string{
	colID, colPlayerID, colGameSlug, colToken,
	colTotalSpins, colTotalBet, colTotalWin,
	colStartedAt, colEndedAt, colStatus,
}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewSessionRepository(dbc *pgxpool.Pool) repository.SessionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// GetActiveSession - активная сессия пары (игрок, игра).
// Возвращает nil без ошибки, если такой нет
func (r *repo) GetActiveSession(ctx context.Context, playerID int, gameSlug string) (*model.PlaySession, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colPlayerID: playerID, colGameSlug: gameSlug, colStatus: model.SessionStatusActive}).
		OrderBy(colStartedAt + " DESC").
		Limit(1).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	session, err := r.scanSession(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return session, nil
}

// GetSession - сессия по ID
func (r *repo) GetSession(ctx context.Context, id int64) (*model.PlaySession, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanSession(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
}

// CreateSession - создает сессию, возвращает её ID
func (r *repo) CreateSession(ctx context.Context, session *model.PlaySession) (int64, error) {
	query := sq.Insert(table).
		Columns(colPlayerID, colGameSlug, colToken, colTotalSpins, colTotalBet, colTotalWin, colStartedAt, colStatus).
		Values(session.PlayerID, session.GameSlug, session.Token,
			session.TotalSpins, session.TotalBet, session.TotalWin,
			session.StartedAt, session.Status).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// CloseSession - переводит сессию в closed и ставит время окончания
func (r *repo) CloseSession(ctx context.Context, id int64, endedAt time.Time) error {
	query := sq.Update(table).
		Set(colStatus, model.SessionStatusClosed).
		Set(colEndedAt, endedAt).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// AddTotals - увеличивает накопительные итоги сессии
func (r *repo) AddTotals(ctx context.Context, id int64, spins int, bet, win decimal.Decimal) error {
	query := sq.Update(table).
		Set(colTotalSpins, sq.Expr(colTotalSpins+" + ?", spins)).
		Set(colTotalBet, sq.Expr(colTotalBet+" + ?", bet)).
		Set(colTotalWin, sq.Expr(colTotalWin+" + ?", win)).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

// SubtractTotals - уменьшает итоги сессии с полом в ноль
// (используется при отмене раунда)
func (r *repo) SubtractTotals(ctx context.Context, id int64, spins int, bet, win decimal.Decimal) error {
	query := sq.Update(table).
		Set(colTotalSpins, sq.Expr("GREATEST("+colTotalSpins+" - ?, 0)", spins)).
		Set(colTotalBet, sq.Expr("GREATEST("+colTotalBet+" - ?, 0)", bet)).
		Set(colTotalWin, sq.Expr("GREATEST("+colTotalWin+" - ?, 0)", win)).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *repo) scanSession(row pgx.Row) (*model.PlaySession, error) {
	var session model.PlaySession
	err := row.Scan(
		&session.ID, &session.PlayerID, &session.GameSlug, &session.Token,
		&session.TotalSpins, &session.TotalBet, &session.TotalWin,
		&session.StartedAt, &session.EndedAt, &session.Status,
	)
	if err != nil {
		return nil, err
	}
	return &session, nil
}
