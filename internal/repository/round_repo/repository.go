package round_repo

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
)

const (
	table               = "game_rounds"
	colID               = "id"
	colSessionID        = "session_id"
	colPlayerID         = "player_id"
	colGameSlug         = "game_slug"
	colBetAmount        = "bet_amount"
	colWinAmount        = "win_amount"
	colNetResult        = "net_result"
	colBalanceBefore    = "balance_before"
	colBalanceAfter     = "balance_after"
	colPositions        = "reel_positions"
	colReelsResult      = "reels_result"
	colPaylinesWon      = "paylines_won"
	colMultiplier       = "multiplier"
	colIsFreeSpin       = "is_free_spin"
	colFreeSpinsAwarded = "free_spins_awarded"
	colIsJackpot        = "is_jackpot"
	colReferenceID      = "reference_id"
	colStatus           = "status"
	colCompletedAt      = "completed_at"
	colCompletionHash   = "completion_hash"
	colExtraData        = "extra_data"
)

var allColumns = []string{
	colID, colSessionID, colPlayerID, colGameSlug,
	colBetAmount, colWinAmount, colNetResult,
	colBalanceBefore, colBalanceAfter,
	colPositions, colReelsResult, colPaylinesWon, colMultiplier,
	colIsFreeSpin, colFreeSpinsAwarded, colIsJackpot,
	colReferenceID, colStatus, colCompletedAt, colCompletionHash, colExtraData,
}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewRoundRepository(dbc *pgxpool.Pool) repository.RoundRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateRound - сохраняет запись раунда, возвращает её ID
func (r *repo) CreateRound(ctx context.Context, round *model.Round) (int64, error) {
	positions, err := json.Marshal(round.Positions)
	if err != nil {
		return 0, err
	}
	reels, err := json.Marshal(round.ReelsResult)
	if err != nil {
		return 0, err
	}
	paylines, err := json.Marshal(round.PaylinesWon)
	if err != nil {
		return 0, err
	}
	extra, err := json.Marshal(round.ExtraData)
	if err != nil {
		return 0, err
	}

	query := sq.Insert(table).
		Columns(colSessionID, colPlayerID, colGameSlug,
			colBetAmount, colWinAmount, colNetResult,
			colBalanceBefore, colBalanceAfter,
			colPositions, colReelsResult, colPaylinesWon, colMultiplier,
			colIsFreeSpin, colFreeSpinsAwarded, colIsJackpot,
			colReferenceID, colStatus, colCompletedAt, colCompletionHash, colExtraData).
		Values(round.SessionID, round.PlayerID, round.GameSlug,
			round.BetAmount, round.WinAmount, round.NetResult,
			round.BalanceBefore, round.BalanceAfter,
			positions, reels, paylines, round.Multiplier,
			round.IsFreeSpin, round.FreeSpinsAwarded, round.IsJackpot,
			round.ReferenceID, round.Status, round.CompletedAt, round.CompletionHash, extra).
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

// GetRound - раунд по ID
func (r *repo) GetRound(ctx context.Context, id int64) (*model.Round, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanRound(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
}

// ListByPlayer - раунды игрока, новые первыми
func (r *repo) ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Round, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colPlayerID: playerID}).
		OrderBy(colCompletedAt + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	return r.list(ctx, query)
}

// ListBySession - раунды сессии в порядке завершения
func (r *repo) ListBySession(ctx context.Context, sessionID int64) ([]model.Round, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		OrderBy(colCompletedAt + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.list(ctx, query)
}

// MarkCancelled - переводит раунд в cancelled и записывает аннотацию
// отмены в extra_data. Остальные поля раунда не трогаются
func (r *repo) MarkCancelled(ctx context.Context, id int64, extra map[string]any) error {
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return err
	}

	query := sq.Update(table).
		Set(colStatus, model.RoundStatusCancelled).
		Set(colExtraData, extraJSON).
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

// PurgeAged - удаляет раунды старше before, кроме оспоренных.
// Возвращает количество удалённых записей
func (r *repo) PurgeAged(ctx context.Context, before time.Time) (int64, error) {
	query := sq.Delete(table).
		Where(sq.Lt{colCompletedAt: before}).
		Where(sq.NotEq{colStatus: model.RoundStatusDisputed}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected(), nil
}

func (r *repo) list(ctx context.Context, query sq.SelectBuilder) ([]model.Round, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rounds []model.Round
	for rows.Next() {
		round, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		rounds = append(rounds, *round)
	}

	return rounds, rows.Err()
}

func scanRound(row pgx.Row) (*model.Round, error) {
	var (
		round     model.Round
		positions []byte
		reels     []byte
		paylines  []byte
		extra     []byte
	)
	err := row.Scan(
		&round.ID, &round.SessionID, &round.PlayerID, &round.GameSlug,
		&round.BetAmount, &round.WinAmount, &round.NetResult,
		&round.BalanceBefore, &round.BalanceAfter,
		&positions, &reels, &paylines, &round.Multiplier,
		&round.IsFreeSpin, &round.FreeSpinsAwarded, &round.IsJackpot,
		&round.ReferenceID, &round.Status, &round.CompletedAt,
		&round.CompletionHash, &extra,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(positions, &round.Positions); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(reels, &round.ReelsResult); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(paylines, &round.PaylinesWon); err != nil {
		return nil, err
	}
	if len(extra) > 0 {
		if err := json.Unmarshal(extra, &round.ExtraData); err != nil {
			return nil, err
		}
	}

	return &round, nil
}
