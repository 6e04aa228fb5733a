package player_repo

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
	table      = "players"
	colID      = "id"
	colName    = "name"
	colBalance = "balance"
)

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewPlayerRepository(dbc *pgxpool.Pool) repository.PlayerRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreatePlayer - создает игрока и возвращает его ID
func (r *repo) CreatePlayer(ctx context.Context, player *model.Player) (int, error) {
	query := sq.Insert(table).
		Columns(colName, colBalance).
		Values(player.Name, player.Balance).
		Suffix("RETURNING " + colID).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return 0, err
	}

	var id int
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&id)
	if err != nil {
		return 0, err
	}

	return id, nil
}

// GetPlayer - возвращает модель игрока по ID
func (r *repo) GetPlayer(ctx context.Context, id int) (*model.Player, error) {
	query := sq.Select(colID, colName, colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var player model.Player
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).
		Scan(&player.ID, &player.Name, &player.Balance)
	if err != nil {
		return nil, err
	}

	return &player, nil
}

// GetBalance - текущий баланс игрока без блокировки
func (r *repo) GetBalance(ctx context.Context, id int) (decimal.Decimal, error) {
	return r.balance(ctx, id, false)
}

// GetBalanceForUpdate - баланс игрока с блокировкой строки до конца
// транзакции. Все read-modify-write баланса идут через эту блокировку
func (r *repo) GetBalanceForUpdate(ctx context.Context, id int) (decimal.Decimal, error) {
	return r.balance(ctx, id, true)
}

func (r *repo) balance(ctx context.Context, id int, forUpdate bool) (decimal.Decimal, error) {
	query := sq.Select(colBalance).
		From(table).
		Where(sq.Eq{colID: id}).
		PlaceholderFormat(sq.Dollar)
	if forUpdate {
		query = query.Suffix("FOR UPDATE")
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return balance, nil
}

// UpdateBalance - записывает новый баланс игрока
func (r *repo) UpdateBalance(ctx context.Context, id int, balance decimal.Decimal) error {
	query := sq.Update(table).
		Set(colBalance, balance).
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
