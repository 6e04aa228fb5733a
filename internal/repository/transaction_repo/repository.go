package transaction_repo

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
)

const (
	table            = "transactions"
	colID            = "id"
	colPlayerID      = "player_id"
	colSessionID     = "session_id"
	colType          = "type"
	colAmount        = "amount"
	colBalanceBefore = "balance_before"
	colBalanceAfter  = "balance_after"
	colReferenceID   = "reference_id"
	colDescription   = "description"
	colMetadata      = "metadata"
	colStatus        = "status"
	colCreatedAt     = "created_at"
)

var allColumns = []string{
	colID, colPlayerID, colSessionID, colType, colAmount,
	colBalanceBefore, colBalanceAfter, colReferenceID,
	colDescription, colMetadata, colStatus, colCreatedAt,
}

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewTransactionRepository(dbc *pgxpool.Pool) repository.TransactionRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// CreateTransaction - добавляет запись в журнал транзакций.
// Записи только добавляются, изменения существующих не бывает
func (r *repo) CreateTransaction(ctx context.Context, tx *model.Transaction) (int64, error) {
	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return 0, err
	}

	query := sq.Insert(table).
		Columns(colPlayerID, colSessionID, colType, colAmount,
			colBalanceBefore, colBalanceAfter, colReferenceID,
			colDescription, colMetadata, colStatus).
		Values(tx.PlayerID, tx.SessionID, tx.Type, tx.Amount,
			tx.BalanceBefore, tx.BalanceAfter, tx.ReferenceID,
			tx.Description, metadata, tx.Status).
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

// GetByReference - транзакция по внешней ссылке (сверка с выпиской)
func (r *repo) GetByReference(ctx context.Context, referenceID string) (*model.Transaction, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colReferenceID: referenceID}).
		PlaceholderFormat(sq.Dollar)

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return scanTransaction(r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...))
}

// ListByPlayer - транзакции игрока, новые первыми
func (r *repo) ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Transaction, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colPlayerID: playerID}).
		OrderBy(colCreatedAt + " DESC").
		Limit(uint64(limit)).
		PlaceholderFormat(sq.Dollar)

	return r.list(ctx, query)
}

// ListBySession - транзакции сессии в порядке создания
func (r *repo) ListBySession(ctx context.Context, sessionID int64) ([]model.Transaction, error) {
	query := sq.Select(allColumns...).
		From(table).
		Where(sq.Eq{colSessionID: sessionID}).
		OrderBy(colCreatedAt + " ASC").
		PlaceholderFormat(sq.Dollar)

	return r.list(ctx, query)
}

func (r *repo) list(ctx context.Context, query sq.SelectBuilder) ([]model.Transaction, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.getter.DefaultTrOrDB(ctx, r.dbc).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, *tx)
	}

	return txs, rows.Err()
}

func scanTransaction(row pgx.Row) (*model.Transaction, error) {
	var (
		tx       model.Transaction
		metadata []byte
	)
	err := row.Scan(
		&tx.ID, &tx.PlayerID, &tx.SessionID, &tx.Type, &tx.Amount,
		&tx.BalanceBefore, &tx.BalanceAfter, &tx.ReferenceID,
		&tx.Description, &metadata, &tx.Status, &tx.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
			return nil, err
		}
	}

	return &tx, nil
}
