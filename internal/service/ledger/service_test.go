package ledger

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/model"
)

type txKey struct{}

// fakeTxManager имитирует поведение trm: вложенный Do присоединяется
// к уже открытой "транзакции", внешний - сериализуется мьютексом
type fakeTxManager struct {
	mu sync.Mutex
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}

func (m *fakeTxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

type fakePlayerRepo struct {
	mu       sync.Mutex
	balances map[int]decimal.Decimal
	failGet  bool
}

func (r *fakePlayerRepo) CreatePlayer(_ context.Context, _ *model.Player) (int, error) {
	return 0, errors.New("not implemented")
}

func (r *fakePlayerRepo) GetPlayer(_ context.Context, _ int) (*model.Player, error) {
	return nil, errors.New("not implemented")
}

func (r *fakePlayerRepo) GetBalance(_ context.Context, id int) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[id], nil
}

func (r *fakePlayerRepo) GetBalanceForUpdate(ctx context.Context, id int) (decimal.Decimal, error) {
	if r.failGet {
		return decimal.Zero, errors.New("db gone")
	}
	return r.GetBalance(ctx, id)
}

func (r *fakePlayerRepo) UpdateBalance(_ context.Context, id int, balance decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.balances[id] = balance
	return nil
}

type fakeTxRepo struct {
	mu  sync.Mutex
	txs []model.Transaction
}

func (r *fakeTxRepo) CreateTransaction(_ context.Context, tx *model.Transaction) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txs = append(r.txs, *tx)
	return int64(len(r.txs)), nil
}

func (r *fakeTxRepo) GetByReference(_ context.Context, referenceID string) (*model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tx := range r.txs {
		if tx.ReferenceID == referenceID {
			copied := tx
			return &copied, nil
		}
	}
	return nil, errors.New("transaction not found")
}

func (r *fakeTxRepo) ListByPlayer(_ context.Context, playerID int, _ int) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, tx := range r.txs {
		if tx.PlayerID == playerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeTxRepo) ListBySession(_ context.Context, sessionID int64) ([]model.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Transaction
	for _, tx := range r.txs {
		if tx.SessionID != nil && *tx.SessionID == sessionID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSettleBalanceIdentity(t *testing.T) {
	players := &fakePlayerRepo{balances: map[int]decimal.Decimal{1: dec("100.00")}}
	txs := &fakeTxRepo{}
	serv := NewLedgerService(players, txs, &fakeTxManager{}, zap.NewNop())

	got, err := serv.Settle(context.Background(), 1, 7, dec("10.00"), dec("4.00"))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	// newBalance = before - bet + win
	if !got.Equal(dec("94.00")) {
		t.Fatalf("balance = %s, want 94.00", got)
	}
	if !players.balances[1].Equal(dec("94.00")) {
		t.Fatalf("stored balance = %s, want 94.00", players.balances[1])
	}

	if len(txs.txs) != 2 {
		t.Fatalf("transactions = %d, want 2", len(txs.txs))
	}
	betTx, winTx := txs.txs[0], txs.txs[1]
	if betTx.Type != model.TxTypeBet || !betTx.BalanceBefore.Equal(dec("100.00")) || !betTx.BalanceAfter.Equal(dec("90.00")) {
		t.Fatalf("bet transaction: %+v", betTx)
	}
	if winTx.Type != model.TxTypeWin || !winTx.BalanceBefore.Equal(dec("90.00")) || !winTx.BalanceAfter.Equal(dec("94.00")) {
		t.Fatalf("win transaction: %+v", winTx)
	}
	if !strings.HasPrefix(betTx.ReferenceID, "bet_") || !strings.HasPrefix(winTx.ReferenceID, "win_") {
		t.Fatalf("reference ids: %q, %q", betTx.ReferenceID, winTx.ReferenceID)
	}
}

func TestSettleZeroBetRecordsOnlyWin(t *testing.T) {
	players := &fakePlayerRepo{balances: map[int]decimal.Decimal{1: dec("50.00")}}
	txs := &fakeTxRepo{}
	serv := NewLedgerService(players, txs, &fakeTxManager{}, zap.NewNop())

	got, err := serv.Settle(context.Background(), 1, 7, decimal.Zero, dec("3.00"))
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if !got.Equal(dec("53.00")) {
		t.Fatalf("balance = %s, want 53.00", got)
	}
	if len(txs.txs) != 1 || txs.txs[0].Type != model.TxTypeWin {
		t.Fatalf("transactions: %+v", txs.txs)
	}
}

func TestSettleLossOnlyRecordsOnlyBet(t *testing.T) {
	players := &fakePlayerRepo{balances: map[int]decimal.Decimal{1: dec("50.00")}}
	txs := &fakeTxRepo{}
	serv := NewLedgerService(players, txs, &fakeTxManager{}, zap.NewNop())

	got, err := serv.Settle(context.Background(), 1, 7, dec("5.00"), decimal.Zero)
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if !got.Equal(dec("45.00")) {
		t.Fatalf("balance = %s, want 45.00", got)
	}
	if len(txs.txs) != 1 || txs.txs[0].Type != model.TxTypeBet {
		t.Fatalf("transactions: %+v", txs.txs)
	}
}

func TestSettleWrapsRepositoryError(t *testing.T) {
	players := &fakePlayerRepo{balances: map[int]decimal.Decimal{}, failGet: true}
	serv := NewLedgerService(players, &fakeTxRepo{}, &fakeTxManager{}, zap.NewNop())

	_, err := serv.Settle(context.Background(), 1, 7, dec("1.00"), decimal.Zero)
	if err == nil || !strings.Contains(err.Error(), "settlement failed") {
		t.Fatalf("err = %v, want settlement failed wrapper", err)
	}
}

func TestDeposit(t *testing.T) {
	players := &fakePlayerRepo{balances: map[int]decimal.Decimal{1: dec("10.00")}}
	txs := &fakeTxRepo{}
	serv := NewLedgerService(players, txs, &fakeTxManager{}, zap.NewNop())

	got, err := serv.Deposit(context.Background(), 1, dec("25.00"))
	if err != nil {
		t.Fatalf("Deposit: %v", err)
	}
	if !got.Equal(dec("35.00")) {
		t.Fatalf("balance = %s, want 35.00", got)
	}
	if len(txs.txs) != 1 || txs.txs[0].Type != model.TxTypeDeposit {
		t.Fatalf("transactions: %+v", txs.txs)
	}

	if _, err := serv.Deposit(context.Background(), 1, dec("-5")); err == nil {
		t.Fatal("negative deposit accepted")
	}
	if _, err := serv.Deposit(context.Background(), 1, decimal.Zero); err == nil {
		t.Fatal("zero deposit accepted")
	}
}
