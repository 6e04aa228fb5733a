package ledger

import (
	"context"
	"fmt"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
	"slots_backend/internal/service"
)

type serv struct {
	playerRepo repository.PlayerRepository
	txRepo     repository.TransactionRepository
	txManager  trm.Manager
	logger     *zap.Logger
}

func NewLedgerService(
	playerRepo repository.PlayerRepository,
	txRepo repository.TransactionRepository,
	txManager trm.Manager,
	logger *zap.Logger,
) service.LedgerService {
	return &serv{
		playerRepo: playerRepo,
		txRepo:     txRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// Settle применяет ставку и выигрыш одним переходом баланса:
// newBalance = current - bet + win. Ставка списывается до начисления
// выигрыша, и каждая транзакция фиксирует промежуточный баланс в
// своей точке последовательности. Изменение баланса и обе записи -
// одна атомарная единица: частичное применение наружу не видно
func (s *serv) Settle(ctx context.Context, playerID int, sessionID int64, bet, win decimal.Decimal) (decimal.Decimal, error) {
	var newBalance decimal.Decimal

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.playerRepo.GetBalanceForUpdate(ctx, playerID)
		if err != nil {
			return err
		}

		afterBet := current.Sub(bet)
		newBalance = afterBet.Add(win)

		if bet.IsPositive() {
			_, err = s.txRepo.CreateTransaction(ctx, &model.Transaction{
				PlayerID:      playerID,
				SessionID:     &sessionID,
				Type:          model.TxTypeBet,
				Amount:        bet,
				BalanceBefore: current,
				BalanceAfter:  afterBet,
				ReferenceID:   "bet_" + uuid.NewString(),
				Description:   "bet transaction",
				Status:        model.TxStatusCompleted,
			})
			if err != nil {
				return err
			}
		}

		if win.IsPositive() {
			_, err = s.txRepo.CreateTransaction(ctx, &model.Transaction{
				PlayerID:      playerID,
				SessionID:     &sessionID,
				Type:          model.TxTypeWin,
				Amount:        win,
				BalanceBefore: afterBet,
				BalanceAfter:  newBalance,
				ReferenceID:   "win_" + uuid.NewString(),
				Description:   "win transaction",
				Status:        model.TxStatusCompleted,
			})
			if err != nil {
				return err
			}
		}

		return s.playerRepo.UpdateBalance(ctx, playerID, newBalance)
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlement failed: %w", err)
	}

	return newBalance, nil
}

// Deposit пополняет баланс игрока. Интеграция с платёжным шлюзом
// живёт во внешнем сервисе - сюда приходит уже подтверждённая сумма
func (s *serv) Deposit(ctx context.Context, playerID int, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("deposit amount must be positive")
	}

	var newBalance decimal.Decimal

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		current, err := s.playerRepo.GetBalanceForUpdate(ctx, playerID)
		if err != nil {
			return err
		}

		newBalance = current.Add(amount)

		_, err = s.txRepo.CreateTransaction(ctx, &model.Transaction{
			PlayerID:      playerID,
			Type:          model.TxTypeDeposit,
			Amount:        amount,
			BalanceBefore: current,
			BalanceAfter:  newBalance,
			ReferenceID:   "dep_" + uuid.NewString(),
			Description:   "deposit transaction",
			Status:        model.TxStatusCompleted,
		})
		if err != nil {
			return err
		}

		return s.playerRepo.UpdateBalance(ctx, playerID, newBalance)
	})
	if err != nil {
		return decimal.Zero, err
	}

	s.logger.Info("deposit applied",
		zap.Int("player_id", playerID),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("balance", newBalance.StringFixed(2)))

	return newBalance, nil
}
