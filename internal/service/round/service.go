package round

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
	"slots_backend/internal/service"
)

type serv struct {
	roundRepo   repository.RoundRepository
	sessionRepo repository.SessionRepository
	playerRepo  repository.PlayerRepository
	txRepo      repository.TransactionRepository
	txManager   trm.Manager
	logger      *zap.Logger
	now         func() time.Time
}

func NewRoundService(
	roundRepo repository.RoundRepository,
	sessionRepo repository.SessionRepository,
	playerRepo repository.PlayerRepository,
	txRepo repository.TransactionRepository,
	txManager trm.Manager,
	logger *zap.Logger,
) service.RoundService {
	return &serv{
		roundRepo:   roundRepo,
		sessionRepo: sessionRepo,
		playerRepo:  playerRepo,
		txRepo:      txRepo,
		txManager:   txManager,
		logger:      logger,
		now:         time.Now,
	}
}

// Record сохраняет запись раунда и в той же единице работы
// увеличивает итоги сессии. Контрольный хэш связывает денежные поля
// и результат барабанов
func (s *serv) Record(ctx context.Context, detail model.RoundDetail) (*model.Round, error) {
	round := &model.Round{
		SessionID:        detail.Session.ID,
		PlayerID:         detail.PlayerID,
		GameSlug:         detail.GameSlug,
		BetAmount:        detail.Bet,
		WinAmount:        detail.Win,
		NetResult:        detail.Win.Sub(detail.Bet),
		BalanceBefore:    detail.BalanceBefore,
		BalanceAfter:     detail.BalanceAfter,
		Positions:        detail.Positions,
		ReelsResult:      detail.Board,
		PaylinesWon:      detail.Outcome.WinningLines,
		Multiplier:       detail.Outcome.Multiplier,
		IsFreeSpin:       detail.IsFreeSpin,
		FreeSpinsAwarded: detail.Outcome.FreeSpinsAwarded,
		IsJackpot:        detail.Outcome.IsJackpot,
		ReferenceID:      uuid.NewString(),
		Status:           model.RoundStatusCompleted,
		CompletedAt:      s.now(),
		ExtraData:        detail.Extra,
	}
	round.CompletionHash = CompletionHash(round)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		id, err := s.roundRepo.CreateRound(ctx, round)
		if err != nil {
			return err
		}
		round.ID = id

		return s.sessionRepo.AddTotals(ctx, round.SessionID, 1, round.BetAmount, round.WinAmount)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("game round recorded",
		zap.Int64("round_id", round.ID),
		zap.Int64("session_id", round.SessionID),
		zap.Int("player_id", round.PlayerID),
		zap.String("bet", round.BetAmount.StringFixed(2)),
		zap.String("win", round.WinAmount.StringFixed(2)))

	return round, nil
}

// Cancel отменяет успешно завершённый раунд: возвращает на баланс
// ставку минус выигрыш, переводит раунд в cancelled, пишет причину
// в extra_data и уменьшает итоги сессии. Единственный санкционированный
// способ откатить зафиксированный спин - явный и попадающий в аудит
func (s *serv) Cancel(ctx context.Context, roundID int64, reason string) error {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		round, err := s.roundRepo.GetRound(ctx, roundID)
		if err != nil {
			return err
		}

		if round.Status != model.RoundStatusCompleted {
			return model.ErrRoundNotCompleted
		}

		// Испорченный раунд не отменяем - сначала расследование
		if issues := VerifyRound(round); len(issues) > 0 {
			return &model.IntegrityViolationError{RoundID: roundID, Issues: issues}
		}

		balance, err := s.playerRepo.GetBalanceForUpdate(ctx, round.PlayerID)
		if err != nil {
			return err
		}

		// Отмена возвращает ровно чистый эффект раунда
		adjustment := round.BetAmount.Sub(round.WinAmount)
		restored := balance.Add(adjustment)

		_, err = s.txRepo.CreateTransaction(ctx, &model.Transaction{
			PlayerID:      round.PlayerID,
			SessionID:     &round.SessionID,
			Type:          model.TxTypeRefund,
			Amount:        adjustment,
			BalanceBefore: balance,
			BalanceAfter:  restored,
			ReferenceID:   "refund_" + uuid.NewString(),
			Description:   "round cancellation",
			Metadata:      map[string]any{"round_reference": round.ReferenceID},
			Status:        model.TxStatusCompleted,
		})
		if err != nil {
			return err
		}

		if err := s.playerRepo.UpdateBalance(ctx, round.PlayerID, restored); err != nil {
			return err
		}

		extra := make(map[string]any, len(round.ExtraData)+3)
		for k, v := range round.ExtraData {
			extra[k] = v
		}
		extra["cancellation_reason"] = reason
		extra["cancelled_at"] = s.now().Format(time.RFC3339)
		extra["original_balance_after"] = round.BalanceAfter.StringFixed(2)

		if err := s.roundRepo.MarkCancelled(ctx, roundID, extra); err != nil {
			return err
		}

		return s.sessionRepo.SubtractTotals(ctx, round.SessionID, 1, round.BetAmount, round.WinAmount)
	})
	if err != nil {
		return err
	}

	s.logger.Warn("game round cancelled",
		zap.Int64("round_id", roundID),
		zap.String("reason", reason))

	return nil
}

// VerifyIntegrity пересчитывает контрольный хэш раунда и проверяет
// структурную корректность сумм. Возвращает список найденных проблем
func (s *serv) VerifyIntegrity(ctx context.Context, roundID int64) ([]string, error) {
	round, err := s.roundRepo.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}

	return VerifyRound(round), nil
}

func (s *serv) ListByPlayer(ctx context.Context, playerID int, limit int) ([]model.Round, error) {
	return s.roundRepo.ListByPlayer(ctx, playerID, limit)
}

// PurgeAged - политика хранения: удаляет раунды старше olderThan,
// кроме оспоренных
func (s *serv) PurgeAged(ctx context.Context, olderThan time.Duration) (int64, error) {
	purged, err := s.roundRepo.PurgeAged(ctx, s.now().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	if purged > 0 {
		s.logger.Info("aged rounds purged", zap.Int64("count", purged))
	}

	return purged, nil
}

// hashPayload - канонический кортеж для контрольного хэша.
// Денежные поля в фиксированном формате с 2 знаками, чтобы хэш не
// зависел от представления
type hashPayload struct {
	Player        int        `json:"player"`
	Session       int64      `json:"session"`
	Bet           string     `json:"bet"`
	Win           string     `json:"win"`
	BalanceBefore string     `json:"balance_before"`
	BalanceAfter  string     `json:"balance_after"`
	Reels         [][]string `json:"reels"`
}

// CompletionHash считает SHA-256 над каноническим кортежем раунда.
// Хэш без ключа: ловит случайную порчу и ручные правки, но не
// защищает от стороны с правом записи
func CompletionHash(r *model.Round) string {
	payload, err := json.Marshal(hashPayload{
		Player:        r.PlayerID,
		Session:       r.SessionID,
		Bet:           r.BetAmount.StringFixed(2),
		Win:           r.WinAmount.StringFixed(2),
		BalanceBefore: r.BalanceBefore.StringFixed(2),
		BalanceAfter:  r.BalanceAfter.StringFixed(2),
		Reels:         r.ReelsResult,
	})
	if err != nil {
		// Кортеж из простых типов не может не сериализоваться
		panic("round: completion hash payload: " + err.Error())
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// VerifyRound - чистая проверка одного раунда
func VerifyRound(r *model.Round) []string {
	var issues []string

	if CompletionHash(r) != r.CompletionHash {
		issues = append(issues, "completion hash mismatch")
	}
	if r.BetAmount.IsNegative() {
		issues = append(issues, "negative bet amount")
	}
	if r.WinAmount.IsNegative() {
		issues = append(issues, "negative win amount")
	}
	if !r.NetResult.Equal(r.WinAmount.Sub(r.BetAmount)) {
		issues = append(issues, "net result does not match win minus bet")
	}

	return issues
}
