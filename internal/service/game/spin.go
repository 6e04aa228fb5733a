package game

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/engine"
	"slots_backend/internal/middleware"
	"slots_backend/internal/model"
)

// Стратегии спина - закрытый набор, перебираемый в фиксированном
// порядке; срабатывает первая подошедшая
type spinStrategy int

const (
	strategyWagered spinStrategy = iota
	strategyFree
)

// selectStrategy выбирает путь исполнения по форме запроса
func selectStrategy(req model.SpinRequest) (spinStrategy, error) {
	switch {
	case req.UseFreeSpins:
		return strategyFree, nil
	case req.Bet.IsPositive():
		return strategyWagered, nil
	}
	return 0, model.ErrNoStrategy
}

// Spin выполняет один спин. Весь спин - одна транзакция: баланс,
// журнал транзакций, запись раунда и итоги сессии фиксируются вместе
// или не фиксируются вовсе. Ошибка до расчёта возвращается без
// побочных эффектов
func (s *serv) Spin(ctx context.Context, gameSlug string, req model.SpinRequest) (*model.SpinResult, error) {
	cfg, ok := s.cfgs[gameSlug]
	if !ok {
		return nil, model.ErrGameNotFound
	}

	playerID, ok := middleware.PlayerIDFromContext(ctx)
	if !ok {
		return nil, errors.New("player id not found in context")
	}

	// Пустой список линий трактуем как первую линию
	if len(req.ActivePaylines) == 0 {
		req.ActivePaylines = []int{0}
	}

	strat, err := selectStrategy(req)
	if err != nil {
		return nil, err
	}

	var res *model.SpinResult
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		switch strat {
		case strategyWagered:
			res, err = s.wageredSpin(txCtx, cfg, playerID, req)
		case strategyFree:
			res, err = s.freeSpin(txCtx, cfg, playerID, req)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("spin completed",
		zap.Int("player_id", playerID),
		zap.String("game", gameSlug),
		zap.Bool("free_spin", strat == strategyFree),
		zap.String("bet", res.BetAmount.StringFixed(2)),
		zap.String("win", res.WinAmount.StringFixed(2)),
		zap.Bool("jackpot", res.Outcome.IsJackpot))

	return res, nil
}

// wageredSpin - платный спин: валидация ставки, списание, расчёт,
// начисление выигрыша, запись раунда
func (s *serv) wageredSpin(ctx context.Context, cfg *model.GameConfig, playerID int, req model.SpinRequest) (*model.SpinResult, error) {
	if err := engine.ValidateBet(cfg, req.Bet); err != nil {
		return nil, err
	}

	// Блокировка строки игрока - граница сериализации: параллельные
	// спины одного игрока выполняются по очереди
	balance, err := s.playerRepo.GetBalanceForUpdate(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if balance.LessThan(req.Bet) {
		return nil, model.ErrInsufficientBalance
	}

	session, err := s.sessions.GetOrCreate(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}

	positions, board, err := engine.Window(cfg, s.src)
	if err != nil {
		return nil, err
	}

	outcome := engine.Evaluate(cfg, board, req.Bet, req.ActivePaylines)

	newBalance, err := s.ledger.Settle(ctx, playerID, session.ID, req.Bet, outcome.TotalPayout)
	if err != nil {
		return nil, err
	}

	if outcome.FreeSpinsAwarded > 0 {
		// Фриспины играются с той же ставкой, что их выиграла
		if err := s.freeSpinRepo.AwardFreeSpins(ctx, playerID, cfg.Slug, outcome.FreeSpinsAwarded, req.Bet); err != nil {
			return nil, err
		}
	}

	round, err := s.rounds.Record(ctx, model.RoundDetail{
		Session:       session,
		PlayerID:      playerID,
		GameSlug:      cfg.Slug,
		Bet:           req.Bet,
		Win:           outcome.TotalPayout,
		BalanceBefore: balance,
		BalanceAfter:  newBalance,
		Positions:     positions,
		Board:         board,
		Outcome:       outcome,
		Extra:         map[string]any{"rng_source": s.src.Name()},
	})
	if err != nil {
		return nil, err
	}

	freeSpinsLeft, _, err := s.freeSpinRepo.GetFreeSpins(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}

	return &model.SpinResult{
		BetAmount:      req.Bet,
		WinAmount:      outcome.TotalPayout,
		Balance:        newBalance,
		FreeSpinsLeft:  freeSpinsLeft,
		Positions:      positions,
		Board:          board,
		Outcome:        outcome,
		RoundReference: round.ReferenceID,
	}, nil
}

// freeSpin - бесплатный спин: ставка не списывается, расчёт идёт от
// ставочного эквивалента фриспина, один фриспин расходуется
func (s *serv) freeSpin(ctx context.Context, cfg *model.GameConfig, playerID int, req model.SpinRequest) (*model.SpinResult, error) {
	available, betValue, err := s.freeSpinRepo.GetFreeSpinsForUpdate(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}
	if available <= 0 {
		return nil, model.ErrInsufficientFreeSpins
	}
	if !betValue.IsPositive() {
		betValue = cfg.MinBet
	}

	// Та же граница сериализации, что и у платного спина
	balance, err := s.playerRepo.GetBalanceForUpdate(ctx, playerID)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetOrCreate(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}

	positions, board, err := engine.Window(cfg, s.src)
	if err != nil {
		return nil, err
	}

	outcome := engine.Evaluate(cfg, board, betValue, req.ActivePaylines)

	if err := s.freeSpinRepo.ConsumeFreeSpin(ctx, playerID, cfg.Slug); err != nil {
		return nil, err
	}

	// Списания нет - только начисление выигрыша
	newBalance, err := s.ledger.Settle(ctx, playerID, session.ID, decimal.Zero, outcome.TotalPayout)
	if err != nil {
		return nil, err
	}

	if outcome.FreeSpinsAwarded > 0 {
		if err := s.freeSpinRepo.AwardFreeSpins(ctx, playerID, cfg.Slug, outcome.FreeSpinsAwarded, betValue); err != nil {
			return nil, err
		}
	}

	round, err := s.rounds.Record(ctx, model.RoundDetail{
		Session:       session,
		PlayerID:      playerID,
		GameSlug:      cfg.Slug,
		Bet:           decimal.Zero, // Для фриспина ставка в отчёте нулевая
		Win:           outcome.TotalPayout,
		BalanceBefore: balance,
		BalanceAfter:  newBalance,
		Positions:     positions,
		Board:         board,
		Outcome:       outcome,
		IsFreeSpin:    true,
		Extra: map[string]any{
			"rng_source":     s.src.Name(),
			"bet_equivalent": betValue.StringFixed(2),
		},
	})
	if err != nil {
		return nil, err
	}

	freeSpinsLeft, _, err := s.freeSpinRepo.GetFreeSpins(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}

	return &model.SpinResult{
		BetAmount:      decimal.Zero,
		WinAmount:      outcome.TotalPayout,
		Balance:        newBalance,
		FreeSpinsLeft:  freeSpinsLeft,
		Positions:      positions,
		Board:          board,
		Outcome:        outcome,
		RoundReference: round.ReferenceID,
	}, nil
}
