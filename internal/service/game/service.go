package game

import (
	"context"
	"errors"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/middleware"
	"slots_backend/internal/model"
	"slots_backend/internal/repository"
	"slots_backend/internal/service"
	"slots_backend/pkg/rng"
)

type serv struct {
	cfgs         map[string]*model.GameConfig
	src          *rng.Source
	playerRepo   repository.PlayerRepository
	freeSpinRepo repository.FreeSpinRepository
	sessions     service.SessionService
	ledger       service.LedgerService
	rounds       service.RoundService
	txManager    trm.Manager
	logger       *zap.Logger
}

// NewGameService собирает игровой сервис над конфигурациями игр
func NewGameService(
	cfgs []*model.GameConfig,
	src *rng.Source,
	playerRepo repository.PlayerRepository,
	freeSpinRepo repository.FreeSpinRepository,
	sessions service.SessionService,
	ledger service.LedgerService,
	rounds service.RoundService,
	txManager trm.Manager,
	logger *zap.Logger,
) service.GameService {
	bySlug := make(map[string]*model.GameConfig, len(cfgs))
	for _, cfg := range cfgs {
		bySlug[cfg.Slug] = cfg
	}

	return &serv{
		cfgs:         bySlug,
		src:          src,
		playerRepo:   playerRepo,
		freeSpinRepo: freeSpinRepo,
		sessions:     sessions,
		ledger:       ledger,
		rounds:       rounds,
		txManager:    txManager,
		logger:       logger,
	}
}

// CheckData возвращает баланс и остаток фриспинов игрока
func (s *serv) CheckData(ctx context.Context, gameSlug string) (*model.PlayerData, error) {
	cfg, ok := s.cfgs[gameSlug]
	if !ok {
		return nil, model.ErrGameNotFound
	}

	playerID, ok := middleware.PlayerIDFromContext(ctx)
	if !ok {
		return nil, errors.New("player id not found in context")
	}

	balance, err := s.playerRepo.GetBalance(ctx, playerID)
	if err != nil {
		return nil, err
	}

	freeSpins, _, err := s.freeSpinRepo.GetFreeSpins(ctx, playerID, cfg.Slug)
	if err != nil {
		return nil, err
	}

	return &model.PlayerData{
		Balance:       balance,
		FreeSpinsLeft: freeSpins,
	}, nil
}

// Deposit пополняет баланс текущего игрока
func (s *serv) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	playerID, ok := middleware.PlayerIDFromContext(ctx)
	if !ok {
		return decimal.Zero, errors.New("player id not found in context")
	}

	return s.ledger.Deposit(ctx, playerID, amount)
}
