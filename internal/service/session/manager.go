package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"slots_backend/internal/model"
	"slots_backend/internal/repository"
	"slots_backend/internal/service"
)

// Время жизни сессии. Просроченная сессия закрывается и заменяется
// новой, а не продлевается
const sessionLifetime = 24 * time.Hour

type serv struct {
	repo   repository.SessionRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewSessionService(repo repository.SessionRepository, logger *zap.Logger) service.SessionService {
	return &serv{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// GetOrCreate возвращает активную сессию пары (игрок, игра).
// Просроченную закрывает и открывает новую
func (s *serv) GetOrCreate(ctx context.Context, playerID int, gameSlug string) (*model.PlaySession, error) {
	active, err := s.repo.GetActiveSession(ctx, playerID, gameSlug)
	if err != nil {
		return nil, err
	}

	if active != nil {
		if s.now().Sub(active.StartedAt) <= sessionLifetime {
			return active, nil
		}

		// Сессия просрочена - закрываем и открываем новую
		if err := s.repo.CloseSession(ctx, active.ID, s.now()); err != nil {
			return nil, err
		}
		s.logger.Info("play session expired",
			zap.Int64("session_id", active.ID),
			zap.Int("player_id", playerID),
			zap.String("game", gameSlug))
	}

	return s.start(ctx, playerID, gameSlug)
}

func (s *serv) start(ctx context.Context, playerID int, gameSlug string) (*model.PlaySession, error) {
	session := &model.PlaySession{
		PlayerID:  playerID,
		GameSlug:  gameSlug,
		Token:     uuid.NewString(),
		TotalBet:  decimal.Zero,
		TotalWin:  decimal.Zero,
		StartedAt: s.now(),
		Status:    model.SessionStatusActive,
	}

	id, err := s.repo.CreateSession(ctx, session)
	if err != nil {
		return nil, err
	}
	session.ID = id

	s.logger.Info("play session started",
		zap.Int64("session_id", id),
		zap.Int("player_id", playerID),
		zap.String("game", gameSlug))

	return session, nil
}
