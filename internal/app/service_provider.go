package app

import (
	"context"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	gameAPI "slots_backend/internal/api/game"
	roundAPI "slots_backend/internal/api/round"
	"slots_backend/internal/config"
	"slots_backend/internal/config/env"
	"slots_backend/internal/middleware"
	"slots_backend/internal/model"
	"slots_backend/internal/repository"
	"slots_backend/internal/repository/freespin_repo"
	"slots_backend/internal/repository/player_repo"
	"slots_backend/internal/repository/round_repo"
	"slots_backend/internal/repository/session_repo"
	"slots_backend/internal/repository/transaction_repo"
	"slots_backend/internal/service"
	"slots_backend/internal/service/game"
	"slots_backend/internal/service/ledger"
	"slots_backend/internal/service/round"
	"slots_backend/internal/service/session"
	"slots_backend/pkg/rng"
)

type ServiceProvider struct {
	// TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Logger
	logger *zap.Logger

	// RNG
	rngSource *rng.Source

	// Game bits
	gameCfgs     []*model.GameConfig
	playerRepo   repository.PlayerRepository
	freeSpinRepo repository.FreeSpinRepository
	sessionRepo  repository.SessionRepository
	txRepo       repository.TransactionRepository
	roundRepo    repository.RoundRepository

	sessionServ service.SessionService
	ledgerServ  service.LedgerService
	roundServ   service.RoundService
	gameServ    service.GameService

	gameHand  *gameAPI.Handler
	roundHand *roundAPI.Handler

	// Router and HTTP config
	jwtCfg  config.JWTConfig
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider() *ServiceProvider {
	return &ServiceProvider{}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		poolCfg, err := pgxpool.ParseConfig(sp.PgConfig().DSN())
		if err != nil {
			panic("failed to parse db config: " + err.Error())
		}

		// Деньги ходят через decimal, а не float64
		poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			pgxdecimal.Register(conn.TypeMap())
			return nil
		}

		dbc, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) Logger() *zap.Logger {
	if sp.logger == nil {
		logger, err := zap.NewProduction()
		if err != nil {
			panic("failed to create logger: " + err.Error())
		}
		sp.logger = logger
	}
	return sp.logger
}

func (sp *ServiceProvider) RNGSource() *rng.Source {
	if sp.rngSource == nil {
		src := rng.New()
		if !src.SelfTest() {
			panic("rng self-test failed")
		}
		sp.rngSource = src
	}
	return sp.rngSource
}

func (sp *ServiceProvider) GameCfgs() []*model.GameConfig {
	if sp.gameCfgs == nil {
		cfgs, err := env.NewGameConfigs()
		if err != nil {
			panic("failed to get game configs: " + err.Error())
		}
		sp.gameCfgs = cfgs
	}
	return sp.gameCfgs
}

func (sp *ServiceProvider) PlayerRepository(ctx context.Context) repository.PlayerRepository {
	if sp.playerRepo == nil {
		sp.playerRepo = player_repo.NewPlayerRepository(sp.DBClient(ctx))
	}
	return sp.playerRepo
}

func (sp *ServiceProvider) FreeSpinRepository(ctx context.Context) repository.FreeSpinRepository {
	if sp.freeSpinRepo == nil {
		sp.freeSpinRepo = freespin_repo.NewFreeSpinRepository(sp.DBClient(ctx))
	}
	return sp.freeSpinRepo
}

func (sp *ServiceProvider) SessionRepository(ctx context.Context) repository.SessionRepository {
	if sp.sessionRepo == nil {
		sp.sessionRepo = session_repo.NewSessionRepository(sp.DBClient(ctx))
	}
	return sp.sessionRepo
}

func (sp *ServiceProvider) TransactionRepository(ctx context.Context) repository.TransactionRepository {
	if sp.txRepo == nil {
		sp.txRepo = transaction_repo.NewTransactionRepository(sp.DBClient(ctx))
	}
	return sp.txRepo
}

func (sp *ServiceProvider) RoundRepository(ctx context.Context) repository.RoundRepository {
	if sp.roundRepo == nil {
		sp.roundRepo = round_repo.NewRoundRepository(sp.DBClient(ctx))
	}
	return sp.roundRepo
}

func (sp *ServiceProvider) SessionService(ctx context.Context) service.SessionService {
	if sp.sessionServ == nil {
		sp.sessionServ = session.NewSessionService(sp.SessionRepository(ctx), sp.Logger())
	}
	return sp.sessionServ
}

func (sp *ServiceProvider) LedgerService(ctx context.Context) service.LedgerService {
	if sp.ledgerServ == nil {
		sp.ledgerServ = ledger.NewLedgerService(
			sp.PlayerRepository(ctx),
			sp.TransactionRepository(ctx),
			sp.TXManager(ctx),
			sp.Logger(),
		)
	}
	return sp.ledgerServ
}

func (sp *ServiceProvider) RoundService(ctx context.Context) service.RoundService {
	if sp.roundServ == nil {
		sp.roundServ = round.NewRoundService(
			sp.RoundRepository(ctx),
			sp.SessionRepository(ctx),
			sp.PlayerRepository(ctx),
			sp.TransactionRepository(ctx),
			sp.TXManager(ctx),
			sp.Logger(),
		)
	}
	return sp.roundServ
}

func (sp *ServiceProvider) GameService(ctx context.Context) service.GameService {
	if sp.gameServ == nil {
		sp.gameServ = game.NewGameService(
			sp.GameCfgs(),
			sp.RNGSource(),
			sp.PlayerRepository(ctx),
			sp.FreeSpinRepository(ctx),
			sp.SessionService(ctx),
			sp.LedgerService(ctx),
			sp.RoundService(ctx),
			sp.TXManager(ctx),
			sp.Logger(),
		)
	}
	return sp.gameServ
}

func (sp *ServiceProvider) GameHandler(ctx context.Context) *gameAPI.Handler {
	if sp.gameHand == nil {
		sp.gameHand = gameAPI.NewHandler(gameAPI.HandlerDeps{
			Serv: sp.GameService(ctx),
		})
	}
	return sp.gameHand
}

func (sp *ServiceProvider) RoundHandler(ctx context.Context) *roundAPI.Handler {
	if sp.roundHand == nil {
		sp.roundHand = roundAPI.NewHandler(roundAPI.HandlerDeps{
			Serv: sp.RoundService(ctx),
		})
	}
	return sp.roundHand
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: false,
			MaxAge:           60 * 15,
		}))

		gameHandler := sp.GameHandler(ctx)
		roundHandler := sp.RoundHandler(ctx)

		r.Route("/api", func(rr chi.Router) {
			rr.Use(middleware.Auth(sp.JWTCfg()))

			rr.Route("/games/{slug}", func(gr chi.Router) {
				gr.Post("/spin", gameHandler.Spin)
				gr.Get("/check-data", gameHandler.CheckData)
			})
			rr.Post("/deposit", gameHandler.Deposit)

			rr.Route("/rounds", func(rd chi.Router) {
				rd.Get("/", roundHandler.List)
				rd.Get("/{id}/verify", roundHandler.Verify)
				rd.Post("/{id}/cancel", roundHandler.Cancel)
			})
		})

		sp.router = r
	}

	return sp.router
}
