// Package app assembles the engine's object graph from configuration. Both
// the engine server and farmctl build their services here.
package app

import (
	"context"
	"errors"
	"fmt"

	"farming-engine/config"
	httpHandler "farming-engine/internal/adapter/http/handler"
	"farming-engine/internal/adapter/http/middleware"
	"farming-engine/internal/adapter/queue"
	pgStorage "farming-engine/internal/adapter/storage/postgres"
	redisStorage "farming-engine/internal/adapter/storage/redis"
	"farming-engine/internal/core/domain"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/service"
	"farming-engine/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
	"github.com/riverqueue/river"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// App holds the long-lived engine components.
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Pool  *pgxpool.Pool
	Redis *goredis.Client
	River *river.Client[pgx.Tx] // nil when the retry queue is disabled

	Scheduler  *service.TickScheduler
	Runner     *service.TickRunner
	Reconciler *service.ReconcileService
	Tokens     *service.JWTTokenService
	Router     *gin.Engine
}

// New connects to PostgreSQL and Redis and wires every service. The caller
// owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	rates, err := currencyRates(cfg.Farming)
	if err != nil {
		return nil, err
	}
	dust, err := cfg.Farming.Dust()
	if err != nil {
		return nil, err
	}
	schedule, err := commissionSchedule(cfg.Referral)
	if err != nil {
		return nil, err
	}

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	a := &App{Config: cfg, Log: log, Pool: pool, Redis: rdb}
	clock := clockwork.NewRealClock()

	// Repositories
	positionRepo := pgStorage.NewPositionRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	balanceRepo := pgStorage.NewBalanceRepo(pool)
	referralRepo := pgStorage.NewReferralRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	resultCache := redisStorage.NewResultCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Commissions
	graph := service.NewReferralGraphService(referralRepo, cfg.Referral.MaxDepth, clock, logger.Component(log, "referral_graph"))
	ledger := service.NewCommissionLedger(txRepo, balanceRepo, transactor, clock, logger.Component(log, "commission_ledger"))

	cascade := service.NewCommissionCascade(graph, schedule, ledger, nil, logger.Component(log, "cascade"))

	var riverQueue *queue.RiverQueue
	if cfg.Queue.Enabled {
		workers := river.NewWorkers()
		river.AddWorker(workers, queue.NewCommissionRetryWorker(ledger, logger.Component(log, "commission_retry")))
		river.AddWorker(workers, queue.NewCommissionSettleWorker(cascade, logger.Component(log, "commission_settle")))
		client, err := queue.NewClient(pool, workers, cfg.Queue.MaxWorkers)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.River = client
		riverQueue = queue.NewRiverQueue(client, clock, cfg.Queue.SettleDelay, logger.Component(log, "commission_queue"))
		cascade.WithQueue(riverQueue)
	}

	// Tick pipeline
	breaker := service.NewStoreBreaker("ledger-store", cfg.Breaker.MaxFailures, cfg.Breaker.OpenTimeout, logger.Component(log, "breaker"))
	scheduler, err := service.NewTickScheduler(
		service.SchedulerConfig{
			TickInterval:  cfg.Farming.TickInterval,
			BatchLimit:    cfg.Farming.BatchLimit,
			Workers:       cfg.Farming.Workers,
			BatchDeadline: cfg.Farming.BatchDeadline,
		},
		positionRepo,
		txRepo,
		balanceRepo,
		transactor,
		service.NewAccrualCalculator(dust),
		cascade,
		breaker,
		clock,
		logger.Component(log, "scheduler"),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("tick scheduler: %w", err)
	}
	if riverQueue != nil {
		scheduler.WithOutbox(riverQueue)
	}
	a.Scheduler = scheduler

	var lease ports.TickLease
	if cfg.Farming.LeaseEnabled {
		lease = redisStorage.NewTickLease(rdb)
	}
	runner, err := service.NewTickRunner(
		service.RunnerConfig{Interval: cfg.Farming.TickInterval, Clock: clock},
		scheduler,
		lease,
		logger.Component(log, "tick_runner"),
	)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("tick runner: %w", err)
	}
	a.Runner = runner

	// Entry points
	depositGate := service.NewDepositGateService(txRepo, positionRepo, balanceRepo, transactor, resultCache, rates, clock, logger.Component(log, "deposit_gate"))
	positionSvc := service.NewPositionService(positionRepo, txRepo, balanceRepo, logger.Component(log, "positions"))
	a.Reconciler = service.NewReconcileService(positionRepo, txRepo, transactor, logger.Component(log, "reconcile"))
	a.Tokens = service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	if cfg.Ingest.AccessKey == "" || cfg.Ingest.SecretKey == "" {
		log.Warn().Msg("Ingest credentials not configured, signed routes will reject every request")
	}

	a.Router = httpHandler.SetupRouter(httpHandler.RouterDeps{
		DepositGate:    depositGate,
		Referrals:      graph,
		Graph:          graph,
		Positions:      positionSvc,
		Ticks:          runner,
		Reconciler:     a.Reconciler,
		SigSvc:         service.NewHMACSignatureService(),
		NonceStore:     nonceStore,
		TokenSvc:       a.Tokens,
		OperatorRole:   service.RoleOperator,
		IngestCreds:    middleware.IngestCredentials{AccessKey: cfg.Ingest.AccessKey, SecretKey: cfg.Ingest.SecretKey},
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		MetricsEnabled: cfg.Metrics.Enabled,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	return a, nil
}

// Close releases the store connections.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Log.Warn().Err(err).Msg("Redis close failed")
		}
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

// currencyRates maps configured daily rates onto supported currencies.
func currencyRates(f config.FarmingConfig) (map[domain.Currency]decimal.Decimal, error) {
	raw, err := f.Rates()
	if err != nil {
		return nil, err
	}
	out := make(map[domain.Currency]decimal.Decimal, len(raw))
	for code, rate := range raw {
		cur, err := domain.ParseCurrency(code)
		if err != nil {
			return nil, fmt.Errorf("farming.daily_rates: %w", err)
		}
		out[cur] = rate
	}
	if len(out) == 0 {
		return nil, errors.New("farming.daily_rates: no currency configured")
	}
	return out, nil
}

func commissionSchedule(r config.ReferralConfig) (*service.CommissionSchedule, error) {
	rate, err := r.ParsedRate()
	if err != nil {
		return nil, err
	}
	levels, err := r.ParsedLevels()
	if err != nil {
		return nil, err
	}
	schedule, err := service.NewCommissionSchedule(rate, levels, r.MaxDepth)
	if err != nil {
		return nil, fmt.Errorf("referral schedule: %w", err)
	}
	return schedule, nil
}
