package handler

import (
	"farming-engine/internal/adapter/http/middleware"
	redisStore "farming-engine/internal/adapter/storage/redis"
	"farming-engine/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	DepositGate    ports.DepositGate
	Referrals      ports.ReferralRegistry
	Graph          ports.ReferralGraph
	Positions      ports.PositionQuery
	Ticks          ports.TickTrigger
	Reconciler     ports.Reconciler
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	OperatorRole   string
	IngestCreds    middleware.IngestCredentials
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	MetricsEnabled bool
	Mode           string // gin mode; empty = release
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10)) // 64 KB request body limit
	r.Use(middleware.AuditLog(deps.Logger))

	// Health check (deep: verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/internal/v1")

	// --- HMAC-authenticated routes (verification pipeline) ---
	hmacAuth := middleware.HMACAuth(deps.IngestCreds, deps.SigSvc, deps.NonceStore, deps.Logger)
	depositHandler := NewDepositHandler(deps.DepositGate)
	referralHandler := NewReferralHandler(deps.Referrals, deps.Graph)
	{
		v1.POST("/deposits", hmacAuth, rl("deposits"), depositHandler.Ingest)
		v1.POST("/referrals", hmacAuth, rl("referrals"), referralHandler.Link)
	}

	// --- Read side and opt-out (HMAC-authenticated) ---
	positionHandler := NewPositionHandler(deps.Positions)
	users := v1.Group("/users/:id", hmacAuth)
	{
		users.GET("/positions", rl("reads"), positionHandler.ListPositions)
		users.GET("/balances/:currency", rl("reads"), positionHandler.GetBalance)
		users.GET("/transactions", rl("reads"), positionHandler.ListTransactions)
		users.GET("/referral-chain", rl("reads"), referralHandler.Chain)
		users.DELETE("/positions/:currency", rl("opt_out"), positionHandler.OptOut)
	}
	v1.GET("/transactions/:id", hmacAuth, rl("reads"), positionHandler.GetTransaction)

	// --- JWT-authenticated routes (operators) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.OperatorRole, deps.Logger)
	maintenanceHandler := NewMaintenanceHandler(deps.Ticks, deps.Reconciler, deps.Logger)
	maintenance := v1.Group("/maintenance", jwtAuth)
	{
		maintenance.POST("/ticks", rl("maintenance"), maintenanceHandler.TriggerTick)
		maintenance.POST("/reconcile", rl("maintenance"), maintenanceHandler.Reconcile)
	}

	return r
}
