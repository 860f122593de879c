package ports

//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks

import (
	"context"
	"time"

	"farming-engine/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// SignatureService handles HMAC-SHA256 signing and verification.
type SignatureService interface {
	Sign(secretKey string, payload string) string
	Verify(secretKey string, payload string, signature string) bool
	BuildCanonicalString(method, path string, timestamp int64, nonce string, body string) string
}

// TokenService handles operator JWT operations.
type TokenService interface {
	Generate(operator string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Operator string
	Role     string
}

// ResultCache is the Redis-layer replay check (fast path) for deposits.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, error) // Returns cached result JSON or nil
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// NonceStore manages nonce uniqueness for replay attack prevention.
type NonceStore interface {
	// CheckAndSet atomically checks if nonce exists, sets it if not.
	// Returns true if nonce is new (valid), false if already used.
	CheckAndSet(ctx context.Context, accessKey string, nonce string, ttl time.Duration) (bool, error)
}

// TickLease lets one engine instance claim a tick window.
type TickLease interface {
	// Acquire returns true if this holder now owns the window.
	Acquire(ctx context.Context, window string, holder string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, window string, holder string) error
}

// CommissionQueue durably hands off commission writes that kept failing.
type CommissionQueue interface {
	Enqueue(ctx context.Context, entry CommissionEntry) error
}

// CascadeOutbox schedules the commission cascade of a reward inside the
// transaction that writes the reward. The job runs after a settle delay and
// writes whatever levels the in-line cascade did not.
type CascadeOutbox interface {
	ScheduleTx(ctx context.Context, tx pgx.Tx, req CascadeRequest) error
}

// --- Service Ports (Business Logic) ---

// CascadeRequest is a committed YIELD_REWARD whose commissions are owed.
type CascadeRequest struct {
	OriginTransactionID uuid.UUID       `json:"origin_transaction_id"`
	UserID              int64           `json:"user_id"`
	Currency            domain.Currency `json:"currency"`
	Amount              decimal.Decimal `json:"amount"`
}

// NewCascadeRequest captures the fields of reward the cascade needs.
func NewCascadeRequest(reward *domain.Transaction) CascadeRequest {
	return CascadeRequest{
		OriginTransactionID: reward.ID,
		UserID:              reward.UserID,
		Currency:            reward.Currency,
		Amount:              reward.Amount,
	}
}

// CommissionSettler writes every level owed for a reward. Levels already
// written are skipped, so settling twice is safe. It returns the number of
// rows it wrote.
type CommissionSettler interface {
	Settle(ctx context.Context, req CascadeRequest) (int, error)
}

// CommissionEntry is one level of a commission cascade.
type CommissionEntry struct {
	OriginTransactionID uuid.UUID       `json:"origin_transaction_id"`
	RefereeID           int64           `json:"referee_id"`
	AncestorID          int64           `json:"ancestor_id"`
	Level               int             `json:"level"`
	Currency            domain.Currency `json:"currency"`
	Amount              decimal.Decimal `json:"amount"`
}

// CommissionApplier writes one commission level as its own atomic unit.
// Re-applying an entry that was already written is a no-op.
type CommissionApplier interface {
	Apply(ctx context.Context, entry CommissionEntry) (bool, error)
}

// DepositGate is the idempotent entry point for confirmed deposits.
type DepositGate interface {
	Ingest(ctx context.Context, req DepositRequest) (*DepositResult, error)
}

// DepositRequest holds input from the upstream verification pipeline.
type DepositRequest struct {
	UserID      int64
	Currency    string
	Amount      string
	ExternalRef string
}

// DepositResult is what a caller sees for both first ingestion and replays.
type DepositResult struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	Currency      domain.Currency `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	ExternalRef   string          `json:"external_ref"`
	PositionID    int64           `json:"position_id,omitempty"`
	Replayed      bool            `json:"replayed"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ReferralGraph resolves ancestor chains.
type ReferralGraph interface {
	ResolveChain(ctx context.Context, userID int64) ([]int64, error)
}

// ReferralRegistry records who referred whom.
type ReferralRegistry interface {
	Link(ctx context.Context, userID, referrerID int64) error
}

// BatchRunner runs one accrual batch as of now.
type BatchRunner interface {
	RunOnce(ctx context.Context, now time.Time) (*BatchReport, error)
}

// TickTrigger runs a tick outside the regular schedule.
type TickTrigger interface {
	Trigger(ctx context.Context) (*BatchReport, error)
}

// BatchReport summarizes one tick.
type BatchReport struct {
	Selected           int           `json:"selected"`
	Processed          int           `json:"processed"`
	Skipped            int           `json:"skipped"`
	Failed             int           `json:"failed"`
	Deferred           int           `json:"deferred"`
	IntegritySkipped   int           `json:"integrity_skipped"`
	CommissionsWritten int           `json:"commissions_written"`
	CommissionsFailed  int           `json:"commissions_failed"`
	Duration           time.Duration `json:"duration"`
}

// Reconciler rebuilds derived position state from the ledger.
type Reconciler interface {
	RecomputeBasisFromLedger(ctx context.Context, userID int64, currency string) (*ReconcileResult, error)
}

// ReconcileResult reports what a reconciliation changed.
type ReconcileResult struct {
	UserID        int64           `json:"user_id"`
	Currency      domain.Currency `json:"currency"`
	PositionID    int64           `json:"position_id"`
	PreviousBasis *string         `json:"previous_basis"` // nil when the stored basis was NULL
	Basis         decimal.Decimal `json:"basis"`
	Active        bool            `json:"active"`
	Changed       bool            `json:"changed"`
}

// PositionQuery serves reporting consumers and opt-out requests.
type PositionQuery interface {
	ListPositions(ctx context.Context, userID int64) ([]domain.Position, error)
	Balance(ctx context.Context, userID int64, currency string) (decimal.Decimal, error)
	History(ctx context.Context, userID int64, limit int) ([]domain.Transaction, error)
	GetTransaction(ctx context.Context, id uuid.UUID) (*domain.Transaction, error)
	OptOut(ctx context.Context, userID int64, currency string) error
}
