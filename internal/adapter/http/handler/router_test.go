package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"farming-engine/internal/adapter/http/middleware"
	"farming-engine/internal/core/ports"
	"farming-engine/internal/core/ports/mocks"
	"farming-engine/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type routerMocks struct {
	gate       *mocks.MockDepositGate
	positions  *mocks.MockPositionQuery
	ticks      *mocks.MockTickTrigger
	nonces     *mocks.MockNonceStore
	tokens     *mocks.MockTokenService
	referrals  *mocks.MockReferralRegistry
	graph      *mocks.MockReferralGraph
	reconciler *mocks.MockReconciler
}

func setupTestRouter(t *testing.T) (*gin.Engine, *routerMocks) {
	ctrl := gomock.NewController(t)
	m := &routerMocks{
		gate:       mocks.NewMockDepositGate(ctrl),
		positions:  mocks.NewMockPositionQuery(ctrl),
		ticks:      mocks.NewMockTickTrigger(ctrl),
		nonces:     mocks.NewMockNonceStore(ctrl),
		tokens:     mocks.NewMockTokenService(ctrl),
		referrals:  mocks.NewMockReferralRegistry(ctrl),
		graph:      mocks.NewMockReferralGraph(ctrl),
		reconciler: mocks.NewMockReconciler(ctrl),
	}
	r := SetupRouter(RouterDeps{
		DepositGate:    m.gate,
		Referrals:      m.referrals,
		Graph:          m.graph,
		Positions:      m.positions,
		Ticks:          m.ticks,
		Reconciler:     m.reconciler,
		SigSvc:         service.NewHMACSignatureService(),
		NonceStore:     m.nonces,
		TokenSvc:       m.tokens,
		OperatorRole:   service.RoleOperator,
		IngestCreds:    middleware.IngestCredentials{AccessKey: "ak", SecretKey: "sk"},
		MetricsEnabled: true,
		Mode:           gin.TestMode,
		Logger:         zerolog.Nop(),
	})
	return r, m
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "farming_engine_http_requests_total")
}

func TestRouter_RoutesRequireAuth(t *testing.T) {
	r, _ := setupTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/internal/v1/deposits"},
		{http.MethodPost, "/internal/v1/referrals"},
		{http.MethodGet, "/internal/v1/users/1/positions"},
		{http.MethodGet, "/internal/v1/users/1/balances/UNI"},
		{http.MethodGet, "/internal/v1/users/1/transactions"},
		{http.MethodGet, "/internal/v1/users/1/referral-chain"},
		{http.MethodDelete, "/internal/v1/users/1/positions/UNI"},
		{http.MethodGet, "/internal/v1/transactions/0b7e5b9e-8f7c-4c57-9d7a-1f0a3d3e2c11"},
		{http.MethodPost, "/internal/v1/maintenance/ticks"},
		{http.MethodPost, "/internal/v1/maintenance/reconcile"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_SignedBalanceRequest(t *testing.T) {
	r, m := setupTestRouter(t)

	ts := time.Now().Unix()
	path := "/internal/v1/users/7/balances/UNI"
	sig := service.NewHMACSignatureService()
	signature := sig.Sign("sk", sig.BuildCanonicalString(http.MethodGet, path, ts, "n-1", ""))

	m.nonces.EXPECT().CheckAndSet(gomock.Any(), "ak", "n-1", gomock.Any()).Return(true, nil)
	m.positions.EXPECT().Balance(gomock.Any(), int64(7), "UNI").Return(decimal.RequireFromString("2.5"), nil)

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.HeaderAccessKey, "ak")
	req.Header.Set(middleware.HeaderSignature, signature)
	req.Header.Set(middleware.HeaderTimestamp, strconv.FormatInt(ts, 10))
	req.Header.Set(middleware.HeaderNonce, "n-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"balance":"2.500000"`), w.Body.String())
}

func TestRouter_OperatorTick(t *testing.T) {
	r, m := setupTestRouter(t)

	m.tokens.EXPECT().Validate("tok").Return(&ports.TokenClaims{Operator: "ops", Role: service.RoleOperator}, nil)
	m.ticks.EXPECT().Trigger(gomock.Any()).Return(&ports.BatchReport{Selected: 1, Processed: 1}, nil)

	req := httptest.NewRequest(http.MethodPost, "/internal/v1/maintenance/ticks", nil)
	req.Header.Set("Authorization", "Bearer tok")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
