package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	listingapp "github.com/renthub/backend/internal/application/listing"
	membershipapp "github.com/renthub/backend/internal/application/membership"
	"github.com/renthub/backend/internal/infrastructure/auth"
	"github.com/renthub/backend/internal/infrastructure/config"
	"github.com/renthub/backend/internal/infrastructure/event"
	"github.com/renthub/backend/internal/infrastructure/persistence"
	"github.com/renthub/backend/internal/interfaces/http/handler"
)

type apiFixture struct {
	engine   *gin.Engine
	jwt      *auth.JWTService
	operator string
	user     string
	userID   uuid.UUID
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	db := &persistence.Database{DB: gdb}
	require.NoError(t, db.Migrate())

	log := zap.NewNop()
	bus := event.NewInMemoryEventBus(log)

	txRepo := persistence.NewGormTransactionRepository(gdb)
	membershipRepo := persistence.NewGormMembershipRepository(gdb)
	packageRepo := persistence.NewGormPackageRepository(gdb)
	listingRepo := persistence.NewGormListingRepository(gdb)

	entitlementSvc := membershipapp.NewEntitlementService(packageRepo, membershipRepo, bus, log)
	ledgerSvc := membershipapp.NewLedgerService(txRepo, entitlementSvc, bus, log)
	quotaSvc := membershipapp.NewQuotaService(membershipRepo, log)
	packageSvc := membershipapp.NewPackageService(packageRepo, log)
	listingSvc := listingapp.NewListingService(listingRepo, quotaSvc, log)

	cfg := &config.Config{
		App: config.AppConfig{Name: "renthub-backend", Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:     "router-test-secret-key-0123456789ab",
			Expiration: time.Hour,
			Issuer:     "renthub-test",
		},
	}
	jwtService := auth.NewJWTService(cfg.JWT)

	engine := New(Dependencies{
		Config:       cfg,
		Logger:       log,
		JWTService:   jwtService,
		System:       handler.NewSystemHandler(db, "test"),
		Transactions: handler.NewTransactionHandler(ledgerSvc),
		Memberships:  handler.NewMembershipHandler(quotaSvc),
		Packages:     handler.NewPackageHandler(packageSvc),
		Listings:     handler.NewListingHandler(listingSvc),
	})

	userID := uuid.New()
	userToken, _, err := jwtService.GenerateToken(userID, "alice", auth.RoleUser)
	require.NoError(t, err)
	operatorToken, _, err := jwtService.GenerateToken(uuid.New(), "admin", auth.RoleOperator)
	require.NoError(t, err)

	return &apiFixture{
		engine:   engine,
		jwt:      jwtService,
		operator: operatorToken,
		user:     userToken,
		userID:   userID,
	}
}

func (fx *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	return w
}

func TestRouterAuth(t *testing.T) {
	fx := newAPIFixture(t)

	t.Run("health is open", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("transactions require a token", func(t *testing.T) {
		w := fx.do(t, http.MethodGet, "/api/v1/transactions", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("catalog writes require the operator role", func(t *testing.T) {
		w := fx.do(t, http.MethodPost, "/api/v1/packages", fx.user, map[string]any{
			"name": "Premium Plan", "price": "799000", "currency": "VND",
			"duration_days": 30, "post_limit": 10,
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("decisions require the operator role", func(t *testing.T) {
		w := fx.do(t, http.MethodPost, "/api/v1/transactions/"+uuid.NewString()+"/approve", fx.user, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestPurchaseToPostingFlow(t *testing.T) {
	fx := newAPIFixture(t)

	// Operator seeds the catalog
	w := fx.do(t, http.MethodPost, "/api/v1/packages", fx.operator, map[string]any{
		"name": "Premium Plan", "price": "799000", "currency": "VND",
		"duration_days": 30, "post_limit": 10,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Before any grant, the user cannot post
	w = fx.do(t, http.MethodPost, "/api/v1/listings", fx.user, map[string]any{
		"title": "Room in Binh Thanh", "address": "90 Xo Viet Nghe Tinh, HCMC",
		"monthly_rent": "3500000",
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	// User submits a payment claim
	w = fx.do(t, http.MethodPost, "/api/v1/transactions", fx.user, map[string]any{
		"package_name": "Premium Plan", "amount": "799000",
		"currency": "VND", "method": "bank_transfer",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var submitResp struct {
		Data membershipapp.TransactionDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &submitResp))
	require.Equal(t, "PENDING", submitResp.Data.Status)

	// Operator approves it
	w = fx.do(t, http.MethodPost, "/api/v1/transactions/"+submitResp.Data.ID+"/approve", fx.operator, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Membership is now visible with the package terms
	w = fx.do(t, http.MethodGet, "/api/v1/memberships/me", fx.user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var meResp struct {
		Data struct {
			Membership membershipapp.MembershipDTO `json:"membership"`
			Quota      membershipapp.QuotaDTO      `json:"quota"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meResp))
	assert.Equal(t, "PREMIUM", meResp.Data.Membership.Tier)
	assert.True(t, meResp.Data.Membership.Active)
	assert.Equal(t, 10, meResp.Data.Quota.Remaining)

	// And posting succeeds
	w = fx.do(t, http.MethodPost, "/api/v1/listings", fx.user, map[string]any{
		"title": "Room in Binh Thanh", "address": "90 Xo Viet Nghe Tinh, HCMC",
		"monthly_rent": "3500000", "area_sqm": 22,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The quota snapshot reflects the post
	w = fx.do(t, http.MethodGet, "/api/v1/memberships/me/quota", fx.user, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var quotaResp struct {
		Data membershipapp.QuotaDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &quotaResp))
	assert.True(t, quotaResp.Data.Allowed)
	assert.Equal(t, 1, quotaResp.Data.PostsUsed)
	assert.Equal(t, 9, quotaResp.Data.Remaining)

	// Operators can look the same record up by user ID; users cannot
	w = fx.do(t, http.MethodGet, "/api/v1/memberships/"+fx.userID.String(), fx.operator, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = fx.do(t, http.MethodGet, "/api/v1/memberships/"+fx.userID.String(), fx.user, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Approving the same claim again is refused, nothing double-granted
	w = fx.do(t, http.MethodPost, "/api/v1/transactions/"+submitResp.Data.ID+"/approve", fx.operator, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
