package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	listingapp "github.com/renthub/backend/internal/application/listing"
	"github.com/renthub/backend/internal/domain/listing"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/renthub/backend/internal/infrastructure/auth"
)

// memoryListingRepo is a map-backed ListingRepository for handler tests
type memoryListingRepo struct {
	listings map[uuid.UUID]*listing.Listing
}

func newMemoryListingRepo() *memoryListingRepo {
	return &memoryListingRepo{listings: make(map[uuid.UUID]*listing.Listing)}
}

func (r *memoryListingRepo) Save(_ context.Context, l *listing.Listing) error {
	r.listings[l.ID] = l
	return nil
}

func (r *memoryListingRepo) Update(_ context.Context, l *listing.Listing) error {
	if _, ok := r.listings[l.ID]; !ok {
		return shared.ErrNotFound
	}
	r.listings[l.ID] = l
	return nil
}

func (r *memoryListingRepo) FindByID(_ context.Context, id uuid.UUID) (*listing.Listing, error) {
	l, ok := r.listings[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

func (r *memoryListingRepo) List(_ context.Context, filter listing.ListingFilter) ([]*listing.Listing, int64, error) {
	var out []*listing.Listing
	for _, l := range r.listings {
		if filter.UserID != nil && l.UserID != *filter.UserID {
			continue
		}
		if filter.Status != nil && l.Status != *filter.Status {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

// stubQuota answers the admission question with a canned decision
type stubQuota struct {
	decision   membership.QuotaDecision
	increments int
}

func (q *stubQuota) CanPost(_ context.Context, _ uuid.UUID) (membership.QuotaDecision, error) {
	return q.decision, nil
}

func (q *stubQuota) IncrementPostCount(_ context.Context, _ uuid.UUID) error {
	q.increments++
	return nil
}

func newListingRouter(quota *stubQuota, repo *memoryListingRepo, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := listingapp.NewListingService(repo, quota, zap.NewNop())
	h := NewListingHandler(svc)

	r := gin.New()
	grp := r.Group("/api/v1", withClaims(userID, auth.RoleUser))
	grp.POST("/listings", h.Create)
	grp.GET("/listings", h.List)
	grp.GET("/listings/:id", h.Get)
	grp.POST("/listings/:id/archive", h.Archive)
	return r
}

func createListingBody() []byte {
	body, _ := json.Marshal(CreateListingRequest{
		Title:       "Studio near Ben Thanh market",
		Address:     "12 Le Loi, District 1, HCMC",
		MonthlyRent: "4500000",
		AreaSqm:     28,
	})
	return body
}

func TestListingHandlerCreate(t *testing.T) {
	userID := uuid.New()

	t.Run("admitted creation returns 201 and counts the post", func(t *testing.T) {
		quota := &stubQuota{decision: membership.QuotaDecision{Allowed: true, PostLimit: 10, PostsUsed: 3, Remaining: 7}}
		repo := newMemoryListingRepo()
		r := newListingRouter(quota, repo, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(createListingBody()))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Len(t, repo.listings, 1)
		assert.Equal(t, 1, quota.increments)

		var resp struct {
			Data ListingDTO `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "PUBLISHED", resp.Data.Status)
	})

	t.Run("exhausted quota answers 429", func(t *testing.T) {
		quota := &stubQuota{decision: membership.QuotaDecision{
			Allowed:   false,
			Reason:    membership.QuotaReasonExceeded,
			PostLimit: 10,
			PostsUsed: 10,
		}}
		repo := newMemoryListingRepo()
		r := newListingRouter(quota, repo, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(createListingBody()))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Empty(t, repo.listings)
		assert.Zero(t, quota.increments)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_QUOTA_EXCEEDED", resp.Error.Code)
	})

	t.Run("missing membership answers 403", func(t *testing.T) {
		quota := &stubQuota{decision: membership.QuotaDecision{
			Allowed: false,
			Reason:  membership.QuotaReasonNoActiveMembership,
		}}
		r := newListingRouter(quota, newMemoryListingRepo(), userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings", bytes.NewReader(createListingBody()))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)

		var resp struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ERR_NO_ACTIVE_MEMBERSHIP", resp.Error.Code)
	})
}

func TestListingHandlerArchive(t *testing.T) {
	ownerID := uuid.New()

	seed := func(t *testing.T, repo *memoryListingRepo) *listing.Listing {
		t.Helper()
		l, err := listing.NewListing(ownerID, "Loft in District 3", "5 Vo Van Tan, HCMC", mustDecimal(t, "7000000"), 45, "")
		require.NoError(t, err)
		require.NoError(t, repo.Save(context.Background(), l))
		return l
	}

	t.Run("owner archives own listing", func(t *testing.T) {
		repo := newMemoryListingRepo()
		l := seed(t, repo)
		quota := &stubQuota{decision: membership.QuotaDecision{Allowed: true}}
		r := newListingRouter(quota, repo, ownerID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+l.ID.String()+"/archive", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, listing.ListingStatusArchived, repo.listings[l.ID].Status)
	})

	t.Run("non-owner is refused", func(t *testing.T) {
		repo := newMemoryListingRepo()
		l := seed(t, repo)
		quota := &stubQuota{decision: membership.QuotaDecision{Allowed: true}}
		r := newListingRouter(quota, repo, uuid.New())

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/listings/"+l.ID.String()+"/archive", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, listing.ListingStatusPublished, repo.listings[l.ID].Status)
	})
}
