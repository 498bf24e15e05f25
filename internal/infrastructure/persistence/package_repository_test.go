package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/renthub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPackageTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.PackageModel{}))
	return db
}

func newCatalogPackage(t *testing.T, name string) *membership.MembershipPackage {
	t.Helper()
	pkg, err := membership.NewMembershipPackage(name, decimal.NewFromInt(799000), membership.CurrencyVND, 30, 10)
	require.NoError(t, err)
	return pkg
}

func TestGormPackageRepository(t *testing.T) {
	db := setupPackageTestDB(t)
	repo := NewGormPackageRepository(db)
	ctx := context.Background()

	t.Run("round-trips a package", func(t *testing.T) {
		pkg := newCatalogPackage(t, "Premium Plan")
		require.NoError(t, repo.Save(ctx, pkg))

		found, err := repo.FindByID(ctx, pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, "Premium Plan", found.Name)
		assert.Equal(t, membership.TierPremium, found.Tier())
		assert.True(t, found.IsActive)
	})

	t.Run("name lookup is exact", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newCatalogPackage(t, "Gold VIP Plan")))

		found, err := repo.FindByName(ctx, "Gold VIP Plan")
		require.NoError(t, err)
		assert.Equal(t, membership.TierVIP, found.Tier())

		_, err = repo.FindByName(ctx, "gold vip plan")
		require.ErrorIs(t, err, shared.ErrNotFound)
		_, err = repo.FindByName(ctx, "Gold VIP")
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("duplicate name is refused", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, newCatalogPackage(t, "Basic Plan")))
		err := repo.Save(ctx, newCatalogPackage(t, "Basic Plan"))
		require.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("updates terms in place", func(t *testing.T) {
		pkg := newCatalogPackage(t, "Starter Plan")
		require.NoError(t, repo.Save(ctx, pkg))

		require.NoError(t, pkg.UpdateTerms(decimal.NewFromInt(899000), 60, 20))
		require.NoError(t, repo.Update(ctx, pkg))

		found, err := repo.FindByID(ctx, pkg.ID)
		require.NoError(t, err)
		assert.Equal(t, 60, found.DurationDays)
		assert.Equal(t, 20, found.PostLimit)
		assert.True(t, decimal.NewFromInt(899000).Equal(found.Price))
	})

	t.Run("updating a missing package fails", func(t *testing.T) {
		pkg := newCatalogPackage(t, "Ghost Plan")
		err := repo.Update(ctx, pkg)
		require.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("list can hide deactivated packages", func(t *testing.T) {
		pkg := newCatalogPackage(t, "Retired Plan")
		require.NoError(t, repo.Save(ctx, pkg))
		pkg.Deactivate()
		require.NoError(t, repo.Update(ctx, pkg))

		active, err := repo.FindAll(ctx, true)
		require.NoError(t, err)
		for _, p := range active {
			assert.NotEqual(t, "Retired Plan", p.Name)
		}

		all, err := repo.FindAll(ctx, false)
		require.NoError(t, err)
		names := make([]string, 0, len(all))
		for _, p := range all {
			names = append(names, p.Name)
		}
		assert.Contains(t, names, "Retired Plan")
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}
