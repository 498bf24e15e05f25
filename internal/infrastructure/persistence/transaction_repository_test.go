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

func setupTransactionTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.TransactionModel{}))
	return db
}

func newTestTransaction(t *testing.T, userID uuid.UUID, packageName string) *membership.PaymentTransaction {
	t.Helper()
	tx, err := membership.NewPaymentTransaction(userID, packageName, decimal.NewFromInt(799000), membership.CurrencyVND, "bank_transfer", "memo")
	require.NoError(t, err)
	tx.ClearDomainEvents()
	return tx
}

func TestGormTransactionRepository_SaveAndFind(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	t.Run("round-trips a pending transaction", func(t *testing.T) {
		tx := newTestTransaction(t, uuid.New(), "Premium Plan")
		require.NoError(t, repo.Save(ctx, tx))

		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, tx.ID, found.ID)
		assert.Equal(t, membership.TransactionStatusPending, found.Status)
		assert.True(t, tx.Amount.Equal(found.Amount))
		assert.Equal(t, membership.CurrencyVND, found.Currency)
		assert.Nil(t, found.DecidedAt)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		require.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormTransactionRepository_Update(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()
	operator := uuid.New()

	t.Run("persists an approval", func(t *testing.T) {
		tx := newTestTransaction(t, uuid.New(), "Premium Plan")
		require.NoError(t, repo.Save(ctx, tx))

		require.NoError(t, tx.Approve(operator))
		tx.ClearDomainEvents()
		require.NoError(t, repo.Update(ctx, tx))

		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, membership.TransactionStatusApproved, found.Status)
		require.NotNil(t, found.DecidedBy)
		assert.Equal(t, operator, *found.DecidedBy)
		assert.Equal(t, 2, found.Version)
	})

	t.Run("two operators cannot decide the same claim", func(t *testing.T) {
		tx := newTestTransaction(t, uuid.New(), "Premium Plan")
		require.NoError(t, repo.Save(ctx, tx))

		first, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)

		require.NoError(t, first.Approve(operator))
		require.NoError(t, repo.Update(ctx, first))

		require.NoError(t, second.Reject(operator, "duplicate claim"))
		err = repo.Update(ctx, second)
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)

		found, err := repo.FindByID(ctx, tx.ID)
		require.NoError(t, err)
		assert.Equal(t, membership.TransactionStatusApproved, found.Status)
	})
}

func TestGormTransactionRepository_List(t *testing.T) {
	db := setupTransactionTestDB(t)
	repo := NewGormTransactionRepository(db)
	ctx := context.Background()

	alice := uuid.New()
	bob := uuid.New()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, newTestTransaction(t, alice, "Premium Plan")))
	}
	require.NoError(t, repo.Save(ctx, newTestTransaction(t, bob, "Basic Plan")))

	t.Run("filters by user", func(t *testing.T) {
		found, total, err := repo.List(ctx, membership.TransactionFilter{UserID: &alice, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 3)
	})

	t.Run("filters by status", func(t *testing.T) {
		pending := membership.TransactionStatusPending
		_, total, err := repo.List(ctx, membership.TransactionFilter{Status: &pending, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("paginates", func(t *testing.T) {
		found, total, err := repo.List(ctx, membership.TransactionFilter{UserID: &alice, Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, found, 1)
	})
}
