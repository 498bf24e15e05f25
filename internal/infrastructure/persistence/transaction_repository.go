package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/renthub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// Save inserts a new transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *membership.PaymentTransaction) error {
	var model models.TransactionModel
	model.FromDomain(tx)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists a decided transaction with an optimistic version check
func (r *GormTransactionRepository) Update(ctx context.Context, tx *membership.PaymentTransaction) error {
	var model models.TransactionModel
	model.FromDomain(tx)

	result := r.db.WithContext(ctx).
		Model(&models.TransactionModel{}).
		Where("id = ? AND version = ?", tx.ID, tx.Version-1).
		Updates(map[string]interface{}{
			"status":        model.Status,
			"decided_at":    model.DecidedAt,
			"decided_by":    model.DecidedBy,
			"reject_reason": model.RejectReason,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.PaymentTransaction, error) {
	var model models.TransactionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns transactions matching the filter plus the total count,
// newest first
func (r *GormTransactionRepository) List(ctx context.Context, filter membership.TransactionFilter) ([]*membership.PaymentTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TransactionModel{})
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txModels []models.TransactionModel
	if err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&txModels).Error; err != nil {
		return nil, 0, err
	}

	transactions := make([]*membership.PaymentTransaction, len(txModels))
	for i := range txModels {
		transactions[i] = txModels[i].ToDomain()
	}
	return transactions, total, nil
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ membership.TransactionRepository = (*GormTransactionRepository)(nil)
