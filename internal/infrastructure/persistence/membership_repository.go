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

// GormMembershipRepository implements MembershipRepository using GORM.
// The memberships table has a unique index on user_id, so the one-record-
// per-user rule is enforced by the database as well as the application.
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// FindByUserID finds a user's membership record
func (r *GormMembershipRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*membership.Membership, error) {
	var model models.MembershipModel
	if err := r.db.WithContext(ctx).First(&model, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save inserts a user's first membership
func (r *GormMembershipRepository) Save(ctx context.Context, m *membership.Membership) error {
	var model models.MembershipModel
	model.FromDomain(m)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent grant inserted the row first
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists a replaced window or counter increment with an optimistic
// version check. Two grants racing for the same user serialize here: the
// loser gets shared.ErrConcurrencyConflict and must re-read.
func (r *GormMembershipRepository) Update(ctx context.Context, m *membership.Membership) error {
	var model models.MembershipModel
	model.FromDomain(m)

	result := r.db.WithContext(ctx).
		Model(&models.MembershipModel{}).
		Where("id = ? AND version = ?", m.ID, m.Version-1).
		Updates(map[string]interface{}{
			"tier":                 model.Tier,
			"package_name":         model.PackageName,
			"post_limit":           model.PostLimit,
			"start_date":           model.StartDate,
			"end_date":             model.EndDate,
			"last_renewed_month":   model.LastRenewedMonth,
			"post_count_in_period": model.PostCountInPeriod,
			"version":              model.Version,
			"updated_at":           model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Ensure GormMembershipRepository implements MembershipRepository
var _ membership.MembershipRepository = (*GormMembershipRepository)(nil)
