package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/listing"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/renthub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormListingRepository implements ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

// Save inserts a new listing
func (r *GormListingRepository) Save(ctx context.Context, l *listing.Listing) error {
	var model models.ListingModel
	model.FromDomain(l)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update persists listing changes
func (r *GormListingRepository) Update(ctx context.Context, l *listing.Listing) error {
	var model models.ListingModel
	model.FromDomain(l)

	result := r.db.WithContext(ctx).
		Model(&models.ListingModel{}).
		Where("id = ?", l.ID).
		Updates(map[string]interface{}{
			"title":        model.Title,
			"address":      model.Address,
			"monthly_rent": model.MonthlyRent,
			"area_sqm":     model.AreaSqm,
			"description":  model.Description,
			"status":       model.Status,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a listing by its ID
func (r *GormListingRepository) FindByID(ctx context.Context, id uuid.UUID) (*listing.Listing, error) {
	var model models.ListingModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// List returns listings matching the filter plus the total count, newest first
func (r *GormListingRepository) List(ctx context.Context, filter listing.ListingFilter) ([]*listing.Listing, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ListingModel{})
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

	var listingModels []models.ListingModel
	if err := query.
		Order("created_at DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&listingModels).Error; err != nil {
		return nil, 0, err
	}

	listings := make([]*listing.Listing, len(listingModels))
	for i := range listingModels {
		listings[i] = listingModels[i].ToDomain()
	}
	return listings, total, nil
}

// Ensure GormListingRepository implements ListingRepository
var _ listing.ListingRepository = (*GormListingRepository)(nil)
