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

// GormPackageRepository implements PackageRepository using GORM
type GormPackageRepository struct {
	db *gorm.DB
}

// NewGormPackageRepository creates a new GormPackageRepository
func NewGormPackageRepository(db *gorm.DB) *GormPackageRepository {
	return &GormPackageRepository{db: db}
}

// Save inserts a new catalog package
func (r *GormPackageRepository) Save(ctx context.Context, pkg *membership.MembershipPackage) error {
	var model models.PackageModel
	model.FromDomain(pkg)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update persists changed package terms
func (r *GormPackageRepository) Update(ctx context.Context, pkg *membership.MembershipPackage) error {
	var model models.PackageModel
	model.FromDomain(pkg)

	result := r.db.WithContext(ctx).
		Model(&models.PackageModel{}).
		Where("id = ?", pkg.ID).
		Updates(map[string]interface{}{
			"price":         model.Price,
			"duration_days": model.DurationDays,
			"post_limit":    model.PostLimit,
			"description":   model.Description,
			"is_active":     model.IsActive,
			"version":       model.Version,
			"updated_at":    model.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID finds a package by its ID
func (r *GormPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MembershipPackage, error) {
	var model models.PackageModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByName finds a package by its exact display name
func (r *GormPackageRepository) FindByName(ctx context.Context, name string) (*membership.MembershipPackage, error) {
	var model models.PackageModel
	if err := r.db.WithContext(ctx).First(&model, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll returns catalog packages, optionally only active ones
func (r *GormPackageRepository) FindAll(ctx context.Context, activeOnly bool) ([]*membership.MembershipPackage, error) {
	query := r.db.WithContext(ctx).Model(&models.PackageModel{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var pkgModels []models.PackageModel
	if err := query.Order("name ASC").Find(&pkgModels).Error; err != nil {
		return nil, err
	}

	packages := make([]*membership.MembershipPackage, len(pkgModels))
	for i := range pkgModels {
		packages[i] = pkgModels[i].ToDomain()
	}
	return packages, nil
}

// Ensure GormPackageRepository implements PackageRepository
var _ membership.PackageRepository = (*GormPackageRepository)(nil)
