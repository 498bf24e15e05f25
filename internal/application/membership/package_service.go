package membership

import (
	"context"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePackageInput carries a new catalog entry
type CreatePackageInput struct {
	Name         string
	Price        string
	Currency     string
	DurationDays int
	PostLimit    int
	Description  string
}

// UpdatePackageInput carries new terms for an existing entry
type UpdatePackageInput struct {
	Price        string
	DurationDays int
	PostLimit    int
	Description  string
}

// PackageService manages the membership catalog. Packages referenced by
// transactions are deactivated rather than deleted, and edits never change
// the terms of grants already made.
type PackageService struct {
	packageRepo membership.PackageRepository
	logger      *zap.Logger
}

// NewPackageService creates a new PackageService
func NewPackageService(packageRepo membership.PackageRepository, logger *zap.Logger) *PackageService {
	return &PackageService{
		packageRepo: packageRepo,
		logger:      logger,
	}
}

// Create adds a package to the catalog
func (s *PackageService) Create(ctx context.Context, input CreatePackageInput) (*membership.MembershipPackage, error) {
	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is not a valid decimal number")
	}

	pkg, err := membership.NewMembershipPackage(input.Name, price, membership.Currency(input.Currency), input.DurationDays, input.PostLimit)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		pkg.SetDescription(input.Description)
	}

	if err := s.packageRepo.Save(ctx, pkg); err != nil {
		return nil, err
	}

	s.logger.Info("package created",
		zap.String("package_id", pkg.ID.String()),
		zap.String("name", pkg.Name),
		zap.String("tier", pkg.Tier().String()),
	)
	return pkg, nil
}

// Update changes a package's terms
func (s *PackageService) Update(ctx context.Context, id uuid.UUID, input UpdatePackageInput) (*membership.MembershipPackage, error) {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(input.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price is not a valid decimal number")
	}

	if err := pkg.UpdateTerms(price, input.DurationDays, input.PostLimit); err != nil {
		return nil, err
	}
	if input.Description != "" {
		pkg.SetDescription(input.Description)
	}

	if err := s.packageRepo.Update(ctx, pkg); err != nil {
		return nil, err
	}
	return pkg, nil
}

// Deactivate hides a package from new submissions
func (s *PackageService) Deactivate(ctx context.Context, id uuid.UUID) error {
	pkg, err := s.packageRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	pkg.Deactivate()
	return s.packageRepo.Update(ctx, pkg)
}

// Get returns a package by ID
func (s *PackageService) Get(ctx context.Context, id uuid.UUID) (*membership.MembershipPackage, error) {
	return s.packageRepo.FindByID(ctx, id)
}

// List returns catalog packages
func (s *PackageService) List(ctx context.Context, activeOnly bool) ([]*membership.MembershipPackage, error) {
	return s.packageRepo.FindAll(ctx, activeOnly)
}
