package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/listing"
	"github.com/shopspring/decimal"
)

// ListingModel is the persistence model for rental listings
type ListingModel struct {
	AggregateModel
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Title       string          `gorm:"size:200;not null"`
	Address     string          `gorm:"size:500;not null"`
	MonthlyRent decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	AreaSqm     float64
	Description string `gorm:"size:2000"`
	Status      string `gorm:"size:20;not null;index"`
	PublishedAt *time.Time
}

// TableName specifies the table name for ListingModel
func (ListingModel) TableName() string {
	return "listings"
}

// ToDomain converts ListingModel to a domain Listing
func (m *ListingModel) ToDomain() *listing.Listing {
	return &listing.Listing{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		Title:             m.Title,
		Address:           m.Address,
		MonthlyRent:       m.MonthlyRent,
		AreaSqm:           m.AreaSqm,
		Description:       m.Description,
		Status:            listing.ListingStatus(m.Status),
		PublishedAt:       m.PublishedAt,
	}
}

// FromDomain populates ListingModel from a domain Listing
func (m *ListingModel) FromDomain(l *listing.Listing) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.UserID = l.UserID
	m.Title = l.Title
	m.Address = l.Address
	m.MonthlyRent = l.MonthlyRent
	m.AreaSqm = l.AreaSqm
	m.Description = l.Description
	m.Status = l.Status.String()
	m.PublishedAt = l.PublishedAt
}
