package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/shopspring/decimal"
)

// TransactionModel is the persistence model for payment transactions
type TransactionModel struct {
	AggregateModel
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	PackageName   string          `gorm:"size:200;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency      string          `gorm:"size:3;not null"`
	Method        string          `gorm:"size:100"`
	ReferenceNote string          `gorm:"size:500"`
	Status        string          `gorm:"size:20;not null;index"`
	DecidedAt     *time.Time
	DecidedBy     *uuid.UUID `gorm:"type:uuid"`
	RejectReason  string     `gorm:"size:500"`
}

// TableName specifies the table name for TransactionModel
func (TransactionModel) TableName() string {
	return "payment_transactions"
}

// ToDomain converts TransactionModel to a domain PaymentTransaction
func (m *TransactionModel) ToDomain() *membership.PaymentTransaction {
	return &membership.PaymentTransaction{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		PackageName:       m.PackageName,
		Amount:            m.Amount,
		Currency:          membership.Currency(m.Currency),
		Method:            m.Method,
		ReferenceNote:     m.ReferenceNote,
		Status:            membership.TransactionStatus(m.Status),
		DecidedAt:         m.DecidedAt,
		DecidedBy:         m.DecidedBy,
		RejectReason:      m.RejectReason,
	}
}

// FromDomain populates TransactionModel from a domain PaymentTransaction
func (m *TransactionModel) FromDomain(tx *membership.PaymentTransaction) {
	m.FromDomainAggregateRoot(tx.BaseAggregateRoot)
	m.UserID = tx.UserID
	m.PackageName = tx.PackageName
	m.Amount = tx.Amount
	m.Currency = tx.Currency.String()
	m.Method = tx.Method
	m.ReferenceNote = tx.ReferenceNote
	m.Status = tx.Status.String()
	m.DecidedAt = tx.DecidedAt
	m.DecidedBy = tx.DecidedBy
	m.RejectReason = tx.RejectReason
}

// MembershipModel is the persistence model for the one-per-user membership
type MembershipModel struct {
	AggregateModel
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Tier              string    `gorm:"size:20;not null"`
	PackageName       string    `gorm:"size:200;not null"`
	PostLimit         int       `gorm:"not null"`
	StartDate         time.Time `gorm:"not null"`
	EndDate           time.Time `gorm:"not null;index"`
	LastRenewedMonth  string    `gorm:"size:7;not null"`
	PostCountInPeriod int       `gorm:"not null;default:0"`
}

// TableName specifies the table name for MembershipModel
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts MembershipModel to a domain Membership
func (m *MembershipModel) ToDomain() *membership.Membership {
	return &membership.Membership{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		UserID:            m.UserID,
		Tier:              membership.Tier(m.Tier),
		PackageName:       m.PackageName,
		PostLimit:         m.PostLimit,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		LastRenewedMonth:  m.LastRenewedMonth,
		PostCountInPeriod: m.PostCountInPeriod,
	}
}

// FromDomain populates MembershipModel from a domain Membership
func (m *MembershipModel) FromDomain(ms *membership.Membership) {
	m.FromDomainAggregateRoot(ms.BaseAggregateRoot)
	m.UserID = ms.UserID
	m.Tier = ms.Tier.String()
	m.PackageName = ms.PackageName
	m.PostLimit = ms.PostLimit
	m.StartDate = ms.StartDate
	m.EndDate = ms.EndDate
	m.LastRenewedMonth = ms.LastRenewedMonth
	m.PostCountInPeriod = ms.PostCountInPeriod
}

// PackageModel is the persistence model for catalog packages
type PackageModel struct {
	AggregateModel
	Name         string          `gorm:"size:200;not null;uniqueIndex"`
	Price        decimal.Decimal `gorm:"type:decimal(20,4);not null"`
	Currency     string          `gorm:"size:3;not null"`
	DurationDays int             `gorm:"not null"`
	PostLimit    int             `gorm:"not null"`
	Description  string          `gorm:"size:1000"`
	IsActive     bool            `gorm:"not null;default:true;index"`
}

// TableName specifies the table name for PackageModel
func (PackageModel) TableName() string {
	return "membership_packages"
}

// ToDomain converts PackageModel to a domain MembershipPackage
func (m *PackageModel) ToDomain() *membership.MembershipPackage {
	return &membership.MembershipPackage{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Price:             m.Price,
		Currency:          membership.Currency(m.Currency),
		DurationDays:      m.DurationDays,
		PostLimit:         m.PostLimit,
		Description:       m.Description,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates PackageModel from a domain MembershipPackage
func (m *PackageModel) FromDomain(p *membership.MembershipPackage) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Price = p.Price
	m.Currency = p.Currency.String()
	m.DurationDays = p.DurationDays
	m.PostLimit = p.PostLimit
	m.Description = p.Description
	m.IsActive = p.IsActive
}
