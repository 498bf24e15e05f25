package membership

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// Mock implementations

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) Save(ctx context.Context, tx *membership.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) Update(ctx context.Context, tx *membership.PaymentTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.PaymentTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.PaymentTransaction), args.Error(1)
}

func (m *mockTransactionRepository) List(ctx context.Context, filter membership.TransactionFilter) ([]*membership.PaymentTransaction, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*membership.PaymentTransaction), args.Get(1).(int64), args.Error(2)
}

type mockMembershipRepository struct {
	mock.Mock
}

func (m *mockMembershipRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*membership.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.Membership), args.Error(1)
}

func (m *mockMembershipRepository) Save(ctx context.Context, ms *membership.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *mockMembershipRepository) Update(ctx context.Context, ms *membership.Membership) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

type mockPackageRepository struct {
	mock.Mock
}

func (m *mockPackageRepository) Save(ctx context.Context, pkg *membership.MembershipPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) Update(ctx context.Context, pkg *membership.MembershipPackage) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) FindByID(ctx context.Context, id uuid.UUID) (*membership.MembershipPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipPackage), args.Error(1)
}

func (m *mockPackageRepository) FindByName(ctx context.Context, name string) (*membership.MembershipPackage, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*membership.MembershipPackage), args.Error(1)
}

func (m *mockPackageRepository) FindAll(ctx context.Context, activeOnly bool) ([]*membership.MembershipPackage, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*membership.MembershipPackage), args.Error(1)
}

type mockGranter struct {
	mock.Mock
}

func (m *mockGranter) Grant(ctx context.Context, userID uuid.UUID, packageName string) (*MembershipDecision, error) {
	args := m.Called(ctx, userID, packageName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*MembershipDecision), args.Error(1)
}

// recordingPublisher captures published events for assertions
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) eventTypes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.EventType())
	}
	return types
}

// fakeMembershipStore is a stateful in-memory membership repository with
// version checking, used by multi-step scenario tests
type fakeMembershipStore struct {
	mu      sync.Mutex
	records map[uuid.UUID]*membership.Membership
}

func newFakeMembershipStore() *fakeMembershipStore {
	return &fakeMembershipStore{records: make(map[uuid.UUID]*membership.Membership)}
}

func (s *fakeMembershipStore) FindByUserID(_ context.Context, userID uuid.UUID) (*membership.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.records[userID]
	if !ok {
		return nil, shared.ErrNotFound
	}
	clone := *m
	clone.ClearDomainEvents()
	return &clone, nil
}

func (s *fakeMembershipStore) Save(_ context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[m.UserID]; ok {
		return shared.ErrAlreadyExists
	}
	clone := *m
	s.records[m.UserID] = &clone
	return nil
}

// alwaysConflictStore simulates a membership row that keeps moving under
// the writer
type alwaysConflictStore struct {
	*fakeMembershipStore
}

func (s alwaysConflictStore) Update(context.Context, *membership.Membership) error {
	return shared.ErrConcurrencyConflict
}

func (s *fakeMembershipStore) Update(_ context.Context, m *membership.Membership) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	current, ok := s.records[m.UserID]
	if !ok {
		return shared.ErrNotFound
	}
	if current.Version != m.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	clone := *m
	s.records[m.UserID] = &clone
	return nil
}
