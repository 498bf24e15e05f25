package membership

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/renthub/backend/internal/domain/membership"
	"github.com/renthub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DecisionOutcome is the operator's verdict on a pending claim
type DecisionOutcome string

const (
	DecisionApprove DecisionOutcome = "APPROVE"
	DecisionReject  DecisionOutcome = "REJECT"
)

// IsValid returns true if the outcome is a known value
func (o DecisionOutcome) IsValid() bool {
	return o == DecisionApprove || o == DecisionReject
}

// EntitlementGranter is the slice of the resolver the ledger needs
type EntitlementGranter interface {
	Grant(ctx context.Context, userID uuid.UUID, packageName string) (*MembershipDecision, error)
}

// LedgerService owns the payment-transaction lifecycle: users submit
// claims, operators decide them exactly once. Approval and the membership
// grant are all-or-nothing: if the grant fails the claim stays pending so
// the operator can see it is still outstanding.
type LedgerService struct {
	txRepo      membership.TransactionRepository
	entitlement EntitlementGranter
	eventBus    shared.EventPublisher
	logger      *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	txRepo membership.TransactionRepository,
	entitlement EntitlementGranter,
	eventBus shared.EventPublisher,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		txRepo:      txRepo,
		entitlement: entitlement,
		eventBus:    eventBus,
		logger:      logger,
	}
}

// Submit records a new pending payment claim
func (s *LedgerService) Submit(ctx context.Context, input SubmitTransactionInput) (*membership.PaymentTransaction, error) {
	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount is not a valid decimal number")
	}

	tx, err := membership.NewPaymentTransaction(
		input.UserID,
		input.PackageName,
		amount,
		membership.Currency(input.Currency),
		input.Method,
		input.ReferenceNote,
	)
	if err != nil {
		return nil, err
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, tx)

	s.logger.Info("transaction submitted",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("user_id", tx.UserID.String()),
		zap.String("package_name", tx.PackageName),
		zap.String("amount", tx.Amount.String()),
	)

	return tx, nil
}

// Decide applies an operator's verdict to a pending transaction. The
// approve path invokes the entitlement grant BEFORE flipping the status;
// any grant failure (unknown plan, renewal throttle, store conflict)
// propagates to the caller and the transaction remains pending.
func (s *LedgerService) Decide(ctx context.Context, transactionID uuid.UUID, outcome DecisionOutcome, decidedBy uuid.UUID, reason string) (*membership.PaymentTransaction, error) {
	if !outcome.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Decision outcome must be APPROVE or REJECT")
	}

	tx, err := s.txRepo.FindByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !tx.Status.CanDecide() {
		return nil, shared.NewDomainError("INVALID_STATE", "Transaction has already been decided")
	}

	switch outcome {
	case DecisionApprove:
		decision, err := s.entitlement.Grant(ctx, tx.UserID, tx.PackageName)
		if err != nil {
			s.logger.Warn("approval aborted, transaction stays pending",
				zap.String("transaction_id", tx.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		if err := tx.Approve(decidedBy); err != nil {
			return nil, err
		}
		s.logger.Info("transaction approved",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("user_id", tx.UserID.String()),
			zap.String("summary", decision.Summary),
		)

	case DecisionReject:
		if err := tx.Reject(decidedBy, reason); err != nil {
			return nil, err
		}
		s.logger.Info("transaction rejected",
			zap.String("transaction_id", tx.ID.String()),
			zap.String("user_id", tx.UserID.String()),
			zap.String("reason", reason),
		)
	}

	if err := s.txRepo.Update(ctx, tx); err != nil {
		if errors.Is(err, shared.ErrConcurrencyConflict) {
			// Another operator decided the same claim in the meantime.
			s.logger.Warn("concurrent decision detected",
				zap.String("transaction_id", tx.ID.String()),
			)
		}
		return nil, err
	}

	s.publishEvents(ctx, tx)

	return tx, nil
}

// Get returns a single transaction by ID
func (s *LedgerService) Get(ctx context.Context, transactionID uuid.UUID) (*membership.PaymentTransaction, error) {
	return s.txRepo.FindByID(ctx, transactionID)
}

// List returns transactions matching the filter
func (s *LedgerService) List(ctx context.Context, filter membership.TransactionFilter) ([]*membership.PaymentTransaction, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.txRepo.List(ctx, filter)
}

func (s *LedgerService) publishEvents(ctx context.Context, tx *membership.PaymentTransaction) {
	if err := s.eventBus.Publish(ctx, tx.GetDomainEvents()...); err != nil {
		s.logger.Error("failed to publish transaction events",
			zap.String("transaction_id", tx.ID.String()),
			zap.Error(err),
		)
	}
	tx.ClearDomainEvents()
}
