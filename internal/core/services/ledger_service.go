package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/core/ports"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/accounting/internal/core/ports/services"
	"github.com/ledgerline/accounting/internal/dto"
	"github.com/ledgerline/accounting/internal/platform/logging"
	"github.com/ledgerline/accounting/internal/utils/accounting"
)

// ledgerService classifies accounts and derives polarity-applied balances.
type ledgerService struct {
	ledgerRepo      portsrepo.LedgerRepositoryFacade
	defaultCurrency string
	clock           ports.Clock
	newID           ports.IDGenerator
}

// NewLedgerService creates a new LedgerService. clock and newID may be nil,
// in which case the real clock and random UUIDs are used.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, defaultCurrency string, clock ports.Clock, newID ports.IDGenerator) portssvc.LedgerSvcFacade {
	if clock == nil {
		clock = ports.RealClock()
	}
	if newID == nil {
		newID = ports.UUIDGenerator
	}
	return &ledgerService{
		ledgerRepo:      ledgerRepo,
		defaultCurrency: defaultCurrency,
		clock:           clock,
		newID:           newID,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateLedger creates a new ledger after validating name and type. The
// type is immutable afterwards; changing it would silently invert the
// meaning of every historical balance.
func (s *ledgerService) CreateLedger(ctx context.Context, req dto.CreateLedgerRequest) (*domain.Ledger, error) {
	logger := logging.FromCtx(ctx)

	if req.Name == "" {
		return nil, fmt.Errorf("%w: ledger name must not be empty", apperrors.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: unknown ledger type '%s'", apperrors.ErrValidation, req.Type)
	}

	now := s.clock.Now().UTC()
	ledger := domain.Ledger{
		LedgerID: s.newID(),
		Name:     req.Name,
		Type:     req.Type,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
		logger.Error("Failed to save ledger", slog.String("error", err.Error()), slog.String("ledger_name", req.Name))
		return nil, fmt.Errorf("failed to save ledger: %w", err)
	}

	logger.Info("Ledger created", slog.String("ledger_id", ledger.LedgerID), slog.String("type", string(ledger.Type)))
	return &ledger, nil
}

// GetLedgerByID retrieves a ledger.
func (s *ledgerService) GetLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find ledger by ID %s: %w", ledgerID, err)
	}
	return ledger, nil
}

// GetCurrentBalance sums raw debit and credit totals across every
// non-deleted transaction of every journal under the ledger and applies the
// polarity rule of the ledger's type. The requested currency only labels the
// result; member journals' currencies are not validated against it and
// amounts are aggregated as raw minor-unit integers.
func (s *ledgerService) GetCurrentBalance(ctx context.Context, ledgerID string, currency string) (domain.Money, error) {
	logger := logging.FromCtx(ctx)

	ledger, err := s.ledgerRepo.FindLedgerByID(ctx, ledgerID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find ledger by ID %s: %w", ledgerID, err)
	}

	sums, err := s.ledgerRepo.SumTransactionsByLedgerID(ctx, ledgerID)
	if err != nil {
		logger.Error("Failed to aggregate ledger transactions", slog.String("error", err.Error()), slog.String("ledger_id", ledgerID))
		return domain.Money{}, fmt.Errorf("failed to aggregate ledger %s: %w", ledgerID, err)
	}

	balance, err := accounting.LedgerBalance(ledger.Type, sums.Debit, sums.Credit)
	if err != nil {
		return domain.Money{}, fmt.Errorf("%w: %s", apperrors.ErrInternal, err.Error())
	}

	return domain.NewMoney(balance, currency), nil
}

// GetCurrentBalanceInDollars returns the ledger balance in major units,
// labelled with the configured default currency.
func (s *ledgerService) GetCurrentBalanceInDollars(ctx context.Context, ledgerID string) (decimal.Decimal, error) {
	balance, err := s.GetCurrentBalance(ctx, ledgerID, s.defaultCurrency)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.ToDollars(), nil
}
