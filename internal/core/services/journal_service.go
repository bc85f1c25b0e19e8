package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

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

// journalService hosts the posting primitives and the balance algorithms.
type journalService struct {
	journalRepo     portsrepo.JournalRepositoryFacade
	txnRepo         portsrepo.TransactionRepositoryFacade
	resolver        ports.ReferenceResolver
	defaultCurrency string
	clock           ports.Clock
	newID           ports.IDGenerator
}

// NewJournalService creates a new JournalService. resolver may be nil when
// reference resolution is not needed; clock and newID may be nil to use the
// real clock and random UUIDs.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, resolver ports.ReferenceResolver, defaultCurrency string, clock ports.Clock, newID ports.IDGenerator) portssvc.JournalSvcFacade {
	if clock == nil {
		clock = ports.RealClock()
	}
	if newID == nil {
		newID = ports.UUIDGenerator
	}
	return &journalService{
		journalRepo:     journalRepo,
		txnRepo:         txnRepo,
		resolver:        resolver,
		defaultCurrency: defaultCurrency,
		clock:           clock,
		newID:           newID,
	}
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// InitJournal creates the single journal attached to an external owner.
// The balance starts at zero and is recomputed immediately after creation,
// so a drifted cache can never survive construction.
func (s *journalService) InitJournal(ctx context.Context, req dto.InitJournalRequest) (*domain.Journal, error) {
	logger := logging.FromCtx(ctx)

	if req.OwnerType == "" {
		return nil, fmt.Errorf("%w: owner type must not be empty", apperrors.ErrValidation)
	}

	owner := domain.ObjectRef{Type: req.OwnerType, ID: req.OwnerID}
	existing, err := s.journalRepo.FindJournalByOwner(ctx, owner)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to look up journal by owner", slog.String("error", err.Error()), slog.String("owner_type", owner.Type))
		return nil, fmt.Errorf("failed to look up journal for owner: %w", err)
	}
	if existing != nil {
		return nil, apperrors.ErrJournalAlreadyExists
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = s.defaultCurrency
	}

	now := s.clock.Now().UTC()
	journal := domain.Journal{
		JournalID: s.newID(),
		LedgerID:  req.LedgerID,
		Currency:  currency,
		Balance:   0,
		OwnerType: owner.Type,
		OwnerID:   owner.ID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.journalRepo.SaveJournal(ctx, journal); err != nil {
		logger.Error("Failed to save journal", slog.String("error", err.Error()), slog.String("owner_type", owner.Type))
		return nil, fmt.Errorf("failed to save journal: %w", err)
	}

	balance, err := s.ResetCurrentBalances(ctx, journal.JournalID)
	if err != nil {
		return nil, err
	}
	journal.Balance = balance.Amount

	logger.Info("Journal initialized", slog.String("journal_id", journal.JournalID), slog.String("currency", currency))
	return &journal, nil
}

// GetJournalByID retrieves a journal.
func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	return journal, nil
}

// AssignToLedger reparents the journal under the given ledger.
func (s *journalService) AssignToLedger(ctx context.Context, journalID string, ledgerID string) error {
	logger := logging.FromCtx(ctx)
	if err := s.journalRepo.AssignJournalToLedger(ctx, journalID, ledgerID); err != nil {
		logger.Error("Failed to assign journal to ledger", slog.String("error", err.Error()), slog.String("journal_id", journalID), slog.String("ledger_id", ledgerID))
		return fmt.Errorf("failed to assign journal %s to ledger %s: %w", journalID, ledgerID, err)
	}
	logger.Info("Journal assigned to ledger", slog.String("journal_id", journalID), slog.String("ledger_id", ledgerID))
	return nil
}

// Credit posts a single credit line against the journal.
func (s *journalService) Credit(ctx context.Context, journalID string, amount domain.Money, memo string, postDate *time.Time, groupID *string) (*domain.JournalTransaction, error) {
	return s.post(ctx, journalID, domain.Credit, amount, memo, postDate, groupID)
}

// Debit posts a single debit line against the journal.
func (s *journalService) Debit(ctx context.Context, journalID string, amount domain.Money, memo string, postDate *time.Time, groupID *string) (*domain.JournalTransaction, error) {
	return s.post(ctx, journalID, domain.Debit, amount, memo, postDate, groupID)
}

// CreditDollars converts a major-unit amount to minor units by truncation
// and credits the journal in its own currency.
func (s *journalService) CreditDollars(ctx context.Context, journalID string, dollars decimal.Decimal, memo string, postDate *time.Time) (*domain.JournalTransaction, error) {
	return s.Credit(ctx, journalID, domain.NewMoney(accounting.DollarsToCents(dollars), ""), memo, postDate, nil)
}

// DebitDollars converts a major-unit amount to minor units by truncation
// and debits the journal in its own currency.
func (s *journalService) DebitDollars(ctx context.Context, journalID string, dollars decimal.Decimal, memo string, postDate *time.Time) (*domain.JournalTransaction, error) {
	return s.Debit(ctx, journalID, domain.NewMoney(accounting.DollarsToCents(dollars), ""), memo, postDate, nil)
}

// post builds exactly one transaction line and applies it through the
// storage collaborator's atomic scope, which also refreshes the journal's
// cached balance.
//
// Amounts are not validated here: callers routing through the double-entry
// Transaction layer get the invariant checks there, and direct callers
// (bulk/import scenarios) are trusted. The debit-XOR-credit invariant is
// still enforced at the storage boundary.
func (s *journalService) post(ctx context.Context, journalID string, side domain.TransactionType, amount domain.Money, memo string, postDate *time.Time, groupID *string) (*domain.JournalTransaction, error) {
	logger := logging.FromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return nil, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}

	currency := amount.Currency
	if currency == "" {
		currency = journal.Currency
	}

	pd := s.clock.Now().UTC()
	if postDate != nil {
		pd = *postDate
	}

	now := s.clock.Now().UTC()
	txn := domain.JournalTransaction{
		TransactionID:      s.newID(),
		JournalID:          journal.JournalID,
		Currency:           currency,
		Memo:               memo,
		PostDate:           pd,
		TransactionGroupID: groupID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	value := amount.Amount
	if side == domain.Debit {
		txn.Debit = &value
	} else {
		txn.Credit = &value
	}

	if err := s.txnRepo.SaveTransactions(ctx, []domain.JournalTransaction{txn}); err != nil {
		logger.Error("Failed to post transaction", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return nil, fmt.Errorf("failed to post %s of %d to journal %s: %w", side, value, journalID, err)
	}

	logger.Debug("Transaction posted", slog.String("transaction_id", txn.TransactionID), slog.String("journal_id", journalID), slog.String("side", string(side)), slog.Int64("amount", value))
	return &txn, nil
}

// GetBalance returns sum(debit) - sum(credit) over all non-deleted lines,
// ignoring post dates. This may include future-dated entries.
func (s *journalService) GetBalance(ctx context.Context, journalID string) (domain.Money, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	sums, err := s.journalRepo.SumTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return domain.NewMoney(accounting.RawBalance(sums.Debit, sums.Credit), journal.Currency), nil
}

// GetBalanceOn returns sum(debit) - sum(credit) over non-deleted lines with
// post_date <= date (inclusive).
func (s *journalService) GetBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	sums, err := s.journalRepo.SumTransactionsOnOrBefore(ctx, journalID, date)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return domain.NewMoney(accounting.RawBalance(sums.Debit, sums.Credit), journal.Currency), nil
}

// GetDebitBalanceOn returns the debit-only total with post_date <= date.
func (s *journalService) GetDebitBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	sums, err := s.journalRepo.SumTransactionsOnOrBefore(ctx, journalID, date)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return domain.NewMoney(sums.Debit, journal.Currency), nil
}

// GetCreditBalanceOn returns the credit-only total with post_date <= date.
func (s *journalService) GetCreditBalanceOn(ctx context.Context, journalID string, date time.Time) (domain.Money, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	sums, err := s.journalRepo.SumTransactionsOnOrBefore(ctx, journalID, date)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return domain.NewMoney(sums.Credit, journal.Currency), nil
}

// GetCurrentBalance returns the balance as of now, excluding future-dated
// lines.
func (s *journalService) GetCurrentBalance(ctx context.Context, journalID string) (domain.Money, error) {
	return s.GetBalanceOn(ctx, journalID, s.clock.Now())
}

// GetBalanceInDollars returns GetBalance in major units.
func (s *journalService) GetBalanceInDollars(ctx context.Context, journalID string) (decimal.Decimal, error) {
	balance, err := s.GetBalance(ctx, journalID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.ToDollars(), nil
}

// GetCurrentBalanceInDollars returns GetCurrentBalance in major units.
func (s *journalService) GetCurrentBalanceInDollars(ctx context.Context, journalID string) (decimal.Decimal, error) {
	balance, err := s.GetCurrentBalance(ctx, journalID)
	if err != nil {
		return decimal.Zero, err
	}
	return balance.ToDollars(), nil
}

// dayWindow returns the inclusive [start-of-day, end-of-day] range of the
// calendar day containing date, in date's own location.
func dayWindow(date time.Time) (time.Time, time.Time) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// GetDollarsDebitedOn returns the major-unit debit total posted within the
// calendar day of date.
func (s *journalService) GetDollarsDebitedOn(ctx context.Context, journalID string, date time.Time) (decimal.Decimal, error) {
	start, end := dayWindow(date)
	sums, err := s.journalRepo.SumTransactionsBetween(ctx, journalID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return accounting.CentsToDollars(sums.Debit), nil
}

// GetDollarsCreditedOn returns the major-unit credit total posted within the
// calendar day of date.
func (s *journalService) GetDollarsCreditedOn(ctx context.Context, journalID string, date time.Time) (decimal.Decimal, error) {
	start, end := dayWindow(date)
	sums, err := s.journalRepo.SumTransactionsBetween(ctx, journalID, start, end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}
	return accounting.CentsToDollars(sums.Credit), nil
}

// GetDollarsDebitedToday returns GetDollarsDebitedOn for the clock's today.
func (s *journalService) GetDollarsDebitedToday(ctx context.Context, journalID string) (decimal.Decimal, error) {
	return s.GetDollarsDebitedOn(ctx, journalID, s.clock.Now())
}

// GetDollarsCreditedToday returns GetDollarsCreditedOn for the clock's today.
func (s *journalService) GetDollarsCreditedToday(ctx context.Context, journalID string) (decimal.Decimal, error) {
	return s.GetDollarsCreditedOn(ctx, journalID, s.clock.Now())
}

// ResetCurrentBalances force-recomputes the cached balance from the full
// non-deleted line set and persists it. This is the canonical recovery
// operation when the cache drifts, and it is idempotent.
func (s *journalService) ResetCurrentBalances(ctx context.Context, journalID string) (domain.Money, error) {
	logger := logging.FromCtx(ctx)

	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to find journal by ID %s: %w", journalID, err)
	}
	sums, err := s.journalRepo.SumTransactionsByJournalID(ctx, journalID)
	if err != nil {
		return domain.Money{}, fmt.Errorf("failed to sum transactions for journal %s: %w", journalID, err)
	}

	balance := accounting.RawBalance(sums.Debit, sums.Credit)
	if err := s.journalRepo.UpdateJournalBalance(ctx, journalID, balance, s.clock.Now().UTC()); err != nil {
		logger.Error("Failed to persist recomputed balance", slog.String("error", err.Error()), slog.String("journal_id", journalID))
		return domain.Money{}, fmt.Errorf("failed to persist balance for journal %s: %w", journalID, err)
	}

	logger.Debug("Journal balance recomputed", slog.String("journal_id", journalID), slog.Int64("balance", balance))
	return domain.NewMoney(balance, journal.Currency), nil
}

// TransactionsReferencingObject returns the journal's lines carrying a
// matching external reference.
func (s *journalService) TransactionsReferencingObject(ctx context.Context, journalID string, ref domain.ObjectRef) ([]domain.JournalTransaction, error) {
	txns, err := s.txnRepo.FindTransactionsByReference(ctx, journalID, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to find transactions referencing %s/%d on journal %s: %w", ref.Type, ref.ID, journalID, err)
	}
	return txns, nil
}

// SetReference attaches a weak external reference to an existing line.
// Idempotent and re-settable.
func (s *journalService) SetReference(ctx context.Context, transactionID string, ref domain.ObjectRef) error {
	if err := s.txnRepo.UpdateTransactionReference(ctx, transactionID, ref, s.clock.Now().UTC()); err != nil {
		return fmt.Errorf("failed to set reference on transaction %s: %w", transactionID, err)
	}
	return nil
}

// GetReferencedObject resolves a line's external reference through the
// injected resolver. Returns nil when no reference is set.
func (s *journalService) GetReferencedObject(ctx context.Context, transactionID string) (any, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	if txn.Ref == nil {
		return nil, nil
	}
	if s.resolver == nil {
		return nil, fmt.Errorf("%w: no reference resolver configured", apperrors.ErrReferenceResolution)
	}
	obj, err := s.resolver.ResolveReference(ctx, *txn.Ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%d: %s", apperrors.ErrReferenceResolution, txn.Ref.Type, txn.Ref.ID, err.Error())
	}
	return obj, nil
}

// DeleteTransaction soft-deletes a line and then recomputes the owning
// journal's balance, so the cache never reflects a deleted line. The
// recompute is an explicit step here rather than a storage-side trigger.
func (s *journalService) DeleteTransaction(ctx context.Context, transactionID string) error {
	logger := logging.FromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	if err := s.txnRepo.SoftDeleteTransaction(ctx, transactionID, s.clock.Now().UTC()); err != nil {
		logger.Error("Failed to soft delete transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}

	if _, err := s.ResetCurrentBalances(ctx, txn.JournalID); err != nil {
		return err
	}

	logger.Info("Transaction deleted", slog.String("transaction_id", transactionID), slog.String("journal_id", txn.JournalID))
	return nil
}
