package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	"github.com/ledgerline/accounting/internal/core/ports"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	"github.com/ledgerline/accounting/internal/platform/logging"
)

// DoubleEntryService builds transaction groups: the only sanctioned entry
// point for creating balanced groups of journal transactions.
type DoubleEntryService struct {
	journalRepo     portsrepo.JournalRepositoryFacade
	txnRepo         portsrepo.TransactionRepositoryFacade
	defaultCurrency string
	clock           ports.Clock
	newID           ports.IDGenerator
}

// NewDoubleEntryService creates a new DoubleEntryService. clock and newID
// may be nil to use the real clock and random UUIDs.
func NewDoubleEntryService(journalRepo portsrepo.JournalRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, defaultCurrency string, clock ports.Clock, newID ports.IDGenerator) *DoubleEntryService {
	if clock == nil {
		clock = ports.RealClock()
	}
	if newID == nil {
		newID = ports.UUIDGenerator
	}
	return &DoubleEntryService{
		journalRepo:     journalRepo,
		txnRepo:         txnRepo,
		defaultCurrency: defaultCurrency,
		clock:           clock,
		newID:           newID,
	}
}

// NewTransactionGroup returns an empty staging buffer.
func (s *DoubleEntryService) NewTransactionGroup() *Transaction {
	return &Transaction{svc: s}
}

// PendingEntry is one staged posting. Nothing is durable until Commit.
type PendingEntry struct {
	JournalID string
	Method    domain.TransactionType
	Amount    domain.Money
	Memo      string
	Ref       *domain.ObjectRef
	PostDate  *time.Time
	Tags      []string
}

// Transaction accumulates pending postings, enforces the fundamental
// accounting invariant, and commits them atomically. A Transaction is not
// safe for concurrent use; it is a short-lived builder.
type Transaction struct {
	svc     *DoubleEntryService
	pending []PendingEntry
}

// AddTransaction stages one posting. method must be exactly "debit" or
// "credit" and the amount strictly positive; violations are reported
// immediately and stage nothing. An amount with an empty currency label
// takes the journal's currency at commit time.
func (t *Transaction) AddTransaction(journalID string, method string, amount domain.Money, memo string, ref *domain.ObjectRef, postDate *time.Time, tags []string) error {
	side, ok := domain.ParseTransactionType(method)
	if !ok {
		return apperrors.ErrInvalidJournalMethod
	}
	if amount.Amount <= 0 {
		return apperrors.ErrInvalidJournalEntryValue
	}

	t.pending = append(t.pending, PendingEntry{
		JournalID: journalID,
		Method:    side,
		Amount:    amount,
		Memo:      memo,
		Ref:       ref,
		PostDate:  postDate,
		Tags:      tags,
	})
	return nil
}

// AddDollarTransaction stages a posting given in major units, truncated to
// minor units, in the configured default currency.
func (t *Transaction) AddDollarTransaction(journalID string, method string, dollars decimal.Decimal, memo string, ref *domain.ObjectRef, postDate *time.Time) error {
	return t.AddTransaction(journalID, method, domain.MoneyFromDollars(dollars, t.svc.defaultCurrency), memo, ref, postDate, nil)
}

// TransactionsPending returns a snapshot of the staged list.
func (t *Transaction) TransactionsPending() []PendingEntry {
	out := make([]PendingEntry, len(t.pending))
	copy(out, t.pending)
	return out
}

// Commit verifies that staged credits equal staged debits exactly, then
// applies every posting through the storage collaborator's atomic scope and
// returns the group id shared by all created lines. On any failure during
// the apply phase the scope rolls back completely: no rows, no balance
// changes. An empty transaction is trivially balanced and yields a fresh
// group id with no lines created.
func (t *Transaction) Commit(ctx context.Context) (string, error) {
	logger := logging.FromCtx(ctx)

	if err := t.verifyCreditsEqualDebits(); err != nil {
		return "", err
	}

	groupID := t.svc.newID()
	if len(t.pending) == 0 {
		return groupID, nil
	}

	entries, err := t.buildEntries(ctx, groupID)
	if err != nil {
		logger.Warn("Transaction group commit failed before apply", slog.String("error", err.Error()))
		return "", apperrors.NewTransactionNotProcessed(err)
	}

	if err := t.svc.txnRepo.SaveTransactions(ctx, entries); err != nil {
		logger.Error("Transaction group commit rolled back", slog.String("error", err.Error()), slog.String("group_id", groupID))
		return "", apperrors.NewTransactionNotProcessed(err)
	}

	logger.Info("Transaction group committed", slog.String("group_id", groupID), slog.Int("entries", len(entries)))
	return groupID, nil
}

// buildEntries turns the pending list into transaction lines in staging
// order. Lines without an explicit post date are stamped individually, so
// their timestamps may differ within one commit; callers that need identical
// timestamps supply an explicit post date.
func (t *Transaction) buildEntries(ctx context.Context, groupID string) ([]domain.JournalTransaction, error) {
	journals := make(map[string]*domain.Journal, len(t.pending))
	entries := make([]domain.JournalTransaction, 0, len(t.pending))

	for _, pending := range t.pending {
		journal, ok := journals[pending.JournalID]
		if !ok {
			found, err := t.svc.journalRepo.FindJournalByID(ctx, pending.JournalID)
			if err != nil {
				return nil, fmt.Errorf("journal %s: %w", pending.JournalID, err)
			}
			journal = found
			journals[pending.JournalID] = journal
		}

		currency := pending.Amount.Currency
		if currency == "" {
			currency = journal.Currency
		}

		postDate := t.svc.clock.Now().UTC()
		if pending.PostDate != nil {
			postDate = *pending.PostDate
		}

		now := t.svc.clock.Now().UTC()
		gid := groupID
		entry := domain.JournalTransaction{
			TransactionID:      t.svc.newID(),
			JournalID:          journal.JournalID,
			Currency:           currency,
			Memo:               pending.Memo,
			PostDate:           postDate,
			Tags:               pending.Tags,
			Ref:                pending.Ref,
			TransactionGroupID: &gid,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		value := pending.Amount.Amount
		if pending.Method == domain.Debit {
			entry.Debit = &value
		} else {
			entry.Credit = &value
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// verifyCreditsEqualDebits enforces the fundamental invariant with exact
// integer equality, no tolerance.
func (t *Transaction) verifyCreditsEqualDebits() error {
	var credits, debits int64
	for _, pending := range t.pending {
		if pending.Method == domain.Credit {
			credits += pending.Amount.Amount
		} else {
			debits += pending.Amount.Amount
		}
	}
	if credits != debits {
		return &apperrors.UnbalancedError{Credits: credits, Debits: debits}
	}
	return nil
}
