// Package memory provides a mutex-guarded in-memory implementation of the
// storage facades. It mirrors the PostgreSQL behavior closely enough to back
// the service test suites: soft-deleted lines are excluded from every sum,
// SaveTransactions applies all-or-nothing, and a fault can be injected to
// exercise the rollback path.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
)

// Store holds everything behind one mutex. It implements all three storage
// facades.
type Store struct {
	mu           sync.Mutex
	ledgers      map[string]domain.Ledger
	journals     map[string]domain.Journal
	transactions map[string]domain.JournalTransaction
	order        []string // transaction ids in insertion order
	failNextSave error
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		ledgers:      make(map[string]domain.Ledger),
		journals:     make(map[string]domain.Journal),
		transactions: make(map[string]domain.JournalTransaction),
	}
}

var (
	_ portsrepo.LedgerRepositoryFacade      = (*Store)(nil)
	_ portsrepo.JournalRepositoryFacade     = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
)

// FailNextSave makes the next SaveTransactions call fail with err before
// writing anything, simulating a mid-commit storage failure.
func (s *Store) FailNextSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextSave = err
}

// SaveLedger stores a ledger, rejecting duplicate ids.
func (s *Store) SaveLedger(_ context.Context, ledger domain.Ledger) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ledgers[ledger.LedgerID]; ok {
		return apperrors.ErrDuplicate
	}
	s.ledgers[ledger.LedgerID] = ledger
	return nil
}

// FindLedgerByID returns a copy of the stored ledger.
func (s *Store) FindLedgerByID(_ context.Context, ledgerID string) (*domain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ledger, ok := s.ledgers[ledgerID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &ledger, nil
}

// SumTransactionsByLedgerID totals every non-deleted line of every journal
// assigned to the ledger.
func (s *Store) SumTransactionsByLedgerID(_ context.Context, ledgerID string) (portsrepo.BalanceSums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	member := make(map[string]bool)
	for id, journal := range s.journals {
		if journal.LedgerID != nil && *journal.LedgerID == ledgerID {
			member[id] = true
		}
	}
	return s.sumLocked(func(txn domain.JournalTransaction) bool {
		return member[txn.JournalID]
	}), nil
}

// SaveJournal stores a journal, rejecting duplicate ids.
func (s *Store) SaveJournal(_ context.Context, journal domain.Journal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.journals[journal.JournalID]; ok {
		return apperrors.ErrDuplicate
	}
	s.journals[journal.JournalID] = journal
	return nil
}

// FindJournalByID returns a copy of the stored journal.
func (s *Store) FindJournalByID(_ context.Context, journalID string) (*domain.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.journals[journalID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &journal, nil
}

// FindJournalByOwner scans for the journal attached to the owner reference.
func (s *Store) FindJournalByOwner(_ context.Context, owner domain.ObjectRef) (*domain.Journal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, journal := range s.journals {
		if journal.OwnerType == owner.Type && journal.OwnerID == owner.ID {
			j := journal
			return &j, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

// AssignJournalToLedger reparents a journal under a ledger.
func (s *Store) AssignJournalToLedger(_ context.Context, journalID string, ledgerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	journal.LedgerID = &ledgerID
	s.journals[journalID] = journal
	return nil
}

// UpdateJournalBalance overwrites the cached balance.
func (s *Store) UpdateJournalBalance(_ context.Context, journalID string, balance int64, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	journal, ok := s.journals[journalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	journal.Balance = balance
	journal.LastUpdatedAt = updatedAt
	s.journals[journalID] = journal
	return nil
}

func (s *Store) sumLocked(match func(domain.JournalTransaction) bool) portsrepo.BalanceSums {
	var sums portsrepo.BalanceSums
	for _, txn := range s.transactions {
		if txn.IsDeleted() || !match(txn) {
			continue
		}
		if txn.Debit != nil {
			sums.Debit += *txn.Debit
		}
		if txn.Credit != nil {
			sums.Credit += *txn.Credit
		}
	}
	return sums
}

// SumTransactionsByJournalID totals every non-deleted line of the journal.
func (s *Store) SumTransactionsByJournalID(_ context.Context, journalID string) (portsrepo.BalanceSums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(func(txn domain.JournalTransaction) bool {
		return txn.JournalID == journalID
	}), nil
}

// SumTransactionsOnOrBefore totals lines with PostDate <= date.
func (s *Store) SumTransactionsOnOrBefore(_ context.Context, journalID string, date time.Time) (portsrepo.BalanceSums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(func(txn domain.JournalTransaction) bool {
		return txn.JournalID == journalID && !txn.PostDate.After(date)
	}), nil
}

// SumTransactionsBetween totals lines with start <= PostDate <= end.
func (s *Store) SumTransactionsBetween(_ context.Context, journalID string, start, end time.Time) (portsrepo.BalanceSums, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sumLocked(func(txn domain.JournalTransaction) bool {
		return txn.JournalID == journalID && !txn.PostDate.Before(start) && !txn.PostDate.After(end)
	}), nil
}

// SaveTransactions applies every line and refreshes the cached balance of
// every affected journal. All-or-nothing: validation failures, unknown
// journals, duplicate ids and injected faults leave the store untouched.
func (s *Store) SaveTransactions(_ context.Context, transactions []domain.JournalTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNextSave != nil {
		err := s.failNextSave
		s.failNextSave = nil
		return err
	}

	touched := make(map[string]time.Time, len(transactions))
	for _, txn := range transactions {
		if err := txn.Validate(); err != nil {
			return err
		}
		if _, ok := s.transactions[txn.TransactionID]; ok {
			return apperrors.ErrDuplicate
		}
		if _, ok := s.journals[txn.JournalID]; !ok {
			return apperrors.ErrNotFound
		}
		if stamp, ok := touched[txn.JournalID]; !ok || txn.LastUpdatedAt.After(stamp) {
			touched[txn.JournalID] = txn.LastUpdatedAt
		}
	}

	for _, txn := range transactions {
		s.transactions[txn.TransactionID] = txn
		s.order = append(s.order, txn.TransactionID)
	}
	for journalID, stamp := range touched {
		journal := s.journals[journalID]
		sums := s.sumLocked(func(txn domain.JournalTransaction) bool {
			return txn.JournalID == journalID
		})
		journal.Balance = sums.Debit - sums.Credit
		journal.LastUpdatedAt = stamp
		s.journals[journalID] = journal
	}
	return nil
}

// FindTransactionByID returns a copy of the stored line, deleted or not.
func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.JournalTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (s *Store) findLocked(match func(domain.JournalTransaction) bool) []domain.JournalTransaction {
	var out []domain.JournalTransaction
	for _, id := range s.order {
		txn, ok := s.transactions[id]
		if !ok || txn.IsDeleted() || !match(txn) {
			continue
		}
		out = append(out, txn)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// FindTransactionsByGroupID returns every non-deleted line of a commit group.
func (s *Store) FindTransactionsByGroupID(_ context.Context, groupID string) ([]domain.JournalTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(func(txn domain.JournalTransaction) bool {
		return txn.TransactionGroupID != nil && *txn.TransactionGroupID == groupID
	}), nil
}

// FindTransactionsByReference returns the journal's non-deleted lines
// carrying the given external reference.
func (s *Store) FindTransactionsByReference(_ context.Context, journalID string, ref domain.ObjectRef) ([]domain.JournalTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(func(txn domain.JournalTransaction) bool {
		return txn.JournalID == journalID && txn.ReferencesObject(ref)
	}), nil
}

// UpdateTransactionReference attaches or replaces the weak external
// reference. Idempotent.
func (s *Store) UpdateTransactionReference(_ context.Context, transactionID string, ref domain.ObjectRef, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	txn.Ref = &domain.ObjectRef{Type: ref.Type, ID: ref.ID}
	txn.LastUpdatedAt = updatedAt
	s.transactions[transactionID] = txn
	return nil
}

// SoftDeleteTransaction marks the line deleted. Already deleted lines keep
// their original deletion stamp.
func (s *Store) SoftDeleteTransaction(_ context.Context, transactionID string, deletedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn, ok := s.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if txn.IsDeleted() {
		return nil
	}
	stamp := deletedAt
	txn.DeletedAt = &stamp
	txn.LastUpdatedAt = deletedAt
	s.transactions[transactionID] = txn
	return nil
}
