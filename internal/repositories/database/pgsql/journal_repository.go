package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	"github.com/ledgerline/accounting/internal/models"
	"github.com/ledgerline/accounting/internal/utils/mapping"
)

// PgxJournalRepository persists journals in PostgreSQL.
type PgxJournalRepository struct {
	BaseRepository
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, ledger_id, currency, balance, owner_type, owner_id, created_at, last_updated_at`

// SaveJournal inserts a new journal row.
func (r *PgxJournalRepository) SaveJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO accounting_journals (` + journalColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.JournalID,
		m.LedgerID,
		m.Currency,
		m.Balance,
		m.OwnerType,
		m.OwnerID,
		m.CreatedAt,
		m.LastUpdatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert journal "+m.JournalID, err)
	}
	return nil
}

func (r *PgxJournalRepository) scanJournal(row pgx.Row) (*domain.Journal, error) {
	var m models.Journal
	err := row.Scan(
		&m.JournalID,
		&m.LedgerID,
		&m.Currency,
		&m.Balance,
		&m.OwnerType,
		&m.OwnerID,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan journal row", err)
	}
	journal := mapping.ToDomainJournal(m)
	return &journal, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM accounting_journals WHERE journal_id = $1;`
	return r.scanJournal(r.Pool.QueryRow(ctx, query, journalID))
}

// FindJournalByOwner retrieves the journal attached to the given owner
// reference. A unique index guarantees at most one.
func (r *PgxJournalRepository) FindJournalByOwner(ctx context.Context, owner domain.ObjectRef) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM accounting_journals WHERE owner_type = $1 AND owner_id = $2;`
	return r.scanJournal(r.Pool.QueryRow(ctx, query, owner.Type, owner.ID))
}

// AssignJournalToLedger reparents a journal under a ledger.
func (r *PgxJournalRepository) AssignJournalToLedger(ctx context.Context, journalID string, ledgerID string) error {
	query := `
		UPDATE accounting_journals
		SET ledger_id = $2
		WHERE journal_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, ledgerID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to assign journal "+journalID+" to ledger "+ledgerID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for ledger assignment")
	}
	return nil
}

// UpdateJournalBalance persists a recomputed cached balance.
func (r *PgxJournalRepository) UpdateJournalBalance(ctx context.Context, journalID string, balance int64, updatedAt time.Time) error {
	query := `
		UPDATE accounting_journals
		SET balance = $2,
		    last_updated_at = $3
		WHERE journal_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, journalID, balance, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update balance for journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("journal " + journalID + " not found for balance update")
	}
	return nil
}

func (r *PgxJournalRepository) sumWhere(ctx context.Context, journalID string, clause string, args ...any) (portsrepo.BalanceSums, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM accounting_journal_transactions
		WHERE journal_id = $1 AND deleted_at IS NULL` + clause + `;`

	queryArgs := append([]any{journalID}, args...)
	var sums portsrepo.BalanceSums
	if err := r.Pool.QueryRow(ctx, query, queryArgs...).Scan(&sums.Debit, &sums.Credit); err != nil {
		return portsrepo.BalanceSums{}, apperrors.NewAppError(500, "failed to sum transactions for journal "+journalID, err)
	}
	return sums, nil
}

// SumTransactionsByJournalID totals debit and credit over all non-deleted
// lines, ignoring post dates.
func (r *PgxJournalRepository) SumTransactionsByJournalID(ctx context.Context, journalID string) (portsrepo.BalanceSums, error) {
	return r.sumWhere(ctx, journalID, "")
}

// SumTransactionsOnOrBefore totals lines with post_date <= date.
func (r *PgxJournalRepository) SumTransactionsOnOrBefore(ctx context.Context, journalID string, date time.Time) (portsrepo.BalanceSums, error) {
	return r.sumWhere(ctx, journalID, " AND post_date <= $2", date)
}

// SumTransactionsBetween totals lines with start <= post_date <= end.
func (r *PgxJournalRepository) SumTransactionsBetween(ctx context.Context, journalID string, start, end time.Time) (portsrepo.BalanceSums, error) {
	return r.sumWhere(ctx, journalID, " AND post_date BETWEEN $2 AND $3", start, end)
}
