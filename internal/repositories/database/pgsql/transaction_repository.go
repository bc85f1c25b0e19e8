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

// PgxTransactionRepository persists journal transaction lines in PostgreSQL.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `transaction_id, journal_id, debit, credit, currency, memo, post_date, tags, ref_type, ref_id, transaction_group_id, deleted_at, created_at, last_updated_at`

const insertTransactionQuery = `
	INSERT INTO accounting_journal_transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
`

const refreshJournalBalanceQuery = `
	UPDATE accounting_journals
	SET balance = (
		SELECT COALESCE(SUM(debit), 0) - COALESCE(SUM(credit), 0)
		FROM accounting_journal_transactions
		WHERE journal_id = $1 AND deleted_at IS NULL
	),
	last_updated_at = $2
	WHERE journal_id = $1;
`

// SaveTransactions inserts every line and refreshes the cached balance of
// every affected journal inside one database transaction. Any failure rolls
// back the whole group.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, transactions []domain.JournalTransaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.RunInTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		touched := make(map[string]time.Time, len(transactions))
		for _, txn := range transactions {
			m := mapping.ToModelTransaction(txn)
			batch.Queue(insertTransactionQuery,
				m.TransactionID,
				m.JournalID,
				m.Debit,
				m.Credit,
				m.Currency,
				m.Memo,
				m.PostDate,
				m.Tags,
				m.RefType,
				m.RefID,
				m.TransactionGroupID,
				m.DeletedAt,
				m.CreatedAt,
				m.LastUpdatedAt,
			)
			if stamp, ok := touched[m.JournalID]; !ok || m.LastUpdatedAt.After(stamp) {
				touched[m.JournalID] = m.LastUpdatedAt
			}
		}
		for journalID, stamp := range touched {
			batch.Queue(refreshJournalBalanceQuery, journalID, stamp)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for i := 0; i < batch.Len(); i++ {
			if _, err := results.Exec(); err != nil {
				return apperrors.NewAppError(500, "failed to apply transaction group", err)
			}
		}
		return results.Close()
	})
}

func scanTransaction(row pgx.Row) (*domain.JournalTransaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.JournalID,
		&m.Debit,
		&m.Credit,
		&m.Currency,
		&m.Memo,
		&m.PostDate,
		&m.Tags,
		&m.RefType,
		&m.RefID,
		&m.TransactionGroupID,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.JournalTransaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	var out []domain.JournalTransaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate transaction rows", err)
	}
	return out, nil
}

// FindTransactionByID retrieves a single line, deleted or not.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.JournalTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM accounting_journal_transactions WHERE transaction_id = $1;`
	return scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
}

// FindTransactionsByGroupID returns every non-deleted line of a commit group
// in insertion order.
func (r *PgxTransactionRepository) FindTransactionsByGroupID(ctx context.Context, groupID string) ([]domain.JournalTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM accounting_journal_transactions
		WHERE transaction_group_id = $1 AND deleted_at IS NULL
		ORDER BY created_at, transaction_id;
	`
	return r.queryTransactions(ctx, query, groupID)
}

// FindTransactionsByReference returns the journal's non-deleted lines that
// carry the given external reference.
func (r *PgxTransactionRepository) FindTransactionsByReference(ctx context.Context, journalID string, ref domain.ObjectRef) ([]domain.JournalTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM accounting_journal_transactions
		WHERE journal_id = $1 AND ref_type = $2 AND ref_id = $3 AND deleted_at IS NULL
		ORDER BY created_at, transaction_id;
	`
	return r.queryTransactions(ctx, query, journalID, ref.Type, ref.ID)
}

// UpdateTransactionReference attaches or replaces the weak external reference.
func (r *PgxTransactionRepository) UpdateTransactionReference(ctx context.Context, transactionID string, ref domain.ObjectRef, updatedAt time.Time) error {
	query := `
		UPDATE accounting_journal_transactions
		SET ref_type = $2,
		    ref_id = $3,
		    last_updated_at = $4
		WHERE transaction_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, ref.Type, ref.ID, updatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update reference on transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found for reference update")
	}
	return nil
}

// SoftDeleteTransaction marks the line deleted without removing it. Already
// deleted lines keep their original deletion stamp.
func (r *PgxTransactionRepository) SoftDeleteTransaction(ctx context.Context, transactionID string, deletedAt time.Time) error {
	query := `
		UPDATE accounting_journal_transactions
		SET deleted_at = $2,
		    last_updated_at = $2
		WHERE transaction_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, transactionID, deletedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to soft delete transaction "+transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Either missing or already deleted; distinguish for the caller.
		existing, findErr := r.FindTransactionByID(ctx, transactionID)
		if findErr != nil {
			return findErr
		}
		if existing.IsDeleted() {
			return nil
		}
		return apperrors.NewNotFoundError("transaction " + transactionID + " not found for deletion")
	}
	return nil
}
