package pgsql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ledgerline/accounting/internal/apperrors"
	"github.com/ledgerline/accounting/internal/core/domain"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	"github.com/ledgerline/accounting/internal/models"
	"github.com/ledgerline/accounting/internal/utils/mapping"
)

// PgxLedgerRepository persists ledgers in PostgreSQL.
type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

// SaveLedger inserts a new ledger row.
func (r *PgxLedgerRepository) SaveLedger(ctx context.Context, ledger domain.Ledger) error {
	m := mapping.ToModelLedger(ledger)
	query := `
		INSERT INTO accounting_ledgers (ledger_id, name, type, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err := r.Pool.Exec(ctx, query, m.LedgerID, m.Name, m.Type, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert ledger "+m.LedgerID, err)
	}
	return nil
}

// FindLedgerByID retrieves a ledger by its ID.
func (r *PgxLedgerRepository) FindLedgerByID(ctx context.Context, ledgerID string) (*domain.Ledger, error) {
	query := `
		SELECT ledger_id, name, type, created_at, last_updated_at
		FROM accounting_ledgers
		WHERE ledger_id = $1;
	`
	var m models.Ledger
	err := r.Pool.QueryRow(ctx, query, ledgerID).Scan(
		&m.LedgerID,
		&m.Name,
		&m.Type,
		&m.CreatedAt,
		&m.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger by ID "+ledgerID, err)
	}

	ledger := mapping.ToDomainLedger(m)
	return &ledger, nil
}

// SumTransactionsByLedgerID totals debit and credit over every non-deleted
// transaction of every journal under the ledger.
func (r *PgxLedgerRepository) SumTransactionsByLedgerID(ctx context.Context, ledgerID string) (portsrepo.BalanceSums, error) {
	query := `
		SELECT COALESCE(SUM(t.debit), 0), COALESCE(SUM(t.credit), 0)
		FROM accounting_journal_transactions t
		JOIN accounting_journals j ON t.journal_id = j.journal_id
		WHERE j.ledger_id = $1 AND t.deleted_at IS NULL;
	`
	var sums portsrepo.BalanceSums
	if err := r.Pool.QueryRow(ctx, query, ledgerID).Scan(&sums.Debit, &sums.Credit); err != nil {
		return portsrepo.BalanceSums{}, apperrors.NewAppError(500, "failed to sum transactions for ledger "+ledgerID, err)
	}
	return sums, nil
}
