package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
)

// RepositoryContainer bundles the PostgreSQL storage collaborators.
type RepositoryContainer struct {
	LedgerRepo  portsrepo.LedgerRepositoryFacade
	JournalRepo portsrepo.JournalRepositoryFacade
	TxnRepo     portsrepo.TransactionRepositoryFacade
}

// NewRepositoryContainer wires every repository over one shared pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *RepositoryContainer {
	return &RepositoryContainer{
		LedgerRepo:  newPgxLedgerRepository(pool),
		JournalRepo: newPgxJournalRepository(pool),
		TxnRepo:     newPgxTransactionRepository(pool),
	}
}
