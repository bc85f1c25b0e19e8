package services

import (
	"github.com/ledgerline/accounting/internal/core/ports"
	portsrepo "github.com/ledgerline/accounting/internal/core/ports/repositories"
	portssvc "github.com/ledgerline/accounting/internal/core/ports/services"
)

// Container bundles the wired services behind their facades.
type Container struct {
	Ledger      portssvc.LedgerSvcFacade
	Journal     portssvc.JournalSvcFacade
	DoubleEntry *DoubleEntryService
}

// NewContainer wires the services over the given storage collaborators.
// resolver may be nil; clock and newID may be nil for production defaults.
func NewContainer(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	journalRepo portsrepo.JournalRepositoryFacade,
	txnRepo portsrepo.TransactionRepositoryFacade,
	resolver ports.ReferenceResolver,
	defaultCurrency string,
	clock ports.Clock,
	newID ports.IDGenerator,
) *Container {
	return &Container{
		Ledger:      NewLedgerService(ledgerRepo, defaultCurrency, clock, newID),
		Journal:     NewJournalService(journalRepo, txnRepo, resolver, defaultCurrency, clock, newID),
		DoubleEntry: NewDoubleEntryService(journalRepo, txnRepo, defaultCurrency, clock, newID),
	}
}
