// Package ports declares the collaborator contracts the engine depends on.
// The engine only ever sees these interfaces; wiring concrete collaborators
// is the caller's concern.
package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/accounting/internal/core/domain"
)

// Clock supplies "now" for default post dates and current-balance queries.
// Injectable so tests can pin time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// RealClock returns a Clock backed by time.Now.
func RealClock() Clock {
	return ClockFunc(time.Now)
}

// IDGenerator supplies globally-unique identifiers for transaction lines and
// transaction groups. Values must be stable and comparable for equality.
type IDGenerator func() string

// UUIDGenerator is the default IDGenerator: a random 128-bit UUID rendered
// in canonical form.
func UUIDGenerator() string {
	return uuid.NewString()
}

// ReferenceResolver resolves a weak (type tag, id) reference back to a live
// external object. The engine validates tags only at read time, through this
// contract.
type ReferenceResolver interface {
	ResolveReference(ctx context.Context, ref domain.ObjectRef) (any, error)
}
