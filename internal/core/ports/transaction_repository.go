package ports

import (
	"context"
	"time"

	"github.com/cointrail/tracker-api/internal/core/domain"
)

// ListFilter narrows a transaction listing. Zero value means no
// filtering. Networks and the date range are mutually exclusive in
// practice (the API accepts one filterBy column per request), but the
// repository applies whichever fields are set.
type ListFilter struct {
	Networks []string  // keep transactions whose network is in the set
	DateFrom time.Time // inclusive lower date boundary
	DateTo   time.Time // inclusive upper date boundary
}

// TransactionRepository defines persistence for the transaction ledger.
// Every operation is scoped by owner; a transaction recorded by one
// user is invisible to every other user.
type TransactionRepository interface {
	// Append stores a new transaction and returns it with its assigned
	// monotonic id and recording timestamp.
	Append(ctx context.Context, tx *domain.TrackedTransaction) (*domain.TrackedTransaction, error)
	// FindByID returns domain.ErrTransactionNotFound when the id does
	// not exist or belongs to another owner.
	FindByID(ctx context.Context, owner string, id int64) (*domain.TrackedTransaction, error)
	// List returns the owner's transactions in insertion order.
	List(ctx context.Context, owner string, filter ListFilter) ([]domain.TrackedTransaction, error)
	// Delete removes the transaction if owned by owner; deleting an
	// absent or unowned id fails with domain.ErrTransactionNotFound.
	Delete(ctx context.Context, owner string, id int64) error
	// DeleteAll wipes the ledger. Used by the seed/wipe utility only.
	DeleteAll(ctx context.Context) error
}

// ViewRepository persists named saved selections of transaction ids.
// Only creation is part of this service's contract.
type ViewRepository interface {
	Create(ctx context.Context, view *domain.View) error
}
