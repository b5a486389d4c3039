// Package transfer converts the active account's address history to the JSON
// and CSV export formats and merges either format back in.
package transfer

import (
	"context"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
)

// FormatVersion tags every JSON export.
const FormatVersion = "1.0"

// Store is the part of the account storage the reconciler needs.
type Store interface {
	GetActiveSnapshot(ctx context.Context) (*models.AccountSnapshot, error)
	ListAddresses(ctx context.Context) ([]models.StoredAddress, error)
	MergeAddresses(ctx context.Context, incoming []models.StoredAddress) ([]models.StoredAddress, error)
}

type Reconciler struct {
	store  Store
	domain string
	now    func() time.Time
}

type Option func(*Reconciler)

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// New returns a Reconciler that renders addresses under domain, e.g. "duck.com".
func New(store Store, domain string, opts ...Option) *Reconciler {
	r := &Reconciler{store: store, domain: domain, now: time.Now}
	for _, o := range opts {
		o(r)
	}
	return r
}
