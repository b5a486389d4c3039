package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/aliaskeeper/internal/cryptox"
	"github.com/dmitrijs2005/aliaskeeper/internal/dbx"
)

const (
	keySnapshot        = "session.snapshot"
	keyPending         = "session.pending"
	keyLegacy          = "generated_addresses"
	keyRegistry        = "accounts.registry"
	keyCurrent         = "accounts.current"
	keySalt            = "vault.salt"
	partitionKeyPrefix = "addresses."
	featureKeyPrefix   = "features."
)

func partitionKey(username string) string {
	return partitionKeyPrefix + username
}

// sessionKeys are dropped when the last account logs out.
var sessionKeys = []string{keySnapshot, keyPending, keyCurrent}

// Store is the typed facade over the kv table. It is safe for concurrent use.
type Store struct {
	db     *dbx.Serial
	sealer cryptox.Sealer
	now    func() time.Time
}

type Option func(*Store)

// WithSealer seals every stored value. The default stores plaintext JSON.
func WithSealer(s cryptox.Sealer) Option {
	return func(st *Store) { st.sealer = s }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(st *Store) { st.now = now }
}

func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:     dbx.NewSerial(db),
		sealer: cryptox.Plain{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// update runs fn in a serialized write transaction.
func (s *Store) update(ctx context.Context, fn func(ctx context.Context, t *txn) error) error {
	return s.db.Update(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txn{repo: kv.NewSQLiteRepository(tx), sealer: s.sealer})
	})
}

// view runs fn in a transaction that only reads.
func (s *Store) view(ctx context.Context, fn func(ctx context.Context, t *txn) error) error {
	return s.db.View(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, &txn{repo: kv.NewSQLiteRepository(tx), sealer: s.sealer})
	})
}

// txn is the JSON codec bound to one transaction.
type txn struct {
	repo   kv.Repository
	sealer cryptox.Sealer
}

// get decodes key into v and reports whether the key existed.
func (t *txn) get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := t.repo.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if raw == nil {
		return false, nil
	}
	plain, err := t.sealer.Open(raw)
	if err != nil {
		return false, fmt.Errorf("open %s: %w", key, err)
	}
	if err := json.Unmarshal(plain, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (t *txn) put(ctx context.Context, key string, v any) error {
	plain, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	sealed, err := t.sealer.Seal(plain)
	if err != nil {
		return fmt.Errorf("seal %s: %w", key, err)
	}
	return t.repo.Set(ctx, key, sealed)
}

func (t *txn) snapshot(ctx context.Context) (*models.AccountSnapshot, error) {
	var snap models.AccountSnapshot
	ok, err := t.get(ctx, keySnapshot, &snap)
	if err != nil || !ok {
		return nil, err
	}
	return &snap, nil
}

// username resolves the active account from the live snapshot; "" if none.
func (t *txn) username(ctx context.Context) (string, error) {
	snap, err := t.snapshot(ctx)
	if err != nil || snap == nil {
		return "", err
	}
	return snap.Username, nil
}

func (t *txn) addresses(ctx context.Context, key string) ([]models.StoredAddress, error) {
	var list []models.StoredAddress
	if _, err := t.get(ctx, key, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (t *txn) putAddresses(ctx context.Context, key string, list []models.StoredAddress) error {
	if list == nil {
		list = []models.StoredAddress{}
	}
	return t.put(ctx, key, list)
}

func (t *txn) registry(ctx context.Context) ([]models.AccountRegistryEntry, error) {
	var list []models.AccountRegistryEntry
	if _, err := t.get(ctx, keyRegistry, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (t *txn) str(ctx context.Context, key string) (string, error) {
	var v string
	if _, err := t.get(ctx, key, &v); err != nil {
		return "", err
	}
	return v, nil
}

// GetActiveSnapshot returns the persisted session, or nil when logged out.
func (s *Store) GetActiveSnapshot(ctx context.Context) (*models.AccountSnapshot, error) {
	var snap *models.AccountSnapshot
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		var err error
		snap, err = t.snapshot(ctx)
		return err
	})
	return snap, err
}

// SaveSnapshot persists snap as the active session. It does not touch the
// registry; callers follow it with RecordLogin.
func (s *Store) SaveSnapshot(ctx context.Context, snap models.AccountSnapshot) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		return t.put(ctx, keySnapshot, snap)
	})
}

// CurrentUsername returns the active username, or "".
func (s *Store) CurrentUsername(ctx context.Context) (string, error) {
	var u string
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		var err error
		u, err = t.username(ctx)
		return err
	})
	return u, err
}

// UpdateAddressCount overwrites the generated-address counter on the live
// snapshot and on that account's registry entry.
func (s *Store) UpdateAddressCount(ctx context.Context, count int) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		return t.setCount(ctx, count)
	})
}

// AddAddressCount adds delta to the active account's counter in one
// transaction and returns the new value. Concurrent callers never lose an
// increment. With no active account it returns 0.
func (s *Store) AddAddressCount(ctx context.Context, delta int) (int, error) {
	var n int
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		snap, err := t.snapshot(ctx)
		if err != nil || snap == nil {
			return err
		}
		n = snap.AddressesGenerated + delta
		return t.setCount(ctx, n)
	})
	return n, err
}

func (t *txn) setCount(ctx context.Context, count int) error {
	snap, err := t.snapshot(ctx)
	if err != nil || snap == nil {
		return err
	}
	snap.AddressesGenerated = count
	if err := t.put(ctx, keySnapshot, snap); err != nil {
		return err
	}
	if snap.Username == "" {
		return nil
	}

	reg, err := t.registry(ctx)
	if err != nil {
		return err
	}
	for i := range reg {
		if reg[i].Username == snap.Username {
			reg[i].Snapshot.AddressesGenerated = count
			return t.put(ctx, keyRegistry, reg)
		}
	}
	return nil
}

// ClearSession wipes every persisted key except the sealing salt.
func (s *Store) ClearSession(ctx context.Context) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		salt, err := t.repo.Get(ctx, keySalt)
		if err != nil {
			return err
		}
		if err := t.repo.Clear(ctx); err != nil {
			return err
		}
		if salt != nil {
			return t.repo.Set(ctx, keySalt, salt)
		}
		return nil
	})
}

// SetPending remembers the username waiting for its passphrase.
func (s *Store) SetPending(ctx context.Context, username string) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		return t.put(ctx, keyPending, username)
	})
}

// Pending returns the username waiting for its passphrase, or "".
func (s *Store) Pending(ctx context.Context) (string, error) {
	var u string
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		var err error
		u, err = t.str(ctx, keyPending)
		return err
	})
	return u, err
}
