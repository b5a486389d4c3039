package storage

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// Accounts returns the registry and the active username ("" if none).
func (s *Store) Accounts(ctx context.Context) ([]models.AccountRegistryEntry, string, error) {
	var (
		reg     []models.AccountRegistryEntry
		current string
	)
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		var err error
		if reg, err = t.registry(ctx); err != nil {
			return err
		}
		current, err = t.str(ctx, keyCurrent)
		return err
	})
	return reg, current, err
}

// RecordLogin registers snap after a successful verification and makes it
// the current account. An existing entry for the same username is replaced.
func (s *Store) RecordLogin(ctx context.Context, snap models.AccountSnapshot) error {
	if snap.Username == "" {
		return fmt.Errorf("%w: snapshot without username", common.ErrInvalidInput)
	}
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		reg, err := t.registry(ctx)
		if err != nil {
			return err
		}
		entry := models.AccountRegistryEntry{Username: snap.Username, LastUsedAt: s.nowMillis(), Snapshot: snap}
		reg = upsertEntry(reg, entry)

		if err := t.put(ctx, keyRegistry, reg); err != nil {
			return err
		}
		if err := t.put(ctx, keyCurrent, snap.Username); err != nil {
			return err
		}
		return t.repo.Delete(ctx, keyPending)
	})
}

// EnsureRegistry seeds the registry from the live session when data written
// before the registry existed has a snapshot but no current account.
func (s *Store) EnsureRegistry(ctx context.Context) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		current, err := t.str(ctx, keyCurrent)
		if err != nil || current != "" {
			return err
		}
		live, err := t.snapshot(ctx)
		if err != nil || live == nil || live.Username == "" {
			return err
		}

		reg, err := t.registry(ctx)
		if err != nil {
			return err
		}
		reg = upsertEntry(reg, models.AccountRegistryEntry{Username: live.Username, LastUsedAt: s.nowMillis(), Snapshot: *live})
		if err := t.put(ctx, keyRegistry, reg); err != nil {
			return err
		}
		return t.put(ctx, keyCurrent, live.Username)
	})
}

// SwitchAccount makes username the active account. The registry copy is
// refreshed from the live session only when the live session belongs to
// username; the outgoing account's entry is refreshed from the live session
// before it is replaced. It returns common.ErrNotFound when username is
// neither registered nor the live session.
func (s *Store) SwitchAccount(ctx context.Context, username string) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		reg, err := t.registry(ctx)
		if err != nil {
			return err
		}
		live, err := t.snapshot(ctx)
		if err != nil {
			return err
		}

		idx := indexOf(reg, username)
		switch {
		case idx >= 0:
			if live != nil && live.Username == username {
				reg[idx].Snapshot = *live
			}
			reg[idx].LastUsedAt = s.nowMillis()
		case live != nil && live.Username == username:
			reg = append(reg, models.AccountRegistryEntry{Username: username, LastUsedAt: s.nowMillis(), Snapshot: *live})
			idx = len(reg) - 1
		default:
			return fmt.Errorf("account %q: %w", username, common.ErrNotFound)
		}

		if live != nil && live.Username != username {
			if j := indexOf(reg, live.Username); j >= 0 {
				reg[j].Snapshot = *live
			}
		}

		if err := t.put(ctx, keyRegistry, reg); err != nil {
			return err
		}
		if err := t.put(ctx, keyCurrent, username); err != nil {
			return err
		}
		return t.put(ctx, keySnapshot, reg[idx].Snapshot)
	})
}

// Logout forgets the current account. The most recently used remaining
// account becomes current; with none left the session keys are removed.
// Address partitions stay on disk so a later login recovers them. With no
// current account only the session keys and the registry are dropped, so
// repeated calls are harmless.
func (s *Store) Logout(ctx context.Context) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		current, err := t.str(ctx, keyCurrent)
		if err != nil {
			return err
		}
		if current == "" {
			if err := t.repo.Delete(ctx, keyRegistry); err != nil {
				return err
			}
			return t.repo.Delete(ctx, sessionKeys...)
		}

		reg, err := t.registry(ctx)
		if err != nil {
			return err
		}
		reg = removeEntry(reg, current)

		if len(reg) == 0 {
			if err := t.repo.Delete(ctx, keyRegistry); err != nil {
				return err
			}
			return t.repo.Delete(ctx, sessionKeys...)
		}

		next := reg[0]
		for _, e := range reg[1:] {
			if e.LastUsedAt > next.LastUsedAt {
				next = e
			}
		}
		if err := t.put(ctx, keyRegistry, reg); err != nil {
			return err
		}
		if err := t.put(ctx, keyCurrent, next.Username); err != nil {
			return err
		}
		if err := t.put(ctx, keySnapshot, next.Snapshot); err != nil {
			return err
		}
		return t.repo.Delete(ctx, keyPending)
	})
}

// RemoveAccount drops a non-current account from the registry. Removing an
// unknown account is a no-op; removing the current one is rejected.
func (s *Store) RemoveAccount(ctx context.Context, username string) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		current, err := t.str(ctx, keyCurrent)
		if err != nil {
			return err
		}
		if username == current {
			return fmt.Errorf("%w: cannot remove the active account, log out instead", common.ErrInvalidInput)
		}

		reg, err := t.registry(ctx)
		if err != nil {
			return err
		}
		if indexOf(reg, username) < 0 {
			return nil
		}
		return t.put(ctx, keyRegistry, removeEntry(reg, username))
	})
}

func indexOf(reg []models.AccountRegistryEntry, username string) int {
	for i := range reg {
		if reg[i].Username == username {
			return i
		}
	}
	return -1
}

func upsertEntry(reg []models.AccountRegistryEntry, e models.AccountRegistryEntry) []models.AccountRegistryEntry {
	if i := indexOf(reg, e.Username); i >= 0 {
		reg[i] = e
		return reg
	}
	return append(reg, e)
}

func removeEntry(reg []models.AccountRegistryEntry, username string) []models.AccountRegistryEntry {
	out := make([]models.AccountRegistryEntry, 0, len(reg))
	for _, e := range reg {
		if e.Username != username {
			out = append(out, e)
		}
	}
	return out
}
