package storage

import (
	"context"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// AppendGeneratedAddress stores value at the head of the active account's
// history and mirrors it, tagged with the owner, into the legacy list. It
// returns the new length of the account's history, or
// common.ErrNotAuthenticated when no account is active.
func (s *Store) AppendGeneratedAddress(ctx context.Context, value, notes string) (int, error) {
	var n int
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		username, err := t.username(ctx)
		if err != nil {
			return err
		}
		if username == "" {
			return common.ErrNotAuthenticated
		}

		addr := models.StoredAddress{
			Value:     value,
			CreatedAt: s.nowMillis(),
			Notes:     notes,
			Owner:     username,
		}

		partition, err := t.addresses(ctx, partitionKey(username))
		if err != nil {
			return err
		}
		partition = prepend([]models.StoredAddress{addr}, withoutValue(partition, value))
		if err := t.putAddresses(ctx, partitionKey(username), partition); err != nil {
			return err
		}

		legacy, err := t.addresses(ctx, keyLegacy)
		if err != nil {
			return err
		}
		legacy = withoutOwned(legacy, username, func(a models.StoredAddress) bool { return a.Value != value })
		if err := t.putAddresses(ctx, keyLegacy, prepend([]models.StoredAddress{addr}, legacy)); err != nil {
			return err
		}

		n = len(partition)
		return nil
	})
	return n, err
}

// ListAddresses returns the active account's history, newest first. When the
// account has no history yet, its entries in the legacy list are moved into
// the account's partition in the same transaction.
func (s *Store) ListAddresses(ctx context.Context) ([]models.StoredAddress, error) {
	var out []models.StoredAddress
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		var err error
		out, err = t.listAddresses(ctx)
		return err
	})
	if out == nil {
		out = []models.StoredAddress{}
	}
	return out, err
}

func (t *txn) listAddresses(ctx context.Context) ([]models.StoredAddress, error) {
	username, err := t.username(ctx)
	if err != nil || username == "" {
		return nil, err
	}

	partition, err := t.addresses(ctx, partitionKey(username))
	if err != nil {
		return nil, err
	}
	if len(partition) > 0 {
		return partition, nil
	}

	legacy, err := t.addresses(ctx, keyLegacy)
	if err != nil {
		return nil, err
	}
	moved, remaining := MigrateLegacy(legacy, username)
	if len(moved) == 0 {
		return nil, nil
	}

	if err := t.putAddresses(ctx, partitionKey(username), moved); err != nil {
		return nil, err
	}
	if err := t.putAddresses(ctx, keyLegacy, remaining); err != nil {
		return nil, err
	}
	return moved, nil
}

// UpdateNotes sets the notes of value in the active account's history and
// in its legacy mirror. It returns false when no account is active.
func (s *Store) UpdateNotes(ctx context.Context, value, notes string) (bool, error) {
	return s.mutateOwned(ctx, func(list []models.StoredAddress, owned func(models.StoredAddress) bool) []models.StoredAddress {
		for i := range list {
			if list[i].Value == value && owned(list[i]) {
				list[i].Notes = notes
			}
		}
		return list
	})
}

// DeleteAddress removes value from the active account's history and from its
// legacy mirror. Deleting an unknown value still reports true.
func (s *Store) DeleteAddress(ctx context.Context, value string) (bool, error) {
	return s.mutateOwned(ctx, func(list []models.StoredAddress, owned func(models.StoredAddress) bool) []models.StoredAddress {
		out := make([]models.StoredAddress, 0, len(list))
		for _, a := range list {
			if a.Value == value && owned(a) {
				continue
			}
			out = append(out, a)
		}
		return out
	})
}

// mutateOwned applies fn to the active partition (where every entry counts
// as owned) and to the legacy list (where only entries tagged with the
// active username do).
func (s *Store) mutateOwned(ctx context.Context, fn func(list []models.StoredAddress, owned func(models.StoredAddress) bool) []models.StoredAddress) (bool, error) {
	var ok bool
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		username, err := t.username(ctx)
		if err != nil || username == "" {
			return err
		}

		partition, err := t.addresses(ctx, partitionKey(username))
		if err != nil {
			return err
		}
		all := func(models.StoredAddress) bool { return true }
		if err := t.putAddresses(ctx, partitionKey(username), fn(partition, all)); err != nil {
			return err
		}

		legacy, err := t.addresses(ctx, keyLegacy)
		if err != nil {
			return err
		}
		mine := func(a models.StoredAddress) bool { return a.Owner == username }
		if err := t.putAddresses(ctx, keyLegacy, fn(legacy, mine)); err != nil {
			return err
		}

		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// ClearAllAddresses empties the active account's history, drops its entries
// from the legacy list and resets its counter to zero.
func (s *Store) ClearAllAddresses(ctx context.Context) (bool, error) {
	var ok bool
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		username, err := t.username(ctx)
		if err != nil || username == "" {
			return err
		}

		if err := t.putAddresses(ctx, partitionKey(username), nil); err != nil {
			return err
		}
		legacy, err := t.addresses(ctx, keyLegacy)
		if err != nil {
			return err
		}
		if err := t.putAddresses(ctx, keyLegacy, withoutOwned(legacy, username, nil)); err != nil {
			return err
		}
		if err := t.setCount(ctx, 0); err != nil {
			return err
		}

		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return ok, nil
}

// MergeAddresses puts incoming ahead of the active account's current history
// and of the legacy list, skipping values the account already has or that
// repeat within incoming. It returns the entries actually added, tagged with
// the active username, or common.ErrNotAuthenticated.
func (s *Store) MergeAddresses(ctx context.Context, incoming []models.StoredAddress) ([]models.StoredAddress, error) {
	var added []models.StoredAddress
	err := s.update(ctx, func(ctx context.Context, t *txn) error {
		current, err := t.listAddresses(ctx)
		if err != nil {
			return err
		}
		username, err := t.username(ctx)
		if err != nil {
			return err
		}
		if username == "" {
			return common.ErrNotAuthenticated
		}

		seen := make(map[string]struct{}, len(current)+len(incoming))
		for _, a := range current {
			seen[a.Value] = struct{}{}
		}
		for _, a := range incoming {
			if a.Value == "" {
				continue
			}
			if _, dup := seen[a.Value]; dup {
				continue
			}
			seen[a.Value] = struct{}{}
			a.Owner = username
			added = append(added, a)
		}
		if len(added) == 0 {
			return nil
		}

		if err := t.putAddresses(ctx, partitionKey(username), prepend(added, current)); err != nil {
			return err
		}
		legacy, err := t.addresses(ctx, keyLegacy)
		if err != nil {
			return err
		}
		return t.putAddresses(ctx, keyLegacy, prepend(added, legacy))
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

func prepend(head, tail []models.StoredAddress) []models.StoredAddress {
	out := make([]models.StoredAddress, 0, len(head)+len(tail))
	out = append(out, head...)
	return append(out, tail...)
}

func withoutValue(list []models.StoredAddress, value string) []models.StoredAddress {
	out := make([]models.StoredAddress, 0, len(list))
	for _, a := range list {
		if a.Value != value {
			out = append(out, a)
		}
	}
	return out
}
