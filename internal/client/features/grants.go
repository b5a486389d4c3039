package features

import (
	"context"
	"slices"
)

// GrantStore persists the granted capability set.
type GrantStore interface {
	Grants(ctx context.Context) ([]string, error)
	SetGrants(ctx context.Context, grants []string) error
}

// Approver asks the user whether caps may be granted.
type Approver func(ctx context.Context, caps []string) (bool, error)

// StoredChecker is a CapabilityChecker for hosts without a platform
// permission API: grants are recorded in storage and requests go through
// an Approver. Required capabilities (storage) are always present.
type StoredChecker struct {
	store   GrantStore
	approve Approver
}

// NewStoredChecker returns a checker; a nil approve grants every request.
func NewStoredChecker(store GrantStore, approve Approver) *StoredChecker {
	return &StoredChecker{store: store, approve: approve}
}

func (c *StoredChecker) Contains(ctx context.Context, caps []string) (bool, error) {
	grants, err := c.store.Grants(ctx)
	if err != nil {
		return false, err
	}
	for _, cp := range caps {
		if cp == "storage" {
			continue
		}
		if !slices.Contains(grants, cp) {
			return false, nil
		}
	}
	return true, nil
}

func (c *StoredChecker) Request(ctx context.Context, caps []string) (bool, error) {
	if c.approve != nil {
		ok, err := c.approve(ctx, caps)
		if err != nil || !ok {
			return false, err
		}
	}

	grants, err := c.store.Grants(ctx)
	if err != nil {
		return false, err
	}
	for _, cp := range caps {
		if !slices.Contains(grants, cp) {
			grants = append(grants, cp)
		}
	}
	slices.Sort(grants)
	return true, c.store.SetGrants(ctx, grants)
}

func (c *StoredChecker) Remove(ctx context.Context, caps []string) (bool, error) {
	grants, err := c.store.Grants(ctx)
	if err != nil {
		return false, err
	}
	grants = slices.DeleteFunc(grants, func(g string) bool { return slices.Contains(caps, g) })
	return true, c.store.SetGrants(ctx, grants)
}
