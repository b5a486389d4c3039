package storage

import "context"

// FeatureEnabled reports the persisted toggle for name.
func (s *Store) FeatureEnabled(ctx context.Context, name string) (bool, error) {
	var on bool
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		_, err := t.get(ctx, featureKeyPrefix+name, &on)
		return err
	})
	return on, err
}

// SetFeatureEnabled persists the toggle for name.
func (s *Store) SetFeatureEnabled(ctx context.Context, name string, on bool) error {
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		return t.put(ctx, featureKeyPrefix+name, on)
	})
}

// Grants returns the capabilities recorded as granted.
func (s *Store) Grants(ctx context.Context) ([]string, error) {
	var grants []string
	err := s.view(ctx, func(ctx context.Context, t *txn) error {
		_, err := t.get(ctx, featureKeyPrefix+"grants", &grants)
		return err
	})
	return grants, err
}

// SetGrants replaces the recorded capability grants.
func (s *Store) SetGrants(ctx context.Context, grants []string) error {
	if grants == nil {
		grants = []string{}
	}
	return s.update(ctx, func(ctx context.Context, t *txn) error {
		return t.put(ctx, featureKeyPrefix+"grants", grants)
	})
}
