package services

import (
	"context"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
)

func (s *aliasService) CurrentAccount(ctx context.Context) (*models.AccountSnapshot, error) {
	return s.store.GetActiveSnapshot(ctx)
}

// PendingLogin returns the username waiting for its passphrase, or "".
func (s *aliasService) PendingLogin(ctx context.Context) (string, error) {
	return s.store.Pending(ctx)
}

func (s *aliasService) Accounts(ctx context.Context) ([]models.AccountRegistryEntry, string, error) {
	return s.store.Accounts(ctx)
}

func (s *aliasService) SwitchAccount(ctx context.Context, username string) error {
	username = NormalizeUsername(username, s.domain)
	if err := s.store.SwitchAccount(ctx, username); err != nil {
		s.log.Warn(ctx, "switch failed", "op", "switch", "username", username, "error", err)
		return err
	}
	s.log.Info(ctx, "switched account", "username", username)
	return nil
}

func (s *aliasService) RemoveAccount(ctx context.Context, username string) error {
	username = NormalizeUsername(username, s.domain)
	if err := s.store.RemoveAccount(ctx, username); err != nil {
		s.log.Warn(ctx, "remove failed", "op", "remove", "username", username, "error", err)
		return err
	}
	return nil
}

func (s *aliasService) Logout(ctx context.Context) error {
	if err := s.store.Logout(ctx); err != nil {
		s.log.Error(ctx, "logout failed", "op", "logout", "error", err)
		return err
	}
	return nil
}
