package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/features"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

// ErrAutofillUnavailable is returned when no capability checker is wired.
var ErrAutofillUnavailable = errors.New("autofill is not available")

func (s *aliasService) ExportJSON(ctx context.Context) (string, error) {
	return s.transfer.ExportJSON(ctx)
}

func (s *aliasService) ExportCSV(ctx context.Context) (string, error) {
	return s.transfer.ExportCSV(ctx)
}

func (s *aliasService) ImportAddresses(ctx context.Context, text string) models.ImportResult {
	res := s.transfer.Import(ctx, text)
	if !res.Success {
		s.log.Warn(ctx, "import rejected", "op", "import", "reason", res.Error)
	} else {
		s.log.Info(ctx, "import finished", "op", "import", "count", res.Count)
	}
	return res
}

// Backup uploads a JSON export of the active account and returns its key.
func (s *aliasService) Backup(ctx context.Context) (string, error) {
	snap, err := s.store.GetActiveSnapshot(ctx)
	if err != nil {
		return "", err
	}
	if snap == nil {
		return "", common.ErrNotAuthenticated
	}

	doc, err := s.transfer.ExportJSON(ctx)
	if err != nil {
		return "", err
	}
	key, err := s.backups.Upload(ctx, snap.Username, doc)
	if err != nil {
		s.log.Error(ctx, "backup failed", "op", "backup", "username", snap.Username, "error", err)
		return "", err
	}
	s.log.Info(ctx, "backup stored", "username", snap.Username, "key", key)
	return key, nil
}

// Backups lists the active account's backup keys, newest first.
func (s *aliasService) Backups(ctx context.Context) ([]string, error) {
	snap, err := s.store.GetActiveSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snap == nil {
		return nil, common.ErrNotAuthenticated
	}
	return s.backups.List(ctx, snap.Username)
}

// Restore downloads the backup at key and imports it into the active
// account with the usual de-duplication.
func (s *aliasService) Restore(ctx context.Context, key string) models.ImportResult {
	doc, err := s.backups.Download(ctx, key)
	if err != nil {
		s.log.Error(ctx, "restore failed", "op", "restore", "key", key, "error", err)
		return models.ImportResult{Error: "Restore failed: " + err.Error()}
	}
	return s.ImportAddresses(ctx, doc)
}

func (s *aliasService) AutofillState(ctx context.Context) (features.State, error) {
	if s.autofill == nil {
		return features.Disabled, ErrAutofillUnavailable
	}
	return s.autofill.State(ctx)
}

func (s *aliasService) SetAutofill(ctx context.Context, on bool) (features.State, error) {
	if s.autofill == nil {
		return features.Disabled, ErrAutofillUnavailable
	}
	if on {
		return s.autofill.Enable(ctx)
	}
	return s.autofill.Disable(ctx)
}
