package transfer

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/common"
)

const (
	msgEmpty      = "Import data is empty or invalid"
	msgNoUser     = "User data not found. Please log in again."
	msgNothingNew = "No new addresses to import. All addresses already exist."
)

// Import parses text (JSON export or CSV) and merges the addresses the
// active account does not have yet at the head of its history. Failures are
// reported in the result; storage is untouched unless at least one new
// address is added.
func (r *Reconciler) Import(ctx context.Context, text string) models.ImportResult {
	if strings.TrimSpace(text) == "" {
		return failed(msgEmpty)
	}

	incoming, err := Parse(text, r.domain, r.now())
	if err != nil {
		return failed("Import failed: " + err.Error())
	}

	snap, err := r.store.GetActiveSnapshot(ctx)
	if err != nil {
		return failed("Import failed: " + err.Error())
	}
	if snap == nil || snap.Username == "" {
		return failed(msgNoUser)
	}

	added, err := r.store.MergeAddresses(ctx, incoming)
	switch {
	case errors.Is(err, common.ErrNotAuthenticated):
		return failed(msgNoUser)
	case err != nil:
		return failed("Storage error: " + err.Error())
	case len(added) == 0:
		return models.ImportResult{Success: true, Count: 0, Error: msgNothingNew}
	}
	return models.ImportResult{Success: true, Count: len(added)}
}

func failed(msg string) models.ImportResult {
	return models.ImportResult{Success: false, Count: 0, Error: msg}
}
