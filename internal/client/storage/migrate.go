package storage

import "github.com/dmitrijs2005/aliaskeeper/internal/client/models"

// MigrateLegacy splits the legacy unpartitioned list into the entries that
// belong to username (untagged, or tagged with username) and the entries that
// stay behind. Order is preserved on both sides and moved entries are tagged
// with username.
func MigrateLegacy(legacy []models.StoredAddress, username string) (partition, remaining []models.StoredAddress) {
	for _, a := range legacy {
		if a.Owner == "" || a.Owner == username {
			a.Owner = username
			partition = append(partition, a)
			continue
		}
		remaining = append(remaining, a)
	}
	return partition, remaining
}

// withoutOwned drops the entries of username from a legacy list; keep decides
// which of the owned entries survive (nil drops them all).
func withoutOwned(legacy []models.StoredAddress, username string, keep func(models.StoredAddress) bool) []models.StoredAddress {
	out := make([]models.StoredAddress, 0, len(legacy))
	for _, a := range legacy {
		if a.Owner == username && (keep == nil || !keep(a)) {
			continue
		}
		out = append(out, a)
	}
	return out
}
