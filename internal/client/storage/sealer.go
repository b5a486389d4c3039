package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/repositories/kv"
	"github.com/dmitrijs2005/aliaskeeper/internal/cryptox"
)

// OpenSealer returns the sealer for passphrase. An empty passphrase yields
// cryptox.Plain. Otherwise the salt is read from the store, or created and
// saved on first use, and the key is derived from it.
func OpenSealer(ctx context.Context, db *sql.DB, passphrase string) (cryptox.Sealer, error) {
	if passphrase == "" {
		return cryptox.Plain{}, nil
	}

	repo := kv.NewSQLiteRepository(db)
	salt, err := repo.Get(ctx, keySalt)
	if err != nil {
		return nil, err
	}
	if salt == nil {
		salt = cryptox.NewSalt()
		if err := repo.Set(ctx, keySalt, salt); err != nil {
			return nil, err
		}
	}

	key := cryptox.DeriveKey([]byte(passphrase), salt)
	return cryptox.NewAEAD(key)
}
