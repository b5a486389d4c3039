package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/aliaskeeper/internal/client/backup"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/features"
	"github.com/dmitrijs2005/aliaskeeper/internal/client/models"
	"github.com/dmitrijs2005/aliaskeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type memObjects map[string][]byte

func (m memObjects) Put(_ context.Context, key string, r io.Reader, _ string) error {
	b, err := io.ReadAll(r)
	m[key] = b
	return err
}

func (m memObjects) Get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := m[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m memObjects) List(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for k := range m {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}

func TestImportAndExport(t *testing.T) {
	gw := new(mockGateway)
	svc := newService(t, Deps{Gateway: gw})
	ctx := context.Background()
	loginAs(t, svc, gw, bobSnap())

	res := svc.ImportAddresses(ctx, "# Export for account: bob@duck.com\nAddress,Timestamp,Notes\nzy1,1700000000000,\"personal\"")
	assert.Equal(t, models.ImportResult{Success: true, Count: 1}, res)

	csv, err := svc.ExportCSV(ctx)
	require.NoError(t, err)
	assert.Equal(t, "# Export for account: bob@duck.com\nAddress,Timestamp,Notes\nzy1@duck.com,1700000000000,\"personal\"\n", csv)

	doc, err := svc.ExportJSON(ctx)
	require.NoError(t, err)
	again := svc.ImportAddresses(ctx, doc)
	assert.True(t, again.Success)
	assert.Equal(t, 0, again.Count)
}

func TestBackupAndRestore(t *testing.T) {
	gw := new(mockGateway)
	objects := memObjects{}
	svc := newService(t, Deps{Gateway: gw, Backups: backup.NewManager(objects, "bk")})
	ctx := context.Background()
	loginAs(t, svc, gw, aliceSnap(0))

	gw.On("GenerateAddress", mock.Anything, "tok-alice").Return("a1", nil)
	svc.GenerateAddress(ctx, "keep me")

	key, err := svc.Backup(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "bk/alice/"))

	keys, err := svc.Backups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{key}, keys)

	require.True(t, svc.ClearAllAddresses(ctx))
	res := svc.Restore(ctx, key)
	assert.Equal(t, models.ImportResult{Success: true, Count: 1}, res)

	list := svc.GetAddresses(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, "keep me", list[0].Notes)
}

func TestBackup_DisabledAndMissingKey(t *testing.T) {
	gw := new(mockGateway)
	svc := newService(t, Deps{Gateway: gw})
	ctx := context.Background()
	loginAs(t, svc, gw, aliceSnap(0))

	_, err := svc.Backup(ctx)
	require.ErrorIs(t, err, backup.ErrDisabled)

	res := svc.Restore(ctx, "nope")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "Restore failed")
}

func TestAutofill(t *testing.T) {
	store := newStore(t)
	af := features.NewAutofill(store, features.NewStoredChecker(store, nil), features.PlatformFirefox, logging.Discard())
	svc := newService(t, Deps{Store: store, Gateway: new(mockGateway), Autofill: af})
	ctx := context.Background()

	st, err := svc.AutofillState(ctx)
	require.NoError(t, err)
	assert.Equal(t, features.Disabled, st)

	st, err = svc.SetAutofill(ctx, true)
	require.NoError(t, err)
	assert.Equal(t, features.Enabled, st)

	st, err = svc.SetAutofill(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, features.Disabled, st)
}

func TestAutofill_Unavailable(t *testing.T) {
	svc := newService(t, Deps{Gateway: new(mockGateway)})
	_, err := svc.AutofillState(context.Background())
	require.ErrorIs(t, err, ErrAutofillUnavailable)
}
