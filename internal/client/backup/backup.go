// Package backup keeps copies of JSON exports in an object store.
//
// Objects are written under <prefix>/<username>/<ulid>.json so a listing is
// already ordered oldest to newest.
package backup

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("backup is not configured")

// maxObject caps how much of a restored object is read.
const maxObject = 16 << 20

// ObjectStore is the slice of an object store the manager uses.
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

type Manager struct {
	store  ObjectStore
	prefix string
	now    func() time.Time
}

// NewManager returns a Manager; a nil store yields one whose operations
// return ErrDisabled.
func NewManager(store ObjectStore, prefix string) *Manager {
	return &Manager{store: store, prefix: strings.Trim(prefix, "/"), now: time.Now}
}

func (m *Manager) Enabled() bool { return m.store != nil }

func (m *Manager) userPrefix(username string) string {
	return path.Join(m.prefix, username) + "/"
}

// NewKey returns a fresh object key for username.
func (m *Manager) NewKey(username string) string {
	id := ulid.MustNew(ulid.Timestamp(m.now()), rand.Reader)
	return m.userPrefix(username) + id.String() + ".json"
}

// Upload stores doc under a new key and returns the key.
func (m *Manager) Upload(ctx context.Context, username, doc string) (string, error) {
	if m.store == nil {
		return "", ErrDisabled
	}
	key := m.NewKey(username)
	if err := m.store.Put(ctx, key, strings.NewReader(doc), "application/json"); err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}
	return key, nil
}

// Download returns the document stored under key.
func (m *Manager) Download(ctx context.Context, key string) (string, error) {
	if m.store == nil {
		return "", ErrDisabled
	}
	rc, err := m.store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("download backup: %w", err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, maxObject))
	if err != nil {
		return "", fmt.Errorf("read backup: %w", err)
	}
	return string(b), nil
}

// List returns username's backup keys, newest first.
func (m *Manager) List(ctx context.Context, username string) ([]string, error) {
	if m.store == nil {
		return nil, ErrDisabled
	}
	keys, err := m.store.List(ctx, m.userPrefix(username))
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	slices.Sort(keys)
	slices.Reverse(keys)
	return keys, nil
}

// Time extracts the creation time encoded in a backup key.
func Time(key string) (time.Time, bool) {
	base := strings.TrimSuffix(path.Base(key), ".json")
	id, err := ulid.ParseStrict(base)
	if err != nil {
		return time.Time{}, false
	}
	return ulid.Time(id.Time()), true
}
