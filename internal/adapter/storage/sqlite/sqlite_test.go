package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"cashu-pos/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "pos-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_AppliesSchemaIdempotently(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pos.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Re-opening the same file must not fail on existing tables.
	db, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)
	hc := NewHealthCheck(db)

	assert.Equal(t, "sqlite", hc.Name())
	assert.NoError(t, hc.Ping(context.Background()))
}

func TestIdentityStore_PrivateKeyRoundTrip(t *testing.T) {
	db := openTestDB(t)
	store := NewIdentityStore(db)
	ctx := context.Background()

	sk, err := store.GetPrivateKey(ctx)
	require.NoError(t, err)
	assert.Empty(t, sk, "first run has no key")

	require.NoError(t, store.SavePrivateKey(ctx, "aa11"))

	sk, err = store.GetPrivateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "aa11", sk)

	// Saving again overwrites.
	require.NoError(t, store.SavePrivateKey(ctx, "bb22"))
	sk, err = store.GetPrivateKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bb22", sk)
}

func TestIdentityStore_TerminalID(t *testing.T) {
	db := openTestDB(t)
	store := NewIdentityStore(db)
	ctx := context.Background()

	id, err := store.GetTerminalID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SaveTerminalID(ctx, "term-1"))
	id, err = store.GetTerminalID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "term-1", id)
}

func TestIdentityStore_ApprovalStatus(t *testing.T) {
	db := openTestDB(t)
	store := NewIdentityStore(db)
	ctx := context.Background()

	status, err := store.GetApprovalStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalNone, status)

	require.NoError(t, store.SaveApprovalStatus(ctx, domain.ApprovalPending))
	require.NoError(t, store.SaveApprovalStatus(ctx, domain.ApprovalApproved))

	status, err = store.GetApprovalStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, status)
}
