package sqlite

import (
	"context"
	"testing"
	"time"

	"cashu-pos/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDevice(id string) *domain.ApprovedDevice {
	return &domain.ApprovedDevice{
		TerminalID:     id,
		TerminalName:   "counter-" + id,
		TerminalPubkey: "pk-" + id,
		Role:           domain.RoleSub,
		ApprovedAt:     time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestDeviceStore_UpsertAndGet(t *testing.T) {
	db := openTestDB(t)
	store := NewDeviceStore(db)
	ctx := context.Background()

	got, err := store.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Upsert(ctx, testDevice("t1")))

	got, err = store.Get(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "counter-t1", got.TerminalName)
	assert.Equal(t, domain.RoleSub, got.Role)
	assert.Equal(t, time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC), got.ApprovedAt)
}

func TestDeviceStore_UpsertDeduplicates(t *testing.T) {
	db := openTestDB(t)
	store := NewDeviceStore(db)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testDevice("t1")))

	renamed := testDevice("t1")
	renamed.TerminalName = "bar-counter"
	require.NoError(t, store.Upsert(ctx, renamed))

	devices, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "bar-counter", devices[0].TerminalName)
}

func TestDeviceStore_Remove(t *testing.T) {
	db := openTestDB(t)
	store := NewDeviceStore(db)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, testDevice("t1")))
	require.NoError(t, store.Upsert(ctx, testDevice("t2")))

	require.NoError(t, store.Remove(ctx, "t1"))
	// Removing an absent id is a no-op.
	require.NoError(t, store.Remove(ctx, "t9"))

	devices, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "t2", devices[0].TerminalID)
}
