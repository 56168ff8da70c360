package sqlite

import (
	"context"
	"testing"
	"time"

	"cashu-pos/internal/core/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForward(status domain.ForwardStatus) *domain.PendingForward {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.PendingForward{
		Envelope: domain.TokenForwardEnvelope{
			ID:            uuid.NewString(),
			TransactionID: "tx-" + uuid.NewString(),
			TerminalID:    "term-a",
			Amount:        420,
			Token:         "cashuA...",
			MintURL:       "https://mint.example",
			CreatedAt:     now,
		},
		Status: status,
		SentAt: now,
	}
}

func TestForwardStore_InsertGet(t *testing.T) {
	db := openTestDB(t)
	store := NewForwardStore(db)
	ctx := context.Background()

	f := testForward(domain.ForwardStatusPending)
	require.NoError(t, store.Insert(ctx, f))

	got, err := store.Get(ctx, f.Envelope.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.Envelope.TransactionID, got.Envelope.TransactionID)
	assert.Equal(t, int64(420), got.Envelope.Amount)
	assert.Equal(t, domain.ForwardStatusPending, got.Status)
	assert.Nil(t, got.ResolvedAt)
}

func TestForwardStore_GetMissingReturnsNil(t *testing.T) {
	db := openTestDB(t)
	store := NewForwardStore(db)

	got, err := store.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestForwardStore_UpdateResolves(t *testing.T) {
	db := openTestDB(t)
	store := NewForwardStore(db)
	ctx := context.Background()

	f := testForward(domain.ForwardStatusPending)
	require.NoError(t, store.Insert(ctx, f))

	resolved := time.Now().UTC().Truncate(time.Second)
	f.Status = domain.ForwardStatusAcked
	f.ResolvedAt = &resolved
	require.NoError(t, store.Update(ctx, f))

	got, err := store.Get(ctx, f.Envelope.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ForwardStatusAcked, got.Status)
	require.NotNil(t, got.ResolvedAt)
	assert.Equal(t, resolved, *got.ResolvedAt)
}

func TestForwardStore_ListPending(t *testing.T) {
	db := openTestDB(t)
	store := NewForwardStore(db)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testForward(domain.ForwardStatusPending)))
	require.NoError(t, store.Insert(ctx, testForward(domain.ForwardStatusPending)))
	require.NoError(t, store.Insert(ctx, testForward(domain.ForwardStatusAcked)))
	require.NoError(t, store.Insert(ctx, testForward(domain.ForwardStatusFailed)))

	pending, err := store.ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	all, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}
