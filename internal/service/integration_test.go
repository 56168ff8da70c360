package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/storage/sqlite"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// relayBus is an in-process relay: every published event is stored and
// fanned out synchronously to every matching subscriber, sender included.
type relayBus struct {
	mu      sync.Mutex
	history []*nostr.Event
	subs    []*busSub
}

type busSub struct {
	filters nostr.Filters
	onEvent func(*nostr.Event)
	closed  bool
}

func (s *busSub) Unsub() {
	s.closed = true
}

func newRelayBus() *relayBus {
	return &relayBus{}
}

func (b *relayBus) broadcast(ev *nostr.Event) {
	b.mu.Lock()
	b.history = append(b.history, ev)
	subs := make([]*busSub, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, sub := range subs {
		if !sub.closed && sub.filters.Match(ev) {
			sub.onEvent(ev)
		}
	}
}

// busTransport is one terminal's handle on the bus. It signs with that
// terminal's key, same contract as the relay transport.
type busTransport struct {
	bus *relayBus
	sk  string
	pk  string
}

func newBusTransport(t *testing.T, bus *relayBus) *busTransport {
	t.Helper()
	sk := nostr.GeneratePrivateKey()
	pk, err := nostr.GetPublicKey(sk)
	require.NoError(t, err)
	return &busTransport{bus: bus, sk: sk, pk: pk}
}

func (t *busTransport) Publish(_ context.Context, ev *nostr.Event) error {
	if ev.CreatedAt == 0 {
		ev.CreatedAt = nostr.Now()
	}
	if err := ev.Sign(t.sk); err != nil {
		return err
	}
	t.bus.broadcast(ev)
	return nil
}

func (t *busTransport) Subscribe(_ context.Context, filters nostr.Filters, onEvent func(*nostr.Event), onCaughtUp func()) (ports.Subscription, error) {
	t.bus.mu.Lock()
	replay := make([]*nostr.Event, 0, len(t.bus.history))
	for _, ev := range t.bus.history {
		if filters.Match(ev) {
			replay = append(replay, ev)
		}
	}
	sub := &busSub{filters: filters, onEvent: onEvent}
	t.bus.subs = append(t.bus.subs, sub)
	t.bus.mu.Unlock()

	for _, ev := range replay {
		onEvent(ev)
	}
	if onCaughtUp != nil {
		onCaughtUp()
	}
	return sub, nil
}

func (t *busTransport) Query(_ context.Context, filters nostr.Filters) ([]*nostr.Event, error) {
	t.bus.mu.Lock()
	defer t.bus.mu.Unlock()
	var out []*nostr.Event
	for _, ev := range t.bus.history {
		if filters.Match(ev) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (t *busTransport) PublicKey() string { return t.pk }
func (t *busTransport) Close()            {}

// terminal is a full trust+sync stack wired over the shared bus, the way
// the daemon wires it, minus the HTTP layer.
type terminal struct {
	id        string
	transport *busTransport
	trust     *TrustServiceImpl
	sync      *SyncServiceImpl
	store     *sqlite.SyncStore
}

func newTerminal(t *testing.T, bus *relayBus, id, role, mainPk string) *terminal {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), id+".db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	transport := newBusTransport(t, bus)
	cfg := config.TerminalConfig{
		Name:       id,
		Role:       role,
		MerchantID: "merchant-1",
		MainPubkey: mainPk,
	}

	trust := NewTrustService(cfg, transport, sqlite.NewIdentityStore(db), sqlite.NewDeviceStore(db), id, zerolog.Nop())
	store := sqlite.NewSyncStore(db)
	syncSvc := NewSyncService(cfg, config.SyncConfig{DrainInterval: time.Minute}, transport, trust, store, id, zerolog.Nop())

	return &terminal{id: id, transport: transport, trust: trust, sync: syncSvc, store: store}
}

func (term *terminal) start(t *testing.T, ctx context.Context) {
	t.Helper()
	require.NoError(t, term.trust.Start(ctx))
	require.NoError(t, term.trust.Ready(ctx))
	require.NoError(t, term.sync.Start(ctx))
	t.Cleanup(func() {
		term.sync.Close()
		term.trust.Close()
	})
}

func TestFleet_JoinApprovalConvergence(t *testing.T) {
	ctx := context.Background()
	bus := newRelayBus()

	main := newTerminal(t, bus, "term-main", "main", "")
	sub := newTerminal(t, bus, "term-sub", "sub", main.transport.PublicKey())

	main.start(t, ctx)
	sub.start(t, ctx)

	assert.Equal(t, domain.ApprovalApproved, main.trust.LocalStatus())
	assert.Equal(t, domain.ApprovalNone, sub.trust.LocalStatus())

	require.NoError(t, sub.trust.RequestJoin(ctx))
	assert.Equal(t, domain.ApprovalPending, sub.trust.LocalStatus())

	pending := main.trust.PendingRequests()
	require.Len(t, pending, 1)
	assert.Equal(t, "term-sub", pending[0].TerminalID)

	require.NoError(t, main.trust.ApproveDevice(ctx, "term-sub"))

	assert.Equal(t, domain.ApprovalApproved, sub.trust.LocalStatus())
	assert.True(t, main.trust.IsApproved("term-sub"))
	assert.True(t, sub.trust.IsApproved("term-sub"))
	assert.Empty(t, main.trust.PendingRequests())
}

func TestFleet_EntitySyncPropagates(t *testing.T) {
	ctx := context.Background()
	bus := newRelayBus()

	main := newTerminal(t, bus, "term-main", "main", "")
	sub := newTerminal(t, bus, "term-sub", "sub", main.transport.PublicKey())

	main.start(t, ctx)
	sub.start(t, ctx)

	require.NoError(t, sub.trust.RequestJoin(ctx))
	require.NoError(t, main.trust.ApproveDevice(ctx, "term-sub"))

	payload, err := json.Marshal(map[string]any{"name": "Espresso", "price": 4})
	require.NoError(t, err)
	require.NoError(t, main.sync.PublishChange(ctx, &domain.SyncRecord{
		ID:      "prod-1",
		Kind:    domain.EntityProduct,
		Version: 1,
		Payload: payload,
	}))

	got, err := sub.store.GetRecord(ctx, "prod-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, "term-main", got.UpdatedBy)

	// The sub edits the product; the main converges on the higher version.
	payload2, err := json.Marshal(map[string]any{"name": "Espresso", "price": 5})
	require.NoError(t, err)
	got.Version = 2
	got.Payload = payload2
	got.UpdatedAt = time.Now().UTC()
	require.NoError(t, sub.sync.PublishChange(ctx, got))

	back, err := main.store.GetRecord(ctx, "prod-1")
	require.NoError(t, err)
	require.NotNil(t, back)
	assert.Equal(t, int64(2), back.Version)
	assert.Equal(t, "term-sub", back.UpdatedBy)
}

func TestFleet_RevokedTerminalChangesRejected(t *testing.T) {
	ctx := context.Background()
	bus := newRelayBus()

	main := newTerminal(t, bus, "term-main", "main", "")
	sub := newTerminal(t, bus, "term-sub", "sub", main.transport.PublicKey())

	main.start(t, ctx)
	sub.start(t, ctx)

	require.NoError(t, sub.trust.RequestJoin(ctx))
	require.NoError(t, main.trust.ApproveDevice(ctx, "term-sub"))
	require.NoError(t, main.trust.RevokeDevice(ctx, "term-sub"))

	assert.Equal(t, domain.ApprovalDenied, sub.trust.LocalStatus())

	// The revoked terminal can no longer publish local changes.
	err := sub.sync.PublishChange(ctx, &domain.SyncRecord{
		ID:      "prod-9",
		Kind:    domain.EntityProduct,
		Version: 1,
		Payload: json.RawMessage(`{}`),
	})
	require.Error(t, err)

	// And anything it signed after revocation is dropped by the fleet.
	got, err := main.store.GetRecord(ctx, "prod-9")
	require.NoError(t, err)
	assert.Nil(t, got)
}
