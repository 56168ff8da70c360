package service

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/storage/sqlite"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports/mocks"
	"cashu-pos/pkg/apperror"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const (
	mainPubkey = "a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2c3d4e5f6a1b2"
	subPubkey  = "0011223344556677889900112233445566778899001122334455667788990011"
)

type trustTestDeps struct {
	svc       *TrustServiceImpl
	transport *mocks.MockRelayTransport
	identity  *sqlite.IdentityStore
	devices   *sqlite.DeviceStore
	ctrl      *gomock.Controller
}

func setupTrustService(t *testing.T, role, localPubkey string) *trustTestDeps {
	t.Helper()
	ctrl := gomock.NewController(t)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	d := &trustTestDeps{
		transport: mocks.NewMockRelayTransport(ctrl),
		identity:  sqlite.NewIdentityStore(db),
		devices:   sqlite.NewDeviceStore(db),
		ctrl:      ctrl,
	}
	d.transport.EXPECT().PublicKey().Return(localPubkey).AnyTimes()

	cfg := config.TerminalConfig{
		Name:       "counter-1",
		Role:       role,
		MerchantID: "merchant-1",
	}
	if role == "sub" {
		cfg.MainPubkey = mainPubkey
	}
	d.svc = NewTrustService(cfg, d.transport, d.identity, d.devices, "term-local", zerolog.Nop())
	return d
}

func joinRequestEvent(terminalID, name, pubkey string) *nostr.Event {
	payload, _ := json.Marshal(domain.JoinRequest{
		TerminalID:     terminalID,
		TerminalName:   name,
		TerminalPubkey: pubkey,
		MerchantID:     "merchant-1",
		RequestedAt:    time.Now().UTC(),
	})
	return &nostr.Event{
		ID:        "ev-" + terminalID,
		PubKey:    pubkey,
		Kind:      domain.KindJoinRequest,
		CreatedAt: nostr.Now(),
		Content:   string(payload),
	}
}

func TestTrustService_MainIsApprovedOnStart(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()

	d.transport.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.NewMockSubscription(d.ctrl), nil)

	require.NoError(t, d.svc.Start(context.Background()))
	assert.Equal(t, domain.ApprovalApproved, d.svc.LocalStatus())
	assert.True(t, d.svc.IsApproved("term-local"))
}

func TestTrustService_StartTwiceIsNoop(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()

	d.transport.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.NewMockSubscription(d.ctrl), nil).
		Times(1)

	require.NoError(t, d.svc.Start(context.Background()))
	require.NoError(t, d.svc.Start(context.Background()))
}

func TestTrustService_JoinApproveFlow(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	// Join request lands in the pending set, idempotently.
	ev := joinRequestEvent("term-2", "counter-2", subPubkey)
	d.svc.handleEvent(ctx, ev)
	d.svc.handleEvent(ctx, ev)
	require.Len(t, d.svc.PendingRequests(), 1)
	assert.Equal(t, "counter-2", d.svc.PendingRequests()[0].TerminalName)

	// Approving publishes a decision addressed to the requester.
	d.transport.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, out *nostr.Event) error {
			assert.Equal(t, domain.KindJoinApproval, out.Kind)
			assert.Equal(t, subPubkey, domain.TagValue(out, domain.TagRecipient))
			var decision domain.ApprovalDecision
			require.NoError(t, json.Unmarshal([]byte(out.Content), &decision))
			assert.True(t, decision.Approved)
			assert.Equal(t, "term-2", decision.TerminalID)
			return nil
		})

	require.NoError(t, d.svc.ApproveDevice(ctx, "term-2"))
	assert.Empty(t, d.svc.PendingRequests())
	assert.True(t, d.svc.IsApproved("term-2"))
	assert.True(t, d.svc.TrustedSender(subPubkey, "term-2"))
}

func TestTrustService_DenyRemovesPending(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.svc.handleEvent(ctx, joinRequestEvent("term-2", "counter-2", subPubkey))

	d.transport.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, out *nostr.Event) error {
			var decision domain.ApprovalDecision
			require.NoError(t, json.Unmarshal([]byte(out.Content), &decision))
			assert.False(t, decision.Approved)
			return nil
		})

	require.NoError(t, d.svc.DenyDevice(ctx, "term-2"))
	assert.Empty(t, d.svc.PendingRequests())
	assert.False(t, d.svc.IsApproved("term-2"))
}

func TestTrustService_ApproveUnknownTerminal(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()

	err := d.svc.ApproveDevice(context.Background(), "term-ghost")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_004", appErr.Code)
}

func TestTrustService_MainOnlyOperations(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	for _, err := range []error{
		d.svc.ApproveDevice(ctx, "term-2"),
		d.svc.DenyDevice(ctx, "term-2"),
		d.svc.RevokeDevice(ctx, "term-2"),
	} {
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "AUTH_002", appErr.Code)
	}
}

func TestTrustService_SubReceivesApproval(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	payload, _ := json.Marshal(domain.ApprovalDecision{
		TerminalID:     "term-local",
		TerminalName:   "counter-1",
		TerminalPubkey: subPubkey,
		Approved:       true,
	})
	d.svc.handleEvent(ctx, &nostr.Event{
		ID:        "ev-approve",
		PubKey:    mainPubkey,
		Kind:      domain.KindJoinApproval,
		CreatedAt: nostr.Now(),
		Content:   string(payload),
	})

	assert.Equal(t, domain.ApprovalApproved, d.svc.LocalStatus())
	status, err := d.identity.GetApprovalStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, status)

	// The approved set is mirrored locally too.
	assert.True(t, d.svc.IsApproved("term-local"))
}

func TestTrustService_ApprovalFromImpostorIgnored(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()

	payload, _ := json.Marshal(domain.ApprovalDecision{
		TerminalID:     "term-local",
		TerminalPubkey: subPubkey,
		Approved:       true,
	})
	d.svc.handleEvent(context.Background(), &nostr.Event{
		ID:        "ev-fake",
		PubKey:    "deadbeef" + mainPubkey[8:],
		Kind:      domain.KindJoinApproval,
		CreatedAt: nostr.Now(),
		Content:   string(payload),
	})

	assert.Equal(t, domain.ApprovalStatus(""), d.svc.LocalStatus())
	assert.False(t, d.svc.IsApproved("term-local"))
}

func TestTrustService_RevokeFlow(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	d.svc.handleEvent(ctx, joinRequestEvent("term-2", "counter-2", subPubkey))
	d.transport.EXPECT().Publish(ctx, gomock.Any()).Return(nil)
	require.NoError(t, d.svc.ApproveDevice(ctx, "term-2"))

	d.transport.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, out *nostr.Event) error {
			assert.Equal(t, domain.KindDeviceRevoke, out.Kind)
			assert.Equal(t, "term-2", domain.TagValue(out, domain.TagTerminal))
			return nil
		})

	require.NoError(t, d.svc.RevokeDevice(ctx, "term-2"))
	assert.False(t, d.svc.IsApproved("term-2"))
	assert.False(t, d.svc.TrustedSender(subPubkey, "term-2"))
}

func TestTrustService_RevokeUnknownDevice(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()

	err := d.svc.RevokeDevice(context.Background(), "term-ghost")
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_001", appErr.Code)
}

func TestTrustService_SubReceivesOwnRevocation(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	require.NoError(t, d.identity.SaveApprovalStatus(ctx, domain.ApprovalApproved))
	require.NoError(t, d.devices.Upsert(ctx, &domain.ApprovedDevice{
		TerminalID:     "term-local",
		TerminalPubkey: subPubkey,
		Role:           domain.RoleSub,
		ApprovedAt:     time.Now().UTC(),
	}))

	payload, _ := json.Marshal(domain.Revocation{TerminalID: "term-local"})
	d.svc.handleEvent(ctx, &nostr.Event{
		ID:        "ev-revoke",
		PubKey:    mainPubkey,
		Kind:      domain.KindDeviceRevoke,
		CreatedAt: nostr.Now(),
		Content:   string(payload),
	})

	status, err := d.identity.GetApprovalStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalDenied, status, "revocation of the local terminal denies it outright")
	assert.Equal(t, domain.ApprovalDenied, d.svc.LocalStatus())
	assert.False(t, d.svc.IsApproved("term-local"))
}

func TestTrustService_RequestJoin(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	// Seed the status Start would otherwise load from the identity store.
	d.svc.mu.Lock()
	d.svc.status = domain.ApprovalNone
	d.svc.mu.Unlock()

	d.transport.EXPECT().
		Publish(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, out *nostr.Event) error {
			assert.Equal(t, domain.KindJoinRequest, out.Kind)
			assert.Equal(t, "merchant-1", domain.TagValue(out, domain.TagMerchant))
			var req domain.JoinRequest
			require.NoError(t, json.Unmarshal([]byte(out.Content), &req))
			assert.Equal(t, "term-local", req.TerminalID)
			assert.Equal(t, subPubkey, req.TerminalPubkey)
			return nil
		})

	require.NoError(t, d.svc.RequestJoin(ctx))
	assert.Equal(t, domain.ApprovalPending, d.svc.LocalStatus())
}

func TestTrustService_RequestJoinWhileApprovedKeepsStanding(t *testing.T) {
	d := setupTrustService(t, "sub", subPubkey)
	defer d.ctrl.Finish()
	ctx := context.Background()

	require.NoError(t, d.identity.SaveApprovalStatus(ctx, domain.ApprovalApproved))
	d.transport.EXPECT().
		Subscribe(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(mocks.NewMockSubscription(d.ctrl), nil)
	require.NoError(t, d.svc.Start(ctx))
	require.Equal(t, domain.ApprovalApproved, d.svc.LocalStatus())

	// No Publish expectation: an approved terminal must not re-request,
	// and its persisted standing must not demote to pending.
	require.NoError(t, d.svc.RequestJoin(ctx))

	assert.Equal(t, domain.ApprovalApproved, d.svc.LocalStatus())
	status, err := d.identity.GetApprovalStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalApproved, status)
}

func TestTrustService_JoinRequestWrongMerchantDropped(t *testing.T) {
	d := setupTrustService(t, "main", mainPubkey)
	defer d.ctrl.Finish()

	payload, _ := json.Marshal(domain.JoinRequest{
		TerminalID:     "term-9",
		TerminalPubkey: subPubkey,
		MerchantID:     "someone-else",
	})
	d.svc.handleEvent(context.Background(), &nostr.Event{
		ID:      "ev-stray",
		PubKey:  subPubkey,
		Kind:    domain.KindJoinRequest,
		Content: string(payload),
	})

	assert.Empty(t, d.svc.PendingRequests())
}
