package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/relay"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/apperror"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
)

// TrustServiceImpl implements ports.TrustService: the join / approve /
// deny / revoke state machine. Approval and revocation events are only
// honored when signed by the main terminal's key, so a compromised relay
// cannot grant trust.
type TrustServiceImpl struct {
	cfg        config.TerminalConfig
	transport  ports.RelayTransport
	identity   ports.IdentityStore
	devices    ports.DeviceStore
	terminalID string
	mainPubkey string
	log        zerolog.Logger

	mu      sync.Mutex
	status  domain.ApprovalStatus
	pending map[string]domain.JoinRequest // keyed by terminal id
	sub     ports.Subscription
	started bool
	ready   chan struct{} // closed after stored trust history replays
}

// NewTrustService creates a new TrustServiceImpl. terminalID is the local
// terminal's persistent identity.
func NewTrustService(
	cfg config.TerminalConfig,
	transport ports.RelayTransport,
	identity ports.IdentityStore,
	devices ports.DeviceStore,
	terminalID string,
	log zerolog.Logger,
) *TrustServiceImpl {
	mainPubkey := cfg.MainPubkey
	if cfg.IsMain() {
		mainPubkey = transport.PublicKey()
	}
	return &TrustServiceImpl{
		cfg:        cfg,
		transport:  transport,
		identity:   identity,
		devices:    devices,
		terminalID: terminalID,
		mainPubkey: mainPubkey,
		log:        log,
		pending:    make(map[string]domain.JoinRequest),
		ready:      make(chan struct{}),
	}
}

// Start loads the local approval standing and subscribes to the trust
// handshake. Calling Start twice is a no-op.
func (s *TrustServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	status, err := s.identity.GetApprovalStatus(ctx)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	// The main terminal is trusted by construction.
	if s.cfg.IsMain() && status != domain.ApprovalApproved {
		status = domain.ApprovalApproved
		if err := s.identity.SaveApprovalStatus(ctx, status); err != nil {
			return apperror.ErrStorage(err)
		}
	}
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()

	sub, err := s.transport.Subscribe(ctx,
		relay.TrustFilters(s.cfg.MerchantID, s.transport.PublicKey()),
		func(ev *nostr.Event) { s.handleEvent(ctx, ev) },
		func() {
			s.log.Info().Msg("trust history replayed")
			close(s.ready)
		},
	)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()
	return nil
}

// Ready blocks until stored trust history has been replayed, or ctx ends.
func (s *TrustServiceImpl) Ready(ctx context.Context) error {
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RequestJoin publishes a join request for this terminal. Only meaningful
// on a sub terminal; re-requesting while pending is idempotent, and an
// already-approved terminal keeps its standing untouched.
func (s *TrustServiceImpl) RequestJoin(ctx context.Context) error {
	if s.cfg.IsMain() {
		return apperror.InternalError(fmt.Errorf("main terminal cannot request to join its own fleet"))
	}
	if s.LocalStatus() == domain.ApprovalApproved {
		s.log.Debug().Msg("join request skipped, terminal is already approved")
		return nil
	}

	req := domain.JoinRequest{
		TerminalID:     s.terminalID,
		TerminalName:   s.cfg.Name,
		TerminalPubkey: s.transport.PublicKey(),
		MerchantID:     s.cfg.MerchantID,
		RequestedAt:    time.Now().UTC(),
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return apperror.InternalError(err)
	}

	ev := &nostr.Event{
		Kind:      domain.KindJoinRequest,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagMerchant, s.cfg.MerchantID},
			{domain.TagTerminal, s.terminalID},
		},
		Content: string(payload),
	}
	if err := s.transport.Publish(ctx, ev); err != nil {
		return err
	}

	s.mu.Lock()
	moved := s.status == domain.ApprovalNone || s.status == domain.ApprovalDenied
	if moved {
		s.status = domain.ApprovalPending
	}
	s.mu.Unlock()
	if moved {
		if err := s.identity.SaveApprovalStatus(ctx, domain.ApprovalPending); err != nil {
			return apperror.ErrStorage(err)
		}
	}

	s.log.Info().Str("terminal_id", s.terminalID).Msg("join request published")
	return nil
}

// ApproveDevice admits a pending terminal into the approved set and
// broadcasts the decision. Main terminal only.
func (s *TrustServiceImpl) ApproveDevice(ctx context.Context, terminalID string) error {
	if !s.cfg.IsMain() {
		return apperror.ErrNotMainTerminal()
	}

	s.mu.Lock()
	req, ok := s.pending[terminalID]
	s.mu.Unlock()
	if !ok {
		return apperror.ErrJoinRequestNotFound(terminalID)
	}

	if err := s.publishDecision(ctx, req, true); err != nil {
		return err
	}

	device := &domain.ApprovedDevice{
		TerminalID:     req.TerminalID,
		TerminalName:   req.TerminalName,
		TerminalPubkey: req.TerminalPubkey,
		Role:           domain.RoleSub,
		ApprovedAt:     time.Now().UTC(),
	}
	if err := s.devices.Upsert(ctx, device); err != nil {
		return apperror.ErrStorage(err)
	}

	s.mu.Lock()
	delete(s.pending, terminalID)
	s.mu.Unlock()

	s.log.Info().
		Str("terminal_id", terminalID).
		Str("terminal_name", req.TerminalName).
		Msg("device approved")
	return nil
}

// DenyDevice rejects a pending join request. Main terminal only.
func (s *TrustServiceImpl) DenyDevice(ctx context.Context, terminalID string) error {
	if !s.cfg.IsMain() {
		return apperror.ErrNotMainTerminal()
	}

	s.mu.Lock()
	req, ok := s.pending[terminalID]
	s.mu.Unlock()
	if !ok {
		return apperror.ErrJoinRequestNotFound(terminalID)
	}

	if err := s.publishDecision(ctx, req, false); err != nil {
		return err
	}

	s.mu.Lock()
	delete(s.pending, terminalID)
	s.mu.Unlock()

	s.log.Info().Str("terminal_id", terminalID).Msg("device denied")
	return nil
}

// RevokeDevice removes an approved terminal from the fleet and broadcasts
// the revocation. Main terminal only.
func (s *TrustServiceImpl) RevokeDevice(ctx context.Context, terminalID string) error {
	if !s.cfg.IsMain() {
		return apperror.ErrNotMainTerminal()
	}

	device, err := s.devices.Get(ctx, terminalID)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if device == nil {
		return apperror.ErrUnapprovedTerminal(terminalID)
	}

	payload, err := json.Marshal(domain.Revocation{TerminalID: terminalID})
	if err != nil {
		return apperror.InternalError(err)
	}
	ev := &nostr.Event{
		Kind:      domain.KindDeviceRevoke,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagMerchant, s.cfg.MerchantID},
			{domain.TagTerminal, terminalID},
			{domain.TagRecipient, device.TerminalPubkey},
		},
		Content: string(payload),
	}
	if err := s.transport.Publish(ctx, ev); err != nil {
		return err
	}

	if err := s.devices.Remove(ctx, terminalID); err != nil {
		return apperror.ErrStorage(err)
	}

	s.log.Warn().Str("terminal_id", terminalID).Msg("device revoked")
	return nil
}

// IsApproved reports whether terminalID is in the approved set. The local
// main terminal is always approved.
func (s *TrustServiceImpl) IsApproved(terminalID string) bool {
	if s.cfg.IsMain() && terminalID == s.terminalID {
		return true
	}
	device, err := s.devices.Get(context.Background(), terminalID)
	if err != nil {
		s.log.Error().Err(err).Str("terminal_id", terminalID).Msg("approval lookup failed")
		return false
	}
	return device != nil
}

// TrustedSender reports whether an inbound event signed by pubkey and
// claiming terminalID may mutate local state. The main terminal's key is
// always trusted; anyone else must be an approved device whose registered
// pubkey matches the signature.
func (s *TrustServiceImpl) TrustedSender(pubkey, terminalID string) bool {
	if pubkey == s.mainPubkey {
		return true
	}
	device, err := s.devices.Get(context.Background(), terminalID)
	if err != nil {
		s.log.Error().Err(err).Str("terminal_id", terminalID).Msg("trust lookup failed")
		return false
	}
	return device != nil && device.TerminalPubkey == pubkey
}

// LocalStatus returns this terminal's own approval standing.
func (s *TrustServiceImpl) LocalStatus() domain.ApprovalStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ApprovedDevices lists the converged approved set.
func (s *TrustServiceImpl) ApprovedDevices(ctx context.Context) ([]domain.ApprovedDevice, error) {
	devices, err := s.devices.List(ctx)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	return devices, nil
}

// PendingRequests returns the unanswered join requests, oldest first.
func (s *TrustServiceImpl) PendingRequests() []domain.JoinRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	reqs := make([]domain.JoinRequest, 0, len(s.pending))
	for _, r := range s.pending {
		reqs = append(reqs, r)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].RequestedAt.Before(reqs[j].RequestedAt) })
	return reqs
}

// Close tears down the relay subscription.
func (s *TrustServiceImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub != nil {
		s.sub.Unsub()
		s.sub = nil
	}
}

func (s *TrustServiceImpl) publishDecision(ctx context.Context, req domain.JoinRequest, approved bool) error {
	payload, err := json.Marshal(domain.ApprovalDecision{
		TerminalID:     req.TerminalID,
		TerminalName:   req.TerminalName,
		TerminalPubkey: req.TerminalPubkey,
		Approved:       approved,
	})
	if err != nil {
		return apperror.InternalError(err)
	}
	ev := &nostr.Event{
		Kind:      domain.KindJoinApproval,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagMerchant, s.cfg.MerchantID},
			{domain.TagTerminal, req.TerminalID},
			{domain.TagRecipient, req.TerminalPubkey},
		},
		Content: string(payload),
	}
	return s.transport.Publish(ctx, ev)
}

// handleEvent dispatches one inbound trust event. Handlers are idempotent:
// relays redeliver.
func (s *TrustServiceImpl) handleEvent(ctx context.Context, ev *nostr.Event) {
	switch ev.Kind {
	case domain.KindJoinRequest:
		s.handleJoinRequest(ctx, ev)
	case domain.KindJoinApproval:
		s.handleApproval(ctx, ev)
	case domain.KindDeviceRevoke:
		s.handleRevoke(ctx, ev)
	}
}

func (s *TrustServiceImpl) handleJoinRequest(ctx context.Context, ev *nostr.Event) {
	// Only the main terminal answers join requests.
	if !s.cfg.IsMain() || ev.PubKey == s.transport.PublicKey() {
		return
	}

	var req domain.JoinRequest
	if err := json.Unmarshal([]byte(ev.Content), &req); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed join request")
		return
	}
	if req.TerminalPubkey != ev.PubKey || req.MerchantID != s.cfg.MerchantID {
		s.log.Warn().Str("event_id", ev.ID).Msg("join request identity mismatch, dropped")
		return
	}

	// Already approved: nothing to decide.
	device, err := s.devices.Get(ctx, req.TerminalID)
	if err != nil {
		s.log.Error().Err(err).Msg("device lookup failed")
		return
	}
	if device != nil {
		return
	}

	s.mu.Lock()
	_, exists := s.pending[req.TerminalID]
	if !exists {
		s.pending[req.TerminalID] = req
	}
	s.mu.Unlock()

	if !exists {
		s.log.Info().
			Str("terminal_id", req.TerminalID).
			Str("terminal_name", req.TerminalName).
			Msg("join request received")
	}
}

func (s *TrustServiceImpl) handleApproval(ctx context.Context, ev *nostr.Event) {
	// Trust decisions are only valid from the main terminal's key.
	if ev.PubKey != s.mainPubkey || ev.PubKey == s.transport.PublicKey() {
		return
	}

	var decision domain.ApprovalDecision
	if err := json.Unmarshal([]byte(ev.Content), &decision); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed approval")
		return
	}

	if decision.TerminalPubkey == s.transport.PublicKey() {
		status := domain.ApprovalDenied
		if decision.Approved {
			status = domain.ApprovalApproved
		}
		s.mu.Lock()
		s.status = status
		s.mu.Unlock()
		if err := s.identity.SaveApprovalStatus(ctx, status); err != nil {
			s.log.Error().Err(err).Msg("persisting approval status failed")
		}
		s.log.Info().Str("status", string(status)).Msg("approval decision received")
	}

	// Every terminal mirrors the approved set so sync authorization
	// converges fleet-wide.
	if decision.Approved {
		err := s.devices.Upsert(ctx, &domain.ApprovedDevice{
			TerminalID:     decision.TerminalID,
			TerminalName:   decision.TerminalName,
			TerminalPubkey: decision.TerminalPubkey,
			Role:           domain.RoleSub,
			ApprovedAt:     ev.CreatedAt.Time(),
		})
		if err != nil {
			s.log.Error().Err(err).Msg("mirroring approval failed")
		}
	}
}

func (s *TrustServiceImpl) handleRevoke(ctx context.Context, ev *nostr.Event) {
	if ev.PubKey != s.mainPubkey || ev.PubKey == s.transport.PublicKey() {
		return
	}

	var rev domain.Revocation
	if err := json.Unmarshal([]byte(ev.Content), &rev); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed revocation")
		return
	}

	if err := s.devices.Remove(ctx, rev.TerminalID); err != nil {
		s.log.Error().Err(err).Msg("mirroring revocation failed")
	}

	if rev.TerminalID == s.terminalID {
		s.mu.Lock()
		s.status = domain.ApprovalDenied
		s.mu.Unlock()
		if err := s.identity.SaveApprovalStatus(ctx, domain.ApprovalDenied); err != nil {
			s.log.Error().Err(err).Msg("persisting revoked status failed")
		}
		s.log.Warn().Msg("this terminal has been revoked")
	}
}
