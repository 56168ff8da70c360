package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/relay"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/internal/metrics"
	"cashu-pos/pkg/apperror"

	"github.com/google/uuid"
	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
)

var errDoesNotForward = errors.New("main terminal accumulates funds and does not forward")

// ForwardServiceImpl implements ports.ForwardService. A sub-terminal wraps
// every received token in an encrypted envelope addressed to the main
// terminal and tracks it until a receipt arrives; the main terminal
// decrypts, redeems the proofs at the mint, and acks. Relays only ever see
// ciphertext.
type ForwardServiceImpl struct {
	cfg        config.TerminalConfig
	fwdCfg     config.ForwardConfig
	transport  ports.RelayTransport
	trust      ports.TrustService
	cipher     *EnvelopeCipher
	mint       ports.MintClient
	store      ports.ForwardStore
	terminalID string
	mainPubkey string
	log        zerolog.Logger

	mu       sync.Mutex
	sub      ports.Subscription
	started  bool
	stop     chan struct{}
	done     sync.WaitGroup
	receipts map[string]domain.ForwardReceipt // envelope id -> issued receipt (main side)
}

// NewForwardService creates a new ForwardServiceImpl.
func NewForwardService(
	cfg config.TerminalConfig,
	fwdCfg config.ForwardConfig,
	transport ports.RelayTransport,
	trust ports.TrustService,
	cipher *EnvelopeCipher,
	mint ports.MintClient,
	store ports.ForwardStore,
	terminalID string,
	log zerolog.Logger,
) *ForwardServiceImpl {
	mainPubkey := cfg.MainPubkey
	if cfg.IsMain() {
		mainPubkey = transport.PublicKey()
	}
	if fwdCfg.Expiry <= 0 {
		fwdCfg.Expiry = 10 * time.Minute
	}
	if fwdCfg.SweepInterval <= 0 {
		fwdCfg.SweepInterval = time.Minute
	}
	return &ForwardServiceImpl{
		cfg:        cfg,
		fwdCfg:     fwdCfg,
		transport:  transport,
		trust:      trust,
		cipher:     cipher,
		mint:       mint,
		store:      store,
		terminalID: terminalID,
		mainPubkey: mainPubkey,
		log:        log,
		stop:       make(chan struct{}),
		receipts:   make(map[string]domain.ForwardReceipt),
	}
}

// Start subscribes to the forward channel and launches the expiry sweep.
func (s *ForwardServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	sub, err := s.transport.Subscribe(ctx,
		relay.ForwardFilters(s.transport.PublicKey()),
		func(ev *nostr.Event) { s.handleEvent(ctx, ev) },
		nil,
	)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	s.done.Add(1)
	go s.sweepLoop(ctx)
	return nil
}

// Forward encrypts a received token for the main terminal and publishes
// it. The pending row is written before the publish attempt, so a forward
// survives a crash or an offline window; the sweep and Resend pick it up.
func (s *ForwardServiceImpl) Forward(ctx context.Context, transactionID, token string) (*domain.PendingForward, error) {
	if s.cfg.IsMain() {
		return nil, apperror.InternalError(errDoesNotForward)
	}
	if s.trust.LocalStatus() != domain.ApprovalApproved {
		return nil, apperror.ErrLocalNotApproved()
	}

	decoded, err := s.mint.Decode(token)
	if err != nil {
		return nil, apperror.ErrInvalidToken(err)
	}

	envelope := domain.TokenForwardEnvelope{
		ID:            uuid.New().String(),
		TransactionID: transactionID,
		TerminalID:    s.terminalID,
		Amount:        decoded.Amount(),
		Token:         token,
		MintURL:       decoded.MintURL,
		CreatedAt:     time.Now().UTC(),
	}

	forward := &domain.PendingForward{
		Envelope: envelope,
		Status:   domain.ForwardStatusPending,
		SentAt:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, forward); err != nil {
		return nil, apperror.ErrStorage(err)
	}
	metrics.ForwardsPending.Inc()

	if err := s.publishEnvelope(ctx, envelope); err != nil {
		// Still pending on disk; the operator can resend once online.
		s.log.Warn().Err(err).Str("forward_id", envelope.ID).Msg("forward publish failed, kept pending")
		return forward, err
	}
	metrics.ForwardsSent.Inc()

	s.log.Info().
		Str("forward_id", envelope.ID).
		Str("transaction_id", transactionID).
		Int64("amount", envelope.Amount).
		Msg("token forwarded")
	return forward, nil
}

// Resend re-publishes an unacknowledged forward under a fresh envelope id
// and retires the old row. Failed forwards are never resendable: the mint
// already refused those proofs, and replaying them cannot succeed.
func (s *ForwardServiceImpl) Resend(ctx context.Context, forwardID string) (*domain.PendingForward, error) {
	old, err := s.store.Get(ctx, forwardID)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if old == nil {
		return nil, apperror.ErrForwardNotFound(forwardID)
	}
	if old.Status != domain.ForwardStatusPending && old.Status != domain.ForwardStatusExpired {
		return nil, apperror.ErrForwardNotResendable(string(old.Status))
	}

	envelope := old.Envelope
	envelope.ID = uuid.New().String()
	envelope.CreatedAt = time.Now().UTC()

	fresh := &domain.PendingForward{
		Envelope: envelope,
		Status:   domain.ForwardStatusPending,
		SentAt:   time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, fresh); err != nil {
		return nil, apperror.ErrStorage(err)
	}

	now := time.Now().UTC()
	old.Status = domain.ForwardStatusResent
	old.ResolvedAt = &now
	if err := s.store.Update(ctx, old); err != nil {
		return nil, apperror.ErrStorage(err)
	}

	if err := s.publishEnvelope(ctx, envelope); err != nil {
		s.log.Warn().Err(err).Str("forward_id", envelope.ID).Msg("resend publish failed, kept pending")
		return fresh, err
	}
	metrics.ForwardsSent.Inc()

	s.log.Info().
		Str("forward_id", envelope.ID).
		Str("replaces", forwardID).
		Msg("forward resent")
	return fresh, nil
}

// PendingForwards lists forwards still awaiting acknowledgment.
func (s *ForwardServiceImpl) PendingForwards(ctx context.Context) ([]domain.PendingForward, error) {
	forwards, err := s.store.ListPending(ctx)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	return forwards, nil
}

// Close stops the sweep loop and the subscription.
func (s *ForwardServiceImpl) Close() {
	s.mu.Lock()
	if s.sub != nil {
		s.sub.Unsub()
		s.sub = nil
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.mu.Unlock()
	s.done.Wait()
}

func (s *ForwardServiceImpl) publishEnvelope(ctx context.Context, envelope domain.TokenForwardEnvelope) error {
	plaintext, err := json.Marshal(envelope)
	if err != nil {
		return apperror.InternalError(err)
	}
	sealed, err := s.cipher.Encrypt(s.mainPubkey, plaintext)
	if err != nil {
		return apperror.ErrInvalidEnvelope(err)
	}

	ev := &nostr.Event{
		Kind:      domain.KindTokenForward,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagRecipient, s.mainPubkey},
			{domain.TagTerminal, s.terminalID},
		},
		Content: sealed,
	}
	return s.transport.Publish(ctx, ev)
}

func (s *ForwardServiceImpl) handleEvent(ctx context.Context, ev *nostr.Event) {
	switch ev.Kind {
	case domain.KindTokenForward:
		if s.cfg.IsMain() {
			s.handleForward(ctx, ev)
		}
	case domain.KindTokenReceived:
		if !s.cfg.IsMain() {
			s.handleReceipt(ctx, ev)
		}
	}
}

// handleForward is the main terminal's receive path: decrypt, authorize,
// redeem at the mint, acknowledge. Redelivered envelopes get the receipt
// they were already issued instead of a second mint round-trip.
func (s *ForwardServiceImpl) handleForward(ctx context.Context, ev *nostr.Event) {
	plaintext, err := s.cipher.Decrypt(ev.PubKey, ev.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("undecryptable forward dropped")
		return
	}
	var envelope domain.TokenForwardEnvelope
	if err := json.Unmarshal(plaintext, &envelope); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed forward envelope dropped")
		return
	}

	// Forwards from revoked or never-approved terminals are not redeemed;
	// the operator reviews the stuck forward on the sending side.
	if !s.trust.TrustedSender(ev.PubKey, envelope.TerminalID) {
		s.log.Warn().
			Str("terminal_id", envelope.TerminalID).
			Str("forward_id", envelope.ID).
			Msg("forward from unapproved terminal rejected")
		return
	}

	s.mu.Lock()
	receipt, seen := s.receipts[envelope.ID]
	s.mu.Unlock()

	if !seen {
		receipt = domain.ForwardReceipt{
			ForwardID:     envelope.ID,
			TransactionID: envelope.TransactionID,
			Success:       true,
		}
		if err := s.redeem(ctx, envelope); err != nil {
			receipt.Success = false
			receipt.Error = err.Error()
			s.log.Error().Err(err).
				Str("forward_id", envelope.ID).
				Int64("amount", envelope.Amount).
				Msg("forward redemption failed")
		} else {
			s.log.Info().
				Str("forward_id", envelope.ID).
				Str("terminal_id", envelope.TerminalID).
				Int64("amount", envelope.Amount).
				Msg("forward redeemed")
		}
		s.mu.Lock()
		s.receipts[envelope.ID] = receipt
		s.mu.Unlock()
	}

	if err := s.publishReceipt(ctx, ev.PubKey, receipt); err != nil {
		s.log.Warn().Err(err).Str("forward_id", envelope.ID).Msg("receipt publish failed")
	}
}

// redeem swaps the forwarded proofs for fresh ones owned by this terminal.
// The swap is what finalizes the transfer: afterwards the sender's copy of
// the proofs is worthless.
func (s *ForwardServiceImpl) redeem(ctx context.Context, envelope domain.TokenForwardEnvelope) error {
	decoded, err := s.mint.Decode(envelope.Token)
	if err != nil {
		return apperror.ErrInvalidToken(err)
	}
	if _, err := s.mint.Swap(ctx, envelope.MintURL, decoded.Proofs); err != nil {
		return apperror.ErrRedemptionFailure(err)
	}
	return nil
}

func (s *ForwardServiceImpl) publishReceipt(ctx context.Context, recipientPub string, receipt domain.ForwardReceipt) error {
	plaintext, err := json.Marshal(receipt)
	if err != nil {
		return apperror.InternalError(err)
	}
	sealed, err := s.cipher.Encrypt(recipientPub, plaintext)
	if err != nil {
		return apperror.ErrInvalidEnvelope(err)
	}

	ev := &nostr.Event{
		Kind:      domain.KindTokenReceived,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagRecipient, recipientPub},
			{domain.TagTerminal, s.terminalID},
		},
		Content: sealed,
	}
	return s.transport.Publish(ctx, ev)
}

// handleReceipt resolves a pending forward on the sending side. Receipts
// are only honored from the main terminal's key.
func (s *ForwardServiceImpl) handleReceipt(ctx context.Context, ev *nostr.Event) {
	if ev.PubKey != s.mainPubkey {
		s.log.Warn().Str("event_id", ev.ID).Msg("receipt from non-main key dropped")
		return
	}

	plaintext, err := s.cipher.Decrypt(ev.PubKey, ev.Content)
	if err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("undecryptable receipt dropped")
		return
	}
	var receipt domain.ForwardReceipt
	if err := json.Unmarshal(plaintext, &receipt); err != nil {
		s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("malformed receipt dropped")
		return
	}

	forward, err := s.store.Get(ctx, receipt.ForwardID)
	if err != nil {
		s.log.Error().Err(err).Msg("forward lookup failed")
		return
	}
	if forward == nil {
		return
	}
	// A late receipt can still resolve an expired forward; everything else
	// is already settled.
	if forward.Status != domain.ForwardStatusPending && forward.Status != domain.ForwardStatusExpired {
		return
	}

	now := time.Now().UTC()
	forward.ResolvedAt = &now
	if receipt.Success {
		forward.Status = domain.ForwardStatusAcked
		metrics.ForwardsAcked.WithLabelValues("success").Inc()
	} else {
		forward.Status = domain.ForwardStatusFailed
		forward.Error = receipt.Error
		metrics.ForwardsAcked.WithLabelValues("failure").Inc()
	}
	if err := s.store.Update(ctx, forward); err != nil {
		s.log.Error().Err(err).Msg("forward update failed")
		return
	}
	metrics.ForwardsPending.Dec()

	s.log.Info().
		Str("forward_id", receipt.ForwardID).
		Bool("success", receipt.Success).
		Msg("forward acknowledged")
}

func (s *ForwardServiceImpl) sweepLoop(ctx context.Context) {
	defer s.done.Done()
	ticker := time.NewTicker(s.fwdCfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.SweepExpired(ctx); err != nil {
				s.log.Warn().Err(err).Msg("forward expiry sweep failed")
			}
		}
	}
}

// SweepExpired transitions forwards that outlived the acknowledgment
// window to expired so the operator sees them.
func (s *ForwardServiceImpl) SweepExpired(ctx context.Context) error {
	pending, err := s.store.ListPending(ctx)
	if err != nil {
		return apperror.ErrStorage(err)
	}

	now := time.Now().UTC()
	for i := range pending {
		f := &pending[i]
		if !f.Expired(now, s.fwdCfg.Expiry) {
			continue
		}
		f.Status = domain.ForwardStatusExpired
		if err := s.store.Update(ctx, f); err != nil {
			return apperror.ErrStorage(err)
		}
		metrics.ForwardsPending.Dec()
		s.log.Warn().
			Str("forward_id", f.Envelope.ID).
			Int64("amount", f.Envelope.Amount).
			Dur("age", now.Sub(f.SentAt)).
			Msg("forward expired without acknowledgment")
	}
	return nil
}
