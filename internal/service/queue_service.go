package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/internal/metrics"
	"cashu-pos/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// processedHashWindow bounds the duplicate-detection memory. Older hashes
// age out; the mint's double-spend protection remains the backstop.
const processedHashWindow = 1000

var errTokenInvalid = errors.New("mint reports token invalid")

// OfflineQueueServiceImpl implements ports.OfflineQueueService. Tokens
// accepted while disconnected are provisional: they pass local checks and
// risk limits at admission and are redeemed at their mint once
// connectivity returns.
type OfflineQueueServiceImpl struct {
	qCfg         config.QueueConfig
	trustedMints map[string]struct{}
	mint         ports.MintClient
	store        ports.QueueStore
	reach        ports.Reachability
	syncSvc      ports.SyncService
	terminalID   string
	merchantID   string
	log          zerolog.Logger

	admitMu   sync.Mutex // serializes admission so limits cannot be raced past
	processMu sync.Mutex // one verification pass at a time

	mu      sync.Mutex
	started bool
	stop    chan struct{}
	done    sync.WaitGroup
}

// NewOfflineQueueService creates a new OfflineQueueServiceImpl.
func NewOfflineQueueService(
	qCfg config.QueueConfig,
	mintsCfg config.MintsConfig,
	mint ports.MintClient,
	store ports.QueueStore,
	reach ports.Reachability,
	syncSvc ports.SyncService,
	terminalID, merchantID string,
	log zerolog.Logger,
) *OfflineQueueServiceImpl {
	trusted := make(map[string]struct{}, len(mintsCfg.Trusted))
	for _, u := range mintsCfg.Trusted {
		trusted[normalizeMintURL(u)] = struct{}{}
	}
	if qCfg.ProcessInterval <= 0 {
		qCfg.ProcessInterval = 30 * time.Second
	}
	return &OfflineQueueServiceImpl{
		qCfg:         qCfg,
		trustedMints: trusted,
		mint:         mint,
		store:        store,
		reach:        reach,
		syncSvc:      syncSvc,
		terminalID:   terminalID,
		merchantID:   merchantID,
		log:          log,
		stop:         make(chan struct{}),
	}
}

// Start recovers rows stranded mid-verification by a crash and launches
// the periodic verification loop.
func (s *OfflineQueueServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	demoted, err := s.store.DemoteProcessing(ctx)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if demoted > 0 {
		s.log.Warn().Int("count", demoted).Msg("recovered payments stranded in processing")
	}

	s.done.Add(1)
	go s.processLoop(ctx)
	return nil
}

// QueuePayment provisionally accepts a token. Checks run in a fixed
// order: structure, mint trust, single-payment cap, queue caps, then
// duplicate detection, so the caller always sees the most fundamental
// failure first.
func (s *OfflineQueueServiceImpl) QueuePayment(ctx context.Context, tokenString string) (*domain.QueuedPayment, error) {
	decoded, err := s.mint.Decode(tokenString)
	if err != nil {
		metrics.PaymentsRejected.WithLabelValues("invalid").Inc()
		return nil, apperror.ErrInvalidToken(err)
	}
	amount := decoded.Amount()
	hash := canonicalTokenHash(decoded)

	s.admitMu.Lock()
	defer s.admitMu.Unlock()

	if _, ok := s.trustedMints[normalizeMintURL(decoded.MintURL)]; !ok {
		metrics.PaymentsRejected.WithLabelValues("untrusted_mint").Inc()
		return nil, apperror.ErrUntrustedMint(decoded.MintURL)
	}

	if s.qCfg.MaxSinglePayment > 0 && amount > s.qCfg.MaxSinglePayment {
		metrics.PaymentsRejected.WithLabelValues("single_limit").Inc()
		return nil, apperror.ErrSinglePaymentLimit(amount, s.qCfg.MaxSinglePayment)
	}

	pending, err := s.store.ListByStatus(ctx, domain.PaymentStatusPending)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if s.qCfg.MaxPendingCount > 0 && len(pending) >= s.qCfg.MaxPendingCount {
		metrics.PaymentsRejected.WithLabelValues("queue_full").Inc()
		return nil, apperror.ErrQueueFull(s.qCfg.MaxPendingCount)
	}
	if s.qCfg.MaxPendingAmount > 0 {
		var pendingAmount int64
		for _, p := range pending {
			pendingAmount += p.Amount
		}
		if pendingAmount+amount > s.qCfg.MaxPendingAmount {
			metrics.PaymentsRejected.WithLabelValues("amount_limit").Inc()
			return nil, apperror.ErrPendingAmountLimit(pendingAmount+amount, s.qCfg.MaxPendingAmount)
		}
	}

	seen, err := s.store.HasProcessedHash(ctx, hash)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if seen {
		metrics.PaymentsRejected.WithLabelValues("duplicate").Inc()
		return nil, apperror.ErrDuplicateToken()
	}
	queued, err := s.store.HasQueuedHash(ctx, hash)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	if queued {
		metrics.PaymentsRejected.WithLabelValues("duplicate").Inc()
		return nil, apperror.ErrDuplicateInQueue()
	}

	payment := &domain.QueuedPayment{
		ID:         uuid.New().String(),
		TokenHash:  hash,
		Token:      tokenString,
		Amount:     amount,
		MintURL:    decoded.MintURL,
		ReceivedAt: time.Now().UTC(),
		Status:     domain.PaymentStatusPending,
	}
	if err := s.store.Insert(ctx, payment); err != nil {
		return nil, apperror.ErrStorage(err)
	}

	metrics.PaymentsQueued.Inc()
	metrics.QueueDepth.WithLabelValues(string(domain.PaymentStatusPending)).Set(float64(len(pending) + 1))
	s.log.Info().
		Str("payment_id", payment.ID).
		Int64("amount", amount).
		Str("mint_url", decoded.MintURL).
		Msg("payment queued offline")
	return payment, nil
}

// ProcessQueue verifies pending payments oldest-first. Transient failures
// put the payment back in pending for the next pass; permanent failures
// mark it failed for operator review.
func (s *OfflineQueueServiceImpl) ProcessQueue(ctx context.Context) error {
	s.processMu.Lock()
	defer s.processMu.Unlock()

	if !s.reach.Online(ctx) {
		s.log.Debug().Msg("still offline, verification skipped")
		return nil
	}

	pending, err := s.store.ListByStatus(ctx, domain.PaymentStatusPending)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if len(pending) == 0 {
		return nil
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].ReceivedAt.Before(pending[j].ReceivedAt) })
	s.log.Info().Int("count", len(pending)).Msg("verifying queued payments")

	for i := range pending {
		p := pending[i]
		p.Status = domain.PaymentStatusProcessing
		if err := s.store.Update(ctx, &p); err != nil {
			return apperror.ErrStorage(err)
		}

		if err := s.verify(ctx, &p); err != nil {
			if apperror.IsRetryable(err) {
				p.Status = domain.PaymentStatusPending
				if uerr := s.store.Update(ctx, &p); uerr != nil {
					return apperror.ErrStorage(uerr)
				}
				s.log.Debug().Err(err).Str("payment_id", p.ID).Msg("verification deferred")
				continue
			}
			p.Status = domain.PaymentStatusFailed
			p.Error = err.Error()
			if uerr := s.store.Update(ctx, &p); uerr != nil {
				return apperror.ErrStorage(uerr)
			}
			metrics.PaymentsFailed.Inc()
			s.log.Error().Err(err).
				Str("payment_id", p.ID).
				Int64("amount", p.Amount).
				Msg("queued payment failed verification")
		}
	}

	s.updateDepthGauges(ctx)
	return nil
}

// verify redeems one payment at its mint and records the sale fleet-wide.
func (s *OfflineQueueServiceImpl) verify(ctx context.Context, p *domain.QueuedPayment) error {
	decoded, err := s.mint.Decode(p.Token)
	if err != nil {
		return apperror.ErrInvalidToken(err)
	}

	info, err := s.mint.Validate(ctx, p.Token)
	if err != nil {
		return err
	}
	if !info.Valid {
		return apperror.ErrRedemptionFailure(errTokenInvalid)
	}

	if _, err := s.mint.Swap(ctx, p.MintURL, decoded.Proofs); err != nil {
		return err
	}

	tx := &domain.TransactionRecord{
		ID:         uuid.New().String(),
		TerminalID: s.terminalID,
		MerchantID: s.merchantID,
		Amount:     p.Amount,
		MintURL:    p.MintURL,
		Status:     domain.TransactionStatusCompleted,
		CreatedAt:  time.Now().UTC(),
	}

	p.Status = domain.PaymentStatusVerified
	p.TransactionID = tx.ID
	p.Error = ""
	if err := s.store.Update(ctx, p); err != nil {
		return apperror.ErrStorage(err)
	}
	if err := s.store.AddProcessedHash(ctx, p.TokenHash, processedHashWindow); err != nil {
		return apperror.ErrStorage(err)
	}
	metrics.PaymentsVerified.Inc()

	if err := s.syncSvc.PublishTransaction(ctx, tx); err != nil {
		// The payment itself is settled; the record retries via the outbox.
		s.log.Warn().Err(err).Str("transaction_id", tx.ID).Msg("transaction publish failed")
	}

	s.log.Info().
		Str("payment_id", p.ID).
		Str("transaction_id", tx.ID).
		Int64("amount", p.Amount).
		Msg("queued payment verified")
	return nil
}

// RetryPayment puts a failed payment back in pending.
func (s *OfflineQueueServiceImpl) RetryPayment(ctx context.Context, id string) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if p == nil {
		return apperror.ErrPaymentNotFound(id)
	}
	if p.Status != domain.PaymentStatusFailed {
		return apperror.ErrNotRetryable(string(p.Status))
	}

	p.Status = domain.PaymentStatusPending
	p.Error = ""
	if err := s.store.Update(ctx, p); err != nil {
		return apperror.ErrStorage(err)
	}
	s.log.Info().Str("payment_id", id).Msg("payment requeued")
	return nil
}

// RemovePayment drops a payment from the queue. The operator eats the
// loss when removing an unverified one.
func (s *OfflineQueueServiceImpl) RemovePayment(ctx context.Context, id string) error {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if p == nil {
		return apperror.ErrPaymentNotFound(id)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return apperror.ErrStorage(err)
	}
	s.log.Info().Str("payment_id", id).Str("status", string(p.Status)).Msg("payment removed from queue")
	return nil
}

// ClearProcessed removes every settled row, keeping the queue listing
// readable. Pending payments are untouched.
func (s *OfflineQueueServiceImpl) ClearProcessed(ctx context.Context) (int, error) {
	n, err := s.store.ClearProcessed(ctx)
	if err != nil {
		return 0, apperror.ErrStorage(err)
	}
	s.updateDepthGauges(ctx)
	return n, nil
}

// Status summarizes the queue for the operator surface.
func (s *OfflineQueueServiceImpl) Status(ctx context.Context) (*domain.QueueStatus, error) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}

	status := &domain.QueueStatus{}
	for _, p := range payments {
		switch p.Status {
		case domain.PaymentStatusPending, domain.PaymentStatusProcessing:
			status.PendingCount++
			status.PendingAmount += p.Amount
		case domain.PaymentStatusVerified:
			status.VerifiedCount++
			status.VerifiedAmount += p.Amount
		case domain.PaymentStatusFailed:
			status.FailedCount++
		}
	}
	return status, nil
}

// List returns every queued payment.
func (s *OfflineQueueServiceImpl) List(ctx context.Context) ([]domain.QueuedPayment, error) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return nil, apperror.ErrStorage(err)
	}
	return payments, nil
}

// Close stops the verification loop.
func (s *OfflineQueueServiceImpl) Close() {
	s.mu.Lock()
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	s.mu.Unlock()
	s.done.Wait()
}

func (s *OfflineQueueServiceImpl) processLoop(ctx context.Context) {
	defer s.done.Done()
	ticker := time.NewTicker(s.qCfg.ProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.ProcessQueue(ctx); err != nil {
				s.log.Warn().Err(err).Msg("queue verification pass failed")
			}
		}
	}
}

func (s *OfflineQueueServiceImpl) updateDepthGauges(ctx context.Context) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return
	}
	counts := map[domain.PaymentStatus]int{}
	for _, p := range payments {
		counts[p.Status]++
	}
	for _, st := range []domain.PaymentStatus{
		domain.PaymentStatusPending,
		domain.PaymentStatusVerified,
		domain.PaymentStatusFailed,
	} {
		metrics.QueueDepth.WithLabelValues(string(st)).Set(float64(counts[st]))
	}
}

// canonicalTokenHash fingerprints a token by its mint and the sorted proof
// secrets, so re-encodings of the same proofs collapse to one hash.
func canonicalTokenHash(t *domain.Token) string {
	secrets := make([]string, len(t.Proofs))
	for i, p := range t.Proofs {
		secrets[i] = p.Secret
	}
	sort.Strings(secrets)

	h := sha256.New()
	h.Write([]byte(normalizeMintURL(t.MintURL)))
	for _, sec := range secrets {
		h.Write([]byte{0})
		h.Write([]byte(sec))
	}
	return hex.EncodeToString(h.Sum(nil))
}

func normalizeMintURL(u string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(u)), "/")
}
