package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/relay"
	"cashu-pos/internal/core/domain"
	"cashu-pos/internal/core/ports"
	"cashu-pos/internal/metrics"
	"cashu-pos/pkg/apperror"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
)

const outboxBatchSize = 50

// keyedMutex serializes work per entity id so concurrent inbound updates
// to the same entity cannot interleave their read-resolve-write cycles.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// SyncServiceImpl implements ports.SyncService. Local mutations go through
// a durable outbox so an offline terminal never loses a change; inbound
// events converge through the version rule. Everything is idempotent
// because relays redeliver.
type SyncServiceImpl struct {
	cfg        config.TerminalConfig
	transport  ports.RelayTransport
	trust      ports.TrustService
	store      ports.SyncStore
	terminalID string
	drainEvery time.Duration
	log        zerolog.Logger

	entityLocks *keyedMutex

	mu      sync.Mutex
	sub     ports.Subscription
	started bool
	stop    chan struct{}
	done    sync.WaitGroup
}

// NewSyncService creates a new SyncServiceImpl.
func NewSyncService(
	cfg config.TerminalConfig,
	syncCfg config.SyncConfig,
	transport ports.RelayTransport,
	trust ports.TrustService,
	store ports.SyncStore,
	terminalID string,
	log zerolog.Logger,
) *SyncServiceImpl {
	drainEvery := syncCfg.DrainInterval
	if drainEvery <= 0 {
		drainEvery = 5 * time.Second
	}
	return &SyncServiceImpl{
		cfg:         cfg,
		transport:   transport,
		trust:       trust,
		store:       store,
		terminalID:  terminalID,
		drainEvery:  drainEvery,
		log:         log,
		entityLocks: newKeyedMutex(),
		stop:        make(chan struct{}),
	}
}

// Start subscribes from the stored checkpoint and launches the outbox
// drain loop. Calling Start twice is a no-op.
func (s *SyncServiceImpl) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.mu.Unlock()

	since, err := s.store.GetCheckpoint(ctx, s.terminalID)
	if err != nil {
		return apperror.ErrStorage(err)
	}

	sub, err := s.transport.Subscribe(ctx,
		relay.SyncFilters(s.cfg.MerchantID, since),
		func(ev *nostr.Event) {
			if err := s.HandleInboundEvent(ctx, ev); err != nil {
				s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("inbound sync event failed")
			}
		},
		func() { s.log.Info().Int64("since", since).Msg("sync history replayed") },
	)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.sub = sub
	s.mu.Unlock()

	s.done.Add(1)
	go s.drainLoop(ctx)
	return nil
}

// PublishChange persists a local entity mutation and queues it for relay
// publication. The caller owns Version bumping; UpdatedBy is stamped here.
func (s *SyncServiceImpl) PublishChange(ctx context.Context, rec *domain.SyncRecord) error {
	if s.trust.LocalStatus() != domain.ApprovalApproved {
		return apperror.ErrLocalNotApproved()
	}

	rec.UpdatedBy = s.terminalID
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	unlock := s.entityLocks.lock(rec.ID)
	err := s.store.PutRecord(ctx, rec)
	unlock()
	if err != nil {
		return apperror.ErrStorage(err)
	}

	ev, err := s.entityEvent(rec.Kind.EventKind(), rec)
	if err != nil {
		return err
	}
	return s.enqueue(ctx, ev)
}

// PublishDeletion marks an entity deleted and broadcasts the tombstone.
// The tombstone participates in the same version race as updates, so a
// concurrent later edit can still win.
func (s *SyncServiceImpl) PublishDeletion(ctx context.Context, entityID string, kind domain.EntityKind) error {
	if s.trust.LocalStatus() != domain.ApprovalApproved {
		return apperror.ErrLocalNotApproved()
	}

	unlock := s.entityLocks.lock(entityID)
	defer unlock()

	rec, err := s.store.GetRecord(ctx, entityID)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	if rec == nil {
		rec = &domain.SyncRecord{ID: entityID, Kind: kind}
	}
	rec.Version++
	rec.Deleted = true
	rec.Payload = nil
	rec.UpdatedAt = time.Now().UTC()
	rec.UpdatedBy = s.terminalID

	if err := s.store.PutRecord(ctx, rec); err != nil {
		return apperror.ErrStorage(err)
	}

	ev, err := s.entityEvent(domain.KindEntityDelete, rec)
	if err != nil {
		return err
	}
	return s.enqueue(ctx, ev)
}

// PublishTransaction records a financial event and queues it for the
// fleet. Transactions are append-only and never versioned.
func (s *SyncServiceImpl) PublishTransaction(ctx context.Context, tx *domain.TransactionRecord) error {
	if s.trust.LocalStatus() != domain.ApprovalApproved {
		return apperror.ErrLocalNotApproved()
	}

	if err := s.store.PutTransaction(ctx, tx); err != nil {
		return apperror.ErrStorage(err)
	}

	payload, err := json.Marshal(tx)
	if err != nil {
		return apperror.InternalError(err)
	}
	ev := &nostr.Event{
		Kind:      domain.KindTransaction,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagMerchant, s.cfg.MerchantID},
			{domain.TagTerminal, s.terminalID},
		},
		Content: string(payload),
	}
	return s.enqueue(ctx, ev)
}

// HandleInboundEvent converges one relay event into local state.
func (s *SyncServiceImpl) HandleInboundEvent(ctx context.Context, ev *nostr.Event) error {
	senderTerminal := domain.TagValue(ev, domain.TagTerminal)

	// Our own events come back from the relays; they carry nothing new.
	if senderTerminal == s.terminalID {
		return nil
	}

	if !s.trust.TrustedSender(ev.PubKey, senderTerminal) {
		metrics.EventsProcessed.WithLabelValues("rejected").Inc()
		s.log.Warn().
			Str("event_id", ev.ID).
			Str("terminal_id", senderTerminal).
			Msg("event from unapproved terminal dropped")
		return apperror.ErrUnapprovedTerminal(senderTerminal)
	}

	var err error
	switch {
	case ev.Kind == domain.KindTransaction:
		err = s.applyTransaction(ctx, ev)
	case ev.Kind == domain.KindEntityDelete:
		err = s.applyEntity(ctx, ev, true)
	default:
		if _, ok := domain.EntityKindForEvent(ev.Kind); ok {
			err = s.applyEntity(ctx, ev, false)
		} else {
			return nil
		}
	}
	if err != nil {
		return err
	}

	// Advance the low-water mark; the store never regresses it.
	if err := s.store.SaveCheckpoint(ctx, s.terminalID, int64(ev.CreatedAt)); err != nil {
		s.log.Error().Err(err).Msg("checkpoint save failed")
	}
	return nil
}

// CatchUp replays stored relay history since the checkpoint once. Used on
// reconnect, on top of whatever the live subscription already delivered.
func (s *SyncServiceImpl) CatchUp(ctx context.Context) error {
	since, err := s.store.GetCheckpoint(ctx, s.terminalID)
	if err != nil {
		return apperror.ErrStorage(err)
	}

	events, err := s.transport.Query(ctx, relay.SyncFilters(s.cfg.MerchantID, since))
	if err != nil {
		return err
	}
	for _, ev := range events {
		if err := s.HandleInboundEvent(ctx, ev); err != nil {
			s.log.Warn().Err(err).Str("event_id", ev.ID).Msg("catch-up event failed")
		}
	}
	s.log.Info().Int("events", len(events)).Msg("catch-up complete")
	return nil
}

// DrainOutbox publishes queued changes oldest-first, stopping at the first
// failure to preserve ordering. Safe to call concurrently with the loop.
func (s *SyncServiceImpl) DrainOutbox(ctx context.Context) error {
	entries, err := s.store.ListOutbox(ctx, outboxBatchSize)
	if err != nil {
		return apperror.ErrStorage(err)
	}
	metrics.OutboxDepth.Set(float64(len(entries)))

	for _, entry := range entries {
		var ev nostr.Event
		if err := json.Unmarshal(entry.Payload, &ev); err != nil {
			// Unparseable entries would wedge the queue forever; drop them.
			s.log.Error().Err(err).Int64("seq", entry.Seq).Msg("corrupt outbox entry dropped")
			if err := s.store.RemoveOutbox(ctx, entry.Seq); err != nil {
				return apperror.ErrStorage(err)
			}
			continue
		}

		if err := s.transport.Publish(ctx, &ev); err != nil {
			metrics.RelayPublishes.WithLabelValues("error").Inc()
			if apperror.IsRetryable(err) {
				s.log.Debug().Err(err).Int64("seq", entry.Seq).Msg("outbox publish deferred")
				return nil
			}
			return err
		}
		metrics.RelayPublishes.WithLabelValues("ok").Inc()

		if err := s.store.RemoveOutbox(ctx, entry.Seq); err != nil {
			return apperror.ErrStorage(err)
		}
		metrics.OutboxDepth.Dec()
	}
	return nil
}

// Close stops the drain loop and the subscription.
func (s *SyncServiceImpl) Close() {
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

func (s *SyncServiceImpl) entityEvent(kind int, rec *domain.SyncRecord) (*nostr.Event, error) {
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return &nostr.Event{
		Kind:      kind,
		CreatedAt: nostr.Now(),
		Tags: nostr.Tags{
			{domain.TagMerchant, s.cfg.MerchantID},
			{domain.TagTerminal, s.terminalID},
			{domain.TagEntity, rec.ID},
		},
		Content: string(payload),
	}, nil
}

// enqueue appends the event to the durable outbox and kicks an immediate
// drain attempt. The drain failing is fine: the loop retries.
func (s *SyncServiceImpl) enqueue(ctx context.Context, ev *nostr.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return apperror.InternalError(err)
	}
	if _, err := s.store.AppendOutbox(ctx, payload); err != nil {
		return apperror.ErrStorage(err)
	}
	metrics.OutboxDepth.Inc()

	if err := s.DrainOutbox(ctx); err != nil {
		s.log.Debug().Err(err).Msg("immediate outbox drain failed, loop will retry")
	}
	return nil
}

func (s *SyncServiceImpl) applyEntity(ctx context.Context, ev *nostr.Event, tombstone bool) error {
	var inbound domain.SyncRecord
	if err := json.Unmarshal([]byte(ev.Content), &inbound); err != nil {
		metrics.EventsProcessed.WithLabelValues("invalid").Inc()
		return apperror.ErrInvalidEvent(err)
	}
	if inbound.ID == "" {
		metrics.EventsProcessed.WithLabelValues("invalid").Inc()
		return apperror.ErrInvalidEvent(nil)
	}
	if tombstone {
		inbound.Deleted = true
	}

	unlock := s.entityLocks.lock(inbound.ID)
	defer unlock()

	local, err := s.store.GetRecord(ctx, inbound.ID)
	if err != nil {
		return apperror.ErrStorage(err)
	}

	if domain.Resolve(local, &inbound) == domain.ResolutionStale {
		metrics.EventsProcessed.WithLabelValues("stale").Inc()
		metrics.ConflictsDiscarded.Inc()
		s.log.Debug().
			Str("entity_id", inbound.ID).
			Int64("local_version", local.Version).
			Int64("inbound_version", inbound.Version).
			Msg("stale update discarded")
		return nil
	}

	if err := s.store.PutRecord(ctx, &inbound); err != nil {
		return apperror.ErrStorage(err)
	}
	metrics.EventsProcessed.WithLabelValues("applied").Inc()
	return nil
}

func (s *SyncServiceImpl) applyTransaction(ctx context.Context, ev *nostr.Event) error {
	var tx domain.TransactionRecord
	if err := json.Unmarshal([]byte(ev.Content), &tx); err != nil {
		metrics.EventsProcessed.WithLabelValues("invalid").Inc()
		return apperror.ErrInvalidEvent(err)
	}
	if tx.ID == "" {
		metrics.EventsProcessed.WithLabelValues("invalid").Inc()
		return apperror.ErrInvalidEvent(nil)
	}

	// Append-only: the store ignores duplicates.
	if err := s.store.PutTransaction(ctx, &tx); err != nil {
		return apperror.ErrStorage(err)
	}
	metrics.EventsProcessed.WithLabelValues("applied").Inc()
	return nil
}

func (s *SyncServiceImpl) drainLoop(ctx context.Context) {
	defer s.done.Done()
	ticker := time.NewTicker(s.drainEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.DrainOutbox(ctx); err != nil {
				s.log.Warn().Err(err).Msg("outbox drain failed")
			}
		}
	}
}
