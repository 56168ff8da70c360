// Package relay implements the signed-event pub/sub transport over one or
// more nostr relays. Delivery is relay-arrival order with possible
// duplicates; consumers must stay idempotent on event id.
package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/apperror"

	"github.com/nbd-wtf/go-nostr"
	"github.com/rs/zerolog"
)

const seenCacheSize = 4096

// Transport owns the terminal keypair and the relay connections. Every
// publish signs with the local identity; the transport never publishes on
// behalf of another identity.
type Transport struct {
	urls           []string
	sk             string
	pk             string
	publishTimeout time.Duration
	log            zerolog.Logger

	mu     sync.Mutex
	relays map[string]*nostr.Relay
	closed bool

	seen *seenCache
}

// New creates a Transport for the given relay URLs, signing with sk.
func New(urls []string, sk string, publishTimeout time.Duration, log zerolog.Logger) (*Transport, error) {
	pk, err := nostr.GetPublicKey(sk)
	if err != nil {
		return nil, apperror.InternalError(err)
	}
	return &Transport{
		urls:           urls,
		sk:             sk,
		pk:             pk,
		publishTimeout: publishTimeout,
		log:            log,
		relays:         make(map[string]*nostr.Relay),
		seen:           newSeenCache(seenCacheSize),
	}, nil
}

// PublicKey returns the terminal identity.
func (t *Transport) PublicKey() string {
	return t.pk
}

// connected returns live relay handles, dialing any relay not yet
// connected. Dial failures are logged and skipped; one live relay is
// enough to operate.
func (t *Transport) connected(ctx context.Context) []*nostr.Relay {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}

	var out []*nostr.Relay
	for _, url := range t.urls {
		if r, ok := t.relays[url]; ok {
			out = append(out, r)
			continue
		}
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		r, err := nostr.RelayConnect(dialCtx, url)
		cancel()
		if err != nil {
			t.log.Debug().Err(err).Str("relay", url).Msg("relay dial failed")
			continue
		}
		t.relays[url] = r
		out = append(out, r)
	}
	return out
}

func (t *Transport) dropRelay(url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.relays[url]; ok {
		r.Close()
		delete(t.relays, url)
	}
}

// Publish signs ev and fans it out to every connected relay. It returns on
// the first acknowledgment; when no relay acknowledges within the publish
// timeout it fails, and the caller owns the retry.
func (t *Transport) Publish(ctx context.Context, ev *nostr.Event) error {
	if ev.CreatedAt == 0 {
		ev.CreatedAt = nostr.Now()
	}
	if err := ev.Sign(t.sk); err != nil {
		return apperror.InternalError(err)
	}

	relays := t.connected(ctx)
	if len(relays) == 0 {
		return apperror.ErrNoRelayConnected()
	}

	pubCtx, cancel := context.WithTimeout(ctx, t.publishTimeout)
	defer cancel()

	acked := make(chan struct{}, len(relays))
	errs := make(chan error, len(relays))
	for _, r := range relays {
		go func(r *nostr.Relay) {
			if err := r.Publish(pubCtx, *ev); err != nil {
				// Losing the ack race cancels pubCtx and aborts the other
				// publishes mid-flight. Those connections are healthy and
				// carry live subscriptions, so only a genuine relay error
				// drops the connection.
				if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
					t.dropRelay(r.URL)
				}
				errs <- err
				return
			}
			acked <- struct{}{}
		}(r)
	}

	var lastErr error
	for range relays {
		select {
		case <-acked:
			return nil
		case err := <-errs:
			lastErr = err
		case <-pubCtx.Done():
			return apperror.ErrPublishTimeout(pubCtx.Err())
		}
	}
	return apperror.ErrPublishTimeout(lastErr)
}

// multiSub aggregates per-relay subscriptions behind one handle.
type multiSub struct {
	once sync.Once
	subs []*nostr.Subscription
}

// Unsub closes every underlying subscription; safe to call twice.
func (m *multiSub) Unsub() {
	m.once.Do(func() {
		for _, s := range m.subs {
			s.Unsub()
		}
	})
}

// Subscribe opens the filters on every connected relay and fans inbound
// events into onEvent, deduplicated by event id and signature-checked.
// onCaughtUp, when non-nil, fires once after every relay has replayed its
// stored history.
func (t *Transport) Subscribe(ctx context.Context, filters nostr.Filters, onEvent func(*nostr.Event), onCaughtUp func()) (ports.Subscription, error) {
	relays := t.connected(ctx)
	if len(relays) == 0 {
		return nil, apperror.ErrNoRelayConnected()
	}

	ms := &multiSub{}
	var eoseWG sync.WaitGroup
	for _, r := range relays {
		sub, err := r.Subscribe(ctx, filters)
		if err != nil {
			t.log.Warn().Err(err).Str("relay", r.URL).Msg("subscribe failed")
			t.dropRelay(r.URL)
			continue
		}
		ms.subs = append(ms.subs, sub)
		eoseWG.Add(1)

		go func(sub *nostr.Subscription, url string) {
			eoseSeen := false
			for {
				select {
				case ev, ok := <-sub.Events:
					if !ok {
						if !eoseSeen {
							eoseWG.Done()
						}
						return
					}
					t.deliver(ev, onEvent)
				case <-sub.EndOfStoredEvents:
					if !eoseSeen {
						eoseSeen = true
						eoseWG.Done()
					}
				case <-ctx.Done():
					if !eoseSeen {
						eoseWG.Done()
					}
					return
				}
			}
		}(sub, r.URL)
	}

	if len(ms.subs) == 0 {
		return nil, apperror.ErrNoRelayConnected()
	}

	if onCaughtUp != nil {
		go func() {
			eoseWG.Wait()
			onCaughtUp()
		}()
	}
	return ms, nil
}

// deliver forwards a verified, not-yet-seen event to the consumer.
func (t *Transport) deliver(ev *nostr.Event, onEvent func(*nostr.Event)) {
	if ev == nil || !t.seen.Add(ev.ID) {
		return
	}
	if ok, err := ev.CheckSignature(); !ok || err != nil {
		t.log.Warn().Str("event_id", ev.ID).Msg("dropping event with bad signature")
		return
	}
	onEvent(ev)
}

// Query runs a one-shot historical catch-up against every connected relay
// and merges the results, deduplicated by event id.
func (t *Transport) Query(ctx context.Context, filters nostr.Filters) ([]*nostr.Event, error) {
	relays := t.connected(ctx)
	if len(relays) == 0 {
		return nil, apperror.ErrNoRelayConnected()
	}

	byID := make(map[string]*nostr.Event)
	var order []string
	for _, r := range relays {
		for _, f := range filters {
			evs, err := r.QuerySync(ctx, f)
			if err != nil {
				t.log.Warn().Err(err).Str("relay", r.URL).Msg("query failed")
				continue
			}
			for _, ev := range evs {
				if ok, sigErr := ev.CheckSignature(); !ok || sigErr != nil {
					continue
				}
				if _, dup := byID[ev.ID]; !dup {
					byID[ev.ID] = ev
					order = append(order, ev.ID)
				}
			}
		}
	}

	out := make([]*nostr.Event, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	return out, nil
}

// Close drops every relay connection. The transport is unusable afterwards.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	for url, r := range t.relays {
		r.Close()
		delete(t.relays, url)
	}
}

// seenCache is a bounded FIFO set of event ids for duplicate suppression.
type seenCache struct {
	mu    sync.Mutex
	max   int
	ids   map[string]struct{}
	order []string
}

func newSeenCache(max int) *seenCache {
	return &seenCache{max: max, ids: make(map[string]struct{}, max)}
}

// Add records id, reporting false when it was already present.
func (c *seenCache) Add(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ids[id]; ok {
		return false
	}
	c.ids[id] = struct{}{}
	c.order = append(c.order, id)
	if len(c.order) > c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.ids, oldest)
	}
	return true
}
