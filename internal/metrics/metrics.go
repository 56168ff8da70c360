// Package metrics exposes the terminal's Prometheus collectors. Everything
// is registered on the default registry and served by the operator API's
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EventsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pos_sync_events_processed_total",
	Help: "Inbound relay events handled by the sync engine, by outcome.",
}, []string{"outcome"}) // applied, stale, rejected, invalid

var ConflictsDiscarded = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_sync_conflicts_discarded_total",
	Help: "Inbound entity updates discarded as stale by the version rule.",
})

var OutboxDepth = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pos_sync_outbox_depth",
	Help: "Changes waiting in the durable outbox for relay publication.",
})

var QueueDepth = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "pos_queue_depth",
	Help: "Offline payment queue size by status.",
}, []string{"status"})

var PaymentsQueued = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_queue_payments_total",
	Help: "Payments provisionally accepted while offline.",
})

var PaymentsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pos_queue_rejected_total",
	Help: "Offline payments rejected at admission, by reason.",
}, []string{"reason"})

var PaymentsVerified = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_queue_verified_total",
	Help: "Queued payments verified and redeemed at their mint.",
})

var PaymentsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_queue_failed_total",
	Help: "Queued payments that failed verification permanently.",
})

var ForwardsPending = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "pos_forwards_pending",
	Help: "Token forwards awaiting acknowledgment from the main terminal.",
})

var ForwardsSent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "pos_forwards_sent_total",
	Help: "Encrypted token forwards published to the main terminal.",
})

var ForwardsAcked = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pos_forwards_acked_total",
	Help: "Forward receipts received, by result.",
}, []string{"result"}) // success, failure

var RelayPublishes = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pos_relay_publishes_total",
	Help: "Relay publish attempts, by outcome.",
}, []string{"outcome"}) // ok, error
