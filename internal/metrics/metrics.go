// Package metrics defines and registers the custom Prometheus metrics of the
// bookshelf review service. HTTP request metrics come from the echoprometheus
// middleware; everything here covers the catalog upstream and the review
// write path.
//
// All metrics are registered with the default registry at package init via
// promauto, so importing the package is enough.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bookshelf"

// ── Catalog upstream ─────────────────────────────────────────────────────────

// UpstreamRequestsTotal counts catalog requests.
// Labels:
//   - endpoint: logical call ("popular", "search", "isbn", "author", "title", "review_data")
//   - outcome: "ok", "not_found", "http_error" or "transport_error"
var UpstreamRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of catalog upstream requests, by endpoint and outcome.",
	},
	[]string{"endpoint", "outcome"},
)

// UpstreamRequestDuration measures catalog round trips, including the time
// spent waiting on the outbound rate limiter.
var UpstreamRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Duration of catalog upstream requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint"},
)

// ── Reviews ──────────────────────────────────────────────────────────────────

// ReviewMutationsTotal counts review writes.
// Labels:
//   - action: "created", "updated" or "deleted"
//   - result: "ok", "not_found", "user_not_found" or "error"
var ReviewMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "review_mutations_total",
		Help:      "Total number of review mutations, by action and result.",
	},
	[]string{"action", "result"},
)

// IdempotencyChecksTotal counts Idempotency-Key claims on review creation.
// Label:
//   - result: "claimed", "replayed", "in_progress" or "error"
var IdempotencyChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotency_checks_total",
		Help:      "Total number of idempotency key checks, labelled by result.",
	},
	[]string{"result"},
)

// ── Audit trail ──────────────────────────────────────────────────────────────

// AuditQueueDepth tracks events waiting in each audit worker channel.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of review audit events pending per worker.",
	},
	[]string{"worker_id"},
)

// AuditEventsTotal counts audit writes.
// Label:
//   - result: "ok", "error" or "dropped"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of review audit events handled, by result.",
	},
	[]string{"result"},
)
