// Package metrics defines and registers all custom Prometheus metrics for the
// vendor portal. It is the single source of truth for metric names, labels,
// and help strings. Metrics register with the default registry at package
// init via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vendorportal"

// ── Session metrics ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts by outcome.
// Label:
//   - result: "success", "rejected" (backend non-2xx), or "network_error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"result"},
)

// ForcedLogoutsTotal counts sessions evicted through the force-logout signal.
var ForcedLogoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "forced_logouts_total",
		Help:      "Total number of sessions evicted by the force-logout signal.",
	},
)

// TokenRefreshesTotal counts refresh attempts made by the backend client.
// Label:
//   - result: "success" or "failure"
var TokenRefreshesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_refreshes_total",
		Help:      "Total number of access-token refresh attempts, by outcome.",
	},
	[]string{"result"},
)

// ── Wizard metrics ────────────────────────────────────────────────────────────

// SectionUpdatesTotal counts merge updates applied to wizard sections.
// Label:
//   - section: the wizard step key (e.g. "business")
var SectionUpdatesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_section_updates_total",
		Help:      "Total number of section updates applied to wizard drafts.",
	},
	[]string{"section"},
)

// DocumentUploadsTotal counts document slot uploads.
// Labels:
//   - slot: the document slot name
//   - result: "accepted" or "rejected_type"
var DocumentUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "wizard_document_uploads_total",
		Help:      "Total number of document uploads, by slot and outcome.",
	},
	[]string{"slot", "result"},
)

// ── Submission metrics ────────────────────────────────────────────────────────

// SubmissionsTotal counts registration submissions forwarded to the backend.
// Label:
//   - result: "success", "rejected", or "network_error"
var SubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registration_submissions_total",
		Help:      "Total number of vendor registration submissions, by outcome.",
	},
	[]string{"result"},
)

// ── Backend client metrics ────────────────────────────────────────────────────

// BackendRequestDuration measures outbound marketplace API calls.
// Labels:
//   - endpoint: logical endpoint name (e.g. "vendor_register")
//   - outcome: "2xx", "4xx", "5xx", or "network_error"
var BackendRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Duration of outbound calls to the marketplace backend.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"endpoint", "outcome"},
)
