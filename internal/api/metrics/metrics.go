// Package metrics defines and registers all custom Prometheus metrics for the
// car listings API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry at import time via
// promauto; the /metrics endpoint exposes them alongside the request-level
// metrics collected by the echoprometheus middleware.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "carhub"

// ── Account metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts that reached credential verification.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Listing metrics ───────────────────────────────────────────────────────────

// CarsCreatedTotal counts newly created listings.
var CarsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cars_created_total",
		Help:      "Total number of car listings created.",
	},
)

// CarsUpdatedTotal counts successful listing updates.
var CarsUpdatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cars_updated_total",
		Help:      "Total number of car listings updated.",
	},
)

// CarsDeletedTotal counts successful listing deletions.
var CarsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cars_deleted_total",
		Help:      "Total number of car listings deleted.",
	},
)

// ── Blob metrics ──────────────────────────────────────────────────────────────

// ImagesStoredTotal counts image blobs written to storage.
// Label:
//   - backend: "local" or "s3"
var ImagesStoredTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "images_stored_total",
		Help:      "Total number of image blobs stored, by backend.",
	},
	[]string{"backend"},
)

// BlobCleanupFailuresTotal counts best-effort blob deletions that failed.
// Cleanup runs after the primary record mutation has committed, so these
// failures are logged and swallowed rather than surfaced to the caller.
var BlobCleanupFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "blob_cleanup_failures_total",
		Help:      "Total number of failed best-effort blob deletions.",
	},
)
