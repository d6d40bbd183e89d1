package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "reservations_created_total",
		Help:      "Reservations created, by initial status.",
	}, []string{"status"})

	ReservationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "reservations_rejected_total",
		Help:      "Reservation create or reschedule attempts rejected, by reason code.",
	}, []string{"reason"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "reservation_status_transitions_total",
		Help:      "Committed reservation status transitions.",
	}, []string{"from", "to"})

	LedgerEntries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "sales_ledger_entries_total",
		Help:      "Sales ledger lines appended, by kind.",
	}, []string{"kind"})

	LedgerFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "sales_ledger_failures_total",
		Help:      "Completions whose sales ledger update failed after the status change committed.",
	})

	CalendarWrites = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hairable",
		Name:      "working_hours_writes_total",
		Help:      "Working hours entries written, by status.",
	}, []string{"status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "hairable",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
