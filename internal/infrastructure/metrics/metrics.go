package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	EntriesPosted   *prometheus.CounterVec
	PostingDuration prometheus.Histogram
	PostingErrors   *prometheus.CounterVec
	ClosedPeriodHits prometheus.Counter

	// Adjustment metrics
	AdjustmentsSubmitted prometheus.Counter
	AdjustmentsApproved  prometheus.Counter
	AdjustmentsRejected  prometheus.Counter
	AutoApprovals        prometheus.Counter
	AmbiguousMatches     prometheus.Counter

	// Profit adjustment metrics
	ProfitDeductions   prometheus.Counter
	ProfitRestorations prometheus.Counter

	// Capital metrics
	CapitalReductions  prometheus.Counter
	CapitalOverdraws   prometheus.Counter

	// Locator metrics
	LocatorQueries *prometheus.CounterVec

	// Repair metrics
	RepairRuns        prometheus.Counter
	RepairRowsChanged prometheus.Counter
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		EntriesPosted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_entries_posted_total",
				Help: "Total number of ledger entries posted by transaction kind",
			},
			[]string{"kind"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "dealerledger_posting_duration_seconds",
			Help:    "Duration of posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		PostingErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_posting_errors_total",
				Help: "Total number of posting errors by type",
			},
			[]string{"error_type"},
		),
		ClosedPeriodHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_closed_period_hits_total",
			Help: "Postings routed to the retroactive workflow because the period was closed",
		}),

		AdjustmentsSubmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_adjustments_submitted_total",
			Help: "Total number of retroactive adjustments submitted",
		}),
		AdjustmentsApproved: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_adjustments_approved_total",
			Help: "Total number of retroactive adjustments approved",
		}),
		AdjustmentsRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_adjustments_rejected_total",
			Help: "Total number of retroactive adjustments rejected",
		}),
		AutoApprovals: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_adjustments_auto_approved_total",
			Help: "Adjustments promoted straight to approved by policy",
		}),
		AmbiguousMatches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_ambiguous_entry_matches_total",
			Help: "Fuzzy ledger-entry matches that found more than one candidate",
		}),

		ProfitDeductions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_profit_deductions_total",
			Help: "Total number of profit deductions recorded",
		}),
		ProfitRestorations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_profit_restorations_total",
			Help: "Total number of profit restorations recorded",
		}),

		CapitalReductions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_capital_reductions_total",
			Help: "Total number of capital reductions applied",
		}),
		CapitalOverdraws: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_capital_overdraws_rejected_total",
			Help: "Capital reductions rejected for exceeding the balance",
		}),

		LocatorQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dealerledger_locator_queries_total",
				Help: "Tiered record store queries by tier",
			},
			[]string{"tier"},
		),

		RepairRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_repair_runs_total",
			Help: "Total number of consistency repair runs",
		}),
		RepairRowsChanged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "dealerledger_repair_rows_changed_total",
			Help: "Rows rewritten by consistency repair runs",
		}),
	}
}
