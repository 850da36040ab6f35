package vm

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	groupsCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "joltchain",
		Subsystem: "vm",
		Name:      "groups_committed_total",
		Help:      "Atomic transaction groups evaluated and committed.",
	})
	groupsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "joltchain",
		Subsystem: "vm",
		Name:      "groups_rejected_total",
		Help:      "Atomic transaction groups rejected and rolled back.",
	})
	innerPaymentsEmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "joltchain",
		Subsystem: "vm",
		Name:      "inner_payments_total",
		Help:      "Sub-payments emitted by application programs.",
	})
)
