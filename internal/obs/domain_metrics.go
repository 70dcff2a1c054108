package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CartOps counts cart mutations by operation.
	CartOps *prometheus.CounterVec
	// CartSyncRefreshTotal counts full cart refreshes triggered by the change feed.
	CartSyncRefreshTotal prometheus.Counter
	// CartSweepTotal counts expired cart keys removed by the background sweep.
	CartSweepTotal prometheus.Counter
	// DocumentsIssuedTotal counts issued documents by kind.
	DocumentsIssuedTotal *prometheus.CounterVec
	// TotalsComputedTotal counts document totals computations by tax base.
	TotalsComputedTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CartOps = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_operations_total",
			Help:      "Count of cart mutations by operation.",
		}, []string{"op"})
		CartSyncRefreshTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_sync_refresh_total",
			Help:      "Number of full cart refreshes triggered by remote change notifications.",
		})
		CartSweepTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cart_sweep_removed_total",
			Help:      "Number of expired cart keys removed by the background sweep.",
		})
		DocumentsIssuedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_issued_total",
			Help:      "Count of financial documents issued by kind.",
		}, []string{"kind"})
		TotalsComputedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "totals_computed_total",
			Help:      "Count of document totals computations by tax base.",
		}, []string{"tax_base"})

		mustRegisterCollector(reg, CartOps, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CartOps = v
			}
		})
		mustRegisterCollector(reg, CartSyncRefreshTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartSyncRefreshTotal = v
			}
		})
		mustRegisterCollector(reg, CartSweepTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				CartSweepTotal = v
			}
		})
		mustRegisterCollector(reg, DocumentsIssuedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DocumentsIssuedTotal = v
			}
		})
		mustRegisterCollector(reg, TotalsComputedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				TotalsComputedTotal = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}
