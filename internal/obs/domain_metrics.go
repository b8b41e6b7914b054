package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// QuoteRecomputeTotal counts quotation totals recomputations by trigger.
	QuoteRecomputeTotal *prometheus.CounterVec
	// PricingFallbackTotal counts pricing inputs that fell back to a default
	// and raised a flag instead of resolving cleanly.
	PricingFallbackTotal *prometheus.CounterVec
	// FreightEstimateTotal counts freight estimation outcomes.
	FreightEstimateTotal *prometheus.CounterVec
	// CurrencyRefreshTotal counts rate provider refresh outcomes.
	CurrencyRefreshTotal *prometheus.CounterVec
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		QuoteRecomputeTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quote_recompute_total",
			Help:      "Count of quotation totals recomputations by trigger.",
		}, []string{"trigger"})
		PricingFallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_fallback_total",
			Help:      "Count of pricing inputs resolved by fallback.",
		}, []string{"stage", "reason"})
		FreightEstimateTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "freight_estimate_total",
			Help:      "Count of freight estimation outcomes by method.",
		}, []string{"method", "result"})
		CurrencyRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "currency_refresh_total",
			Help:      "Count of currency rate refresh outcomes.",
		}, []string{"result"})

		mustRegisterCollector(reg, QuoteRecomputeTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				QuoteRecomputeTotal = v
			}
		})
		mustRegisterCollector(reg, PricingFallbackTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				PricingFallbackTotal = v
			}
		})
		mustRegisterCollector(reg, FreightEstimateTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				FreightEstimateTotal = v
			}
		})
		mustRegisterCollector(reg, CurrencyRefreshTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				CurrencyRefreshTotal = v
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
