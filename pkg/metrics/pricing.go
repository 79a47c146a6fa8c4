package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PricingMetrics counts cart compositions and coupon outcomes.
type PricingMetrics struct {
	quotes    *prometheus.CounterVec
	freeUnits *prometheus.CounterVec
	coupons   *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on reg. A nil registerer
// yields a recorder whose methods are no-ops.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rimae",
		Name:      "pricing_quotes_total",
		Help:      "Carts priced by the engine.",
	}, []string{"source"})
	freeUnits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rimae",
		Name:      "pricing_free_units_total",
		Help:      "Units made free by the bundle promotion.",
	}, []string{"source"})
	coupons := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rimae",
		Name:      "pricing_coupon_outcomes_total",
		Help:      "Coupon evaluations by outcome (applied or rejection reason).",
	}, []string{"outcome"})
	reg.MustRegister(quotes, freeUnits, coupons)
	return &PricingMetrics{quotes: quotes, freeUnits: freeUnits, coupons: coupons}
}

// RecordQuote counts one priced cart and the free units it granted.
func (p *PricingMetrics) RecordQuote(source string, freeUnits int) {
	if p == nil || p.quotes == nil {
		return
	}
	source = normalizeLabel(source)
	p.quotes.WithLabelValues(source).Inc()
	if freeUnits > 0 {
		p.freeUnits.WithLabelValues(source).Add(float64(freeUnits))
	}
}

// RecordCouponOutcome counts a coupon evaluation.
func (p *PricingMetrics) RecordCouponOutcome(outcome string) {
	if p == nil || p.coupons == nil {
		return
	}
	p.coupons.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
