package metrics

import "github.com/prometheus/client_golang/prometheus"

// PricingMetrics records quote and tax decision outcomes.
type PricingMetrics struct {
	quotes          *prometheus.CounterVec
	taxDecisions    *prometheus.CounterVec
	compileFailures prometheus.Counter
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	quotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quotes_total",
		Help: "Line quotes served, labeled by price source.",
	}, []string{"source"})
	taxDecisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tax_decisions_total",
		Help: "Tax decisions made, labeled by decision code.",
	}, []string{"code"})
	compileFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "formula_compile_failures_total",
		Help: "Formula compilations rejected at evaluation time.",
	})
	reg.MustRegister(quotes, taxDecisions, compileFailures)
	return &PricingMetrics{
		quotes:          quotes,
		taxDecisions:    taxDecisions,
		compileFailures: compileFailures,
	}
}

// IncQuote increments the quote counter for the given price source.
func (p *PricingMetrics) IncQuote(source string) {
	if p == nil || p.quotes == nil {
		return
	}
	p.quotes.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncTaxDecision increments the decision counter for the given code.
func (p *PricingMetrics) IncTaxDecision(code string) {
	if p == nil || p.taxDecisions == nil {
		return
	}
	p.taxDecisions.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncCompileFailure increments the formula compile failure counter.
func (p *PricingMetrics) IncCompileFailure() {
	if p == nil || p.compileFailures == nil {
		return
	}
	p.compileFailures.Inc()
}
