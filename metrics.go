package dejasite

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds the site's Prometheus collectors on an isolated registry,
// so two Apps in one process (as in tests) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	SearchQueriesTotal *prometheus.CounterVec
	ImageFallbackTotal *prometheus.CounterVec
	ExportPagesTotal   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with the Go runtime
// and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,
		SearchQueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dejasite_search_queries_total",
				Help: "Search page queries by outcome (hit, miss, error, empty, limited).",
			},
			[]string{"outcome"},
		),
		ImageFallbackTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dejasite_catalog_image_fallback_total",
				Help: "Catalog cards rendered with their placeholder because the image was unusable.",
			},
			[]string{"catalog"},
		),
		ExportPagesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dejasite_export_pages_total",
				Help: "Pages written by static export by result.",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.SearchQueriesTotal, m.ImageFallbackTotal, m.ExportPagesTotal)
	return m
}

func (m *Metrics) observeSearch(outcome string) {
	m.SearchQueriesTotal.WithLabelValues(outcome).Inc()
}
