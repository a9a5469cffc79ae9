// Package metrics exposes Prometheus counters for the chat assistant and the
// clearance gate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reply sources.
const (
	SourceRemote   = "remote"
	SourceFallback = "fallback"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	ChatReplies    *prometheus.CounterVec
	FallbackReason *prometheus.CounterVec
	AccessDenied   *prometheus.CounterVec
	registry       *prometheus.Registry
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		ChatReplies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "es",
			Name:      "chat_replies_total",
			Help:      "Assistant replies by source.",
		}, []string{"source"}),
		FallbackReason: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "es",
			Name:      "chat_fallback_total",
			Help:      "Fallback activations by cause.",
		}, []string{"cause"}),
		AccessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "es",
			Name:      "object_access_denied_total",
			Help:      "Object reads refused for insufficient clearance, by threat class.",
		}, []string{"threat_class"}),
		registry: reg,
	}
	reg.MustRegister(
		m.ChatReplies,
		m.FallbackReason,
		m.AccessDenied,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
