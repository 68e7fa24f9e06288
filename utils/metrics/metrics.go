// Package metrics owns the prometheus registry and its HTTP exposition.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	registry = prometheus.NewRegistry()
	logger   *zap.Logger
)

// Initialize wires the process registry and registers runtime collectors.
func Initialize(log *zap.Logger) {
	logger = log
	prometheus.DefaultRegisterer = registry
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
}

// Register adds collectors to the process registry.
func Register(cs ...prometheus.Collector) {
	for _, c := range cs {
		registry.MustRegister(c)
	}
}

// Handler returns the exposition handler for the process registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr. Blocks until the server stops.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	if logger != nil {
		logger.Info("serving metrics", zap.String("addr", addr))
	}
	return http.ListenAndServe(addr, mux)
}
