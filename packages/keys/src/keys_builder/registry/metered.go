package registry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MeteredRegistry counts the registrations passing through to the wrapped
// registry.
//
// Metrics:
//   - ngkeys_keys_registered_total: registrations by scope
type MeteredRegistry struct {
	inner           KeyRegistry
	registeredTotal *prometheus.CounterVec
}

// NewMeteredRegistry wraps inner and registers its metrics with registerer.
func NewMeteredRegistry(inner KeyRegistry, registerer prometheus.Registerer) *MeteredRegistry {
	m := &MeteredRegistry{
		inner: inner,
		registeredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ngkeys",
				Name:      "keys_registered_total",
				Help:      "Total number of translation keys registered, duplicates included",
			},
			[]string{"scope"},
		),
	}
	registerer.MustRegister(m.registeredTotal)
	return m
}

// Add implements KeyRegistry
func (m *MeteredRegistry) Add(scopePath, key, defaultValue string) {
	m.registeredTotal.WithLabelValues(scopePath).Inc()
	m.inner.Add(scopePath, key, defaultValue)
}

// Err returns the error of the wrapped registry, if it reports any
func (m *MeteredRegistry) Err() error {
	if r, ok := m.inner.(interface{ Err() error }); ok {
		return r.Err()
	}
	return nil
}
