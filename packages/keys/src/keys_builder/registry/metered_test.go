package registry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMeteredRegistry(t *testing.T) {
	promRegistry := prometheus.NewRegistry()
	inner := NewScopeMap()
	m := NewMeteredRegistry(inner, promRegistry)

	m.Add(GlobalScope, "a", "")
	m.Add(GlobalScope, "a", "")
	m.Add("admin", "b", "")

	if got := testutil.ToFloat64(m.registeredTotal.WithLabelValues(GlobalScope)); got != 2 {
		t.Errorf("global registrations = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.registeredTotal.WithLabelValues("admin")); got != 1 {
		t.Errorf("admin registrations = %v, want 1", got)
	}
	if inner.Len() != 2 {
		t.Errorf("inner Len = %d, want 2", inner.Len())
	}
}

func TestMeteredRegistryErr(t *testing.T) {
	if err := NewMeteredRegistry(NewScopeMap(), prometheus.NewRegistry()).Err(); err != nil {
		t.Errorf("Err() = %v, want nil", err)
	}

	store, err := NewSQLiteRegistry(t.TempDir() + "/keys.db")
	if err != nil {
		t.Fatalf("NewSQLiteRegistry() error = %v", err)
	}
	defer store.Close()

	m := NewMeteredRegistry(store, prometheus.NewRegistry())
	m.Add(GlobalScope, "a", "")
	if m.Err() == nil {
		t.Errorf("expected the store error for a registration outside a run")
	}
}
