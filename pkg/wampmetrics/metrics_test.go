package wampmetrics

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConnectionGaugeTracksJoinLeave(t *testing.T) {
	m := New()
	m.ConnectionJoined("realm1")
	m.ConnectionJoined("realm1")
	m.ConnectionLeft("realm1")

	mf, err := m.Registry().Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range mf {
		if f.GetName() != "wampire_active_connections" {
			continue
		}
		found = true
		require.Equal(t, float64(1), f.Metric[0].GetGauge().GetValue())
	}
	require.True(t, found, "expected wampire_active_connections to be registered")
}

func TestHandlerServesExposition(t *testing.T) {
	m := New()
	m.RealmOpened()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	m.Handler().ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	require.Contains(t, rec.Body.String(), "wampire_active_realms 1")
}

func TestNilMetricsIsNoOp(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ConnectionJoined("realm1")
		m.CallDispatched("realm1")
		m.RealmOpened()
	})
}
