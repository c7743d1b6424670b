package metrics

import (
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MessagePublished("say")
	m.MessagePublished("say")
	m.MessagePublished("join")
	m.ResolveFailed("actor")
	m.EventDropped()
	m.EventPropagated()
	m.EventPropagated()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.published.WithLabelValues("say")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.published.WithLabelValues("join")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("actor")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dropped))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.propagated))
}

func TestMetrics_Gauges(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ConnectionBound()
	m.ConnectionBound()
	m.ConnectionReleased()
	m.SetActions(5)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.connections))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.actions))
}

func TestMetrics_BusDroppedAndDispatch(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	type EvtSample struct{}
	m.BusDropped(reflect.TypeOf(EvtSample{}))
	m.ObserveDispatch(3 * time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.busDropped.WithLabelValues("EvtSample")))
	n, err := testutil.GatherAndCount(reg, "busmsg_dispatch_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.MessagePublished("a")
		m.ResolveFailed("target")
		m.EventDropped()
		m.EventPropagated()
		m.BusDropped(reflect.TypeOf(0))
		m.ConnectionBound()
		m.ConnectionReleased()
		m.SetActions(1)
		m.ObserveDispatch(time.Second)
	})
}

func TestModule_Provides(t *testing.T) {
	var m *Metrics
	var reg *prometheus.Registry

	app := fxtest.New(t, Module(), fx.Populate(&m, &reg))
	app.RequireStart()
	defer app.RequireStop()

	require.NotNil(t, m)
	m.MessagePublished("x")

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "busmsg_messages_published_total")
	assert.Contains(t, names, "go_goroutines")
}
