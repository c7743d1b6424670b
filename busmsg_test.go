package busmsg

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-busmsg/internal/core/eventbus"
	"github.com/dep2p/go-busmsg/internal/transport/memory"
)

func TestListen_NilServer(t *testing.T) {
	_, err := Listen(nil)
	assert.ErrorIs(t, err, ErrNilServer)
}

func TestListen_EndToEnd(t *testing.T) {
	server := memory.NewServer()
	reg := prometheus.NewRegistry()

	m, err := Listen(server,
		WithActions("say"),
		WithMetrics(reg),
		WithTarget(func(_ context.Context, _ Conn, params []any) (string, error) {
			return params[0].(string), nil
		}),
	)
	require.NoError(t, err)
	defer m.Close()

	got := make(chan *Message, 1)
	closer, err := m.OnMessage(func(e EvtMessageReceived) { got <- e.Message })
	require.NoError(t, err)
	defer closer.Close()

	cl, err := server.Dial("alice")
	require.NoError(t, err)
	require.NoError(t, cl.Emit("say", "bob", "hello"))

	select {
	case msg := <-got:
		assert.Equal(t, "say", msg.Action())
		assert.Equal(t, "alice", msg.Actor())
		assert.Equal(t, "bob", msg.Target())
		assert.Equal(t, []any{"bob", "hello"}, msg.Content())
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message")
	}

	n, err := testutil.GatherAndCount(reg, "busmsg_messages_published_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_SharedEventBus(t *testing.T) {
	bus := eventbus.NewBus()
	sub, err := bus.Subscribe(new(EvtActionRegistered), eventbus.BufSize(4))
	require.NoError(t, err)
	defer sub.Close()

	m, err := New(WithEventBus(bus), WithActions("join"), WithAutoPropagate(true))
	require.NoError(t, err)
	defer m.Close()

	assert.Same(t, EventBus(bus), m.Bus())
	assert.True(t, m.AutoPropagate())

	select {
	case evt := <-sub.Out():
		assert.Equal(t, "join", evt.(EvtActionRegistered).Name)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for action event")
	}
}

func TestNew_InvalidAsync(t *testing.T) {
	_, err := New(WithAsync(0))
	assert.Error(t, err)
}
