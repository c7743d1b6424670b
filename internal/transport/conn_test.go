package transport

import (
	"errors"
	"sync"
	"testing"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/dep2p/go-busmsg/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordWriter 记录出站数据包
type recordWriter struct {
	mu      sync.Mutex
	packets []types.Packet
	closed  bool
}

func (w *recordWriter) WritePacket(p *types.Packet) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.packets = append(w.packets, *p)
	return nil
}

func (w *recordWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func eventPacket(id *int64, data ...any) *types.Packet {
	return &types.Packet{Type: types.PacketEvent, ID: id, Data: data}
}

func TestConn_OnIsIdempotentPerListener(t *testing.T) {
	c := NewConn("c1", &recordWriter{})

	l := pkgif.NewListener(func([]any) {})
	c.On("say", l)
	c.On("say", l)
	assert.Len(t, c.Listeners("say"), 1)

	c.On("say", pkgif.NewListener(func([]any) {}))
	assert.Len(t, c.Listeners("say"), 2)
}

func TestConn_RemoveListener(t *testing.T) {
	c := NewConn("c1", &recordWriter{})

	l1 := pkgif.NewListener(func([]any) {})
	l2 := pkgif.NewListener(func([]any) {})
	c.On("say", l1)
	c.On("say", l2)

	snapshot := c.Listeners("say")
	c.RemoveListener("say", l1)

	assert.Equal(t, []*pkgif.Listener{l2}, c.Listeners("say"))
	assert.Len(t, snapshot, 2, "snapshot must not change")

	c.RemoveAllListeners("say")
	assert.Empty(t, c.Listeners("say"))
}

func TestConn_HandlePacketWithoutInterceptorEmits(t *testing.T) {
	c := NewConn("c1", &recordWriter{})

	var got []any
	c.On("say", pkgif.NewListener(func(args []any) { got = args }))

	require.NoError(t, c.HandlePacket(eventPacket(nil, "say", "hello", 1.0)))
	assert.Equal(t, []any{"hello", 1.0}, got)
}

func TestConn_HandlePacketAppendsAck(t *testing.T) {
	w := &recordWriter{}
	c := NewConn("c1", w)

	var gotEvent string
	var gotArgs []any
	c.SetInterceptor(pkgif.InterceptorFunc(func(_ pkgif.Conn, event string, args []any) {
		gotEvent, gotArgs = event, args
	}))

	id := int64(7)
	require.NoError(t, c.HandlePacket(eventPacket(&id, "say", "hi")))

	assert.Equal(t, "say", gotEvent)
	require.Len(t, gotArgs, 2)
	ack, ok := gotArgs[1].(types.Ack)
	require.True(t, ok)

	ack("ok")
	ack("again")

	require.Len(t, w.packets, 1)
	assert.Equal(t, types.PacketAck, w.packets[0].Type)
	assert.Equal(t, int64(7), *w.packets[0].ID)
	assert.Equal(t, []any{"ok"}, w.packets[0].Data)
}

func TestConn_HandlePacketRejectsInvalid(t *testing.T) {
	c := NewConn("c1", &recordWriter{})

	assert.ErrorIs(t, c.HandlePacket(&types.Packet{Type: types.PacketAck}), ErrUnsupportedPacket)
	assert.ErrorIs(t, c.HandlePacket(eventPacket(nil)), types.ErrEmptyPacket)
	assert.ErrorIs(t, c.HandlePacket(eventPacket(nil, 42)), types.ErrEmptyPacket)
}

func TestConn_DisconnectOnce(t *testing.T) {
	w := &recordWriter{}
	c := NewConn("c1", w)

	calls := 0
	c.OnDisconnect(func() { calls++ })

	require.NoError(t, c.Close())
	c.Disconnect()

	assert.Equal(t, 1, calls)
	assert.True(t, w.closed)
	assert.True(t, c.Closed())
	assert.ErrorIs(t, c.Send("say"), ErrConnClosed)

	late := false
	c.OnDisconnect(func() { late = true })
	assert.True(t, late, "callback registered after disconnect runs immediately")
}

func TestConn_Send(t *testing.T) {
	w := &recordWriter{}
	c := NewConn("c1", w)

	require.NoError(t, c.Send("say", "hi", 2))
	require.Len(t, w.packets, 1)
	assert.Equal(t, types.PacketEvent, w.packets[0].Type)
	assert.Nil(t, w.packets[0].ID)
	assert.Equal(t, []any{"say", "hi", 2}, w.packets[0].Data)
}

// rejectMiddleware 拒绝所有连接
type rejectMiddleware struct{ err error }

func (m *rejectMiddleware) Handle(pkgif.Conn) error { return m.err }

// countHandler 统计接入次数
type countHandler struct{ n int }

func (h *countHandler) HandleConnection(pkgif.Conn) { h.n++ }

func TestServer_AcceptRunsMiddlewareThenHandlers(t *testing.T) {
	s := &Server{}
	h := &countHandler{}
	s.OnConnection(h)

	require.NoError(t, s.Accept(NewConn("c1", &recordWriter{})))
	assert.Equal(t, 1, h.n)

	denied := errors.New("denied")
	m := &rejectMiddleware{err: denied}
	s.Use(m)
	assert.True(t, s.HasMiddleware(m))
	assert.False(t, s.HasMiddleware(&rejectMiddleware{}))

	w := &recordWriter{}
	err := s.Accept(NewConn("c2", w))
	assert.ErrorIs(t, err, denied)
	assert.True(t, w.closed)
	assert.Equal(t, 1, h.n)
}
