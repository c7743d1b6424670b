package messages

import (
	"slices"
	"sync"

	"github.com/dep2p/go-busmsg/internal/core/registry"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// binding 单个连接的绑定状态
//
// 每个已知动作一个监听器，加一个注册表订阅；断开时全部移除。
type binding struct {
	m    *Messages
	conn pkgif.Conn

	mu        sync.Mutex
	listeners map[string]*pkgif.Listener
	sub       *registry.Subscription
	released  bool
}

// HandleConnection 为新连接建立绑定
//
// 先订阅注册表再扫描已有动作，两条路径可能重复挂同一动作，attach 以监听器身份判重。
func (m *Messages) HandleConnection(conn pkgif.Conn) {
	b := &binding{
		m:         m,
		conn:      conn,
		listeners: make(map[string]*pkgif.Listener),
	}

	b.mu.Lock()
	b.sub = m.registry.Subscribe(b.attach)
	b.mu.Unlock()

	for _, name := range m.registry.List() {
		b.attach(name)
	}

	conn.OnDisconnect(b.release)
	m.metrics.ConnectionBound()
	log.Debug("connection bound", "conn", conn.ID(), "actions", m.registry.Len())
}

// attach 为动作挂监听器；已挂上时无效果，释放后无效果
func (b *binding) attach(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.released {
		return
	}

	l, ok := b.listeners[name]
	if !ok {
		l = pkgif.NewListener(func(args []any) {
			full := make([]any, 0, len(args)+1)
			full = append(full, name)
			full = append(full, args...)
			b.m.HandleMessage(b.m.ctx, b.conn, full)
		})
		b.listeners[name] = l
	}

	if slices.Contains(b.conn.Listeners(name), l) {
		return
	}
	b.conn.On(name, l)
}

// release 取消注册表订阅并移除所有已知动作上的监听器
//
// 遍历当前注册表而不是连接时的快照，覆盖连接之后注册的动作。
func (b *binding) release() {
	b.mu.Lock()
	if b.released {
		b.mu.Unlock()
		return
	}
	b.released = true
	sub := b.sub
	b.mu.Unlock()

	if sub != nil {
		_ = sub.Close()
	}
	for _, name := range b.m.registry.List() {
		b.conn.RemoveAllListeners(name)
	}

	b.m.metrics.ConnectionReleased()
	log.Debug("connection released", "conn", b.conn.ID())
}
