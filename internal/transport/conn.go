package transport

import (
	"slices"
	"sync"

	"github.com/dep2p/go-busmsg/internal/util/logger"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/dep2p/go-busmsg/pkg/types"
)

var log = logger.Logger("transport")

// PacketWriter 出站数据包写入器，由具体传输实现
type PacketWriter interface {
	WritePacket(p *types.Packet) error
	Close() error
}

// Conn 传输层连接
type Conn struct {
	id string
	w  PacketWriter

	mu           sync.RWMutex
	listeners    map[string][]*pkgif.Listener
	interceptor  pkgif.Interceptor
	onDisconnect []func()
	closed       bool
}

var _ pkgif.Conn = (*Conn)(nil)

// NewConn 创建连接
func NewConn(id string, w PacketWriter) *Conn {
	return &Conn{
		id:        id,
		w:         w,
		listeners: make(map[string][]*pkgif.Listener),
	}
}

// ID 返回连接标识
func (c *Conn) ID() string { return c.id }

// ============================================================================
// 监听器表
// ============================================================================

// On 为事件添加监听器，同一监听器重复添加无效果
func (c *Conn) On(event string, l *pkgif.Listener) {
	if l == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if slices.Contains(c.listeners[event], l) {
		return
	}
	c.listeners[event] = append(c.listeners[event], l)
}

// RemoveListener 移除事件上的指定监听器
func (c *Conn) RemoveListener(event string, l *pkgif.Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ls := c.listeners[event]
	if i := slices.Index(ls, l); i >= 0 {
		ls = slices.Delete(slices.Clone(ls), i, i+1)
		if len(ls) == 0 {
			delete(c.listeners, event)
		} else {
			c.listeners[event] = ls
		}
	}
}

// RemoveAllListeners 移除事件上的全部监听器
func (c *Conn) RemoveAllListeners(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.listeners, event)
}

// Listeners 返回事件上的监听器快照
func (c *Conn) Listeners(event string) []*pkgif.Listener {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return slices.Clone(c.listeners[event])
}

// Emit 按添加顺序调用事件上的监听器
func (c *Conn) Emit(event string, args []any) {
	for _, l := range c.Listeners(event) {
		l.Call(args)
	}
}

// SetInterceptor 替换入站事件的分发入口
func (c *Conn) SetInterceptor(i pkgif.Interceptor) {
	c.mu.Lock()
	c.interceptor = i
	c.mu.Unlock()
}

// ============================================================================
// 入站
// ============================================================================

// HandlePacket 处理一个入站数据包
//
// 提取事件名与参数；带 id 的包在参数末尾追加确认回调；
// 然后交给拦截器，未设置拦截器时直接 Emit。
func (c *Conn) HandlePacket(p *types.Packet) error {
	if p.Type != types.PacketEvent {
		return ErrUnsupportedPacket
	}
	name, args, err := p.Event()
	if err != nil {
		return err
	}
	if p.WantsAck() {
		args = append(args, c.Ack(*p.ID))
	}

	c.mu.RLock()
	i := c.interceptor
	c.mu.RUnlock()

	if i == nil {
		c.Emit(name, args)
		return nil
	}
	i.Intercept(c, name, args)
	return nil
}

// ============================================================================
// 出站
// ============================================================================

// Ack 返回回应指定包 id 的确认回调，只有第一次调用会写出
func (c *Conn) Ack(id int64) types.Ack {
	var once sync.Once
	return func(args ...any) {
		once.Do(func() {
			if args == nil {
				args = []any{}
			}
			if err := c.write(&types.Packet{Type: types.PacketAck, ID: &id, Data: args}); err != nil {
				log.Debug("ack write failed", "conn", c.id, "id", id, "err", err)
			}
		})
	}
}

// Send 向对端推送事件
func (c *Conn) Send(event string, args ...any) error {
	data := make([]any, 0, len(args)+1)
	data = append(data, event)
	data = append(data, args...)
	return c.write(&types.Packet{Type: types.PacketEvent, Data: data})
}

func (c *Conn) write(p *types.Packet) error {
	c.mu.RLock()
	closed := c.closed
	c.mu.RUnlock()
	if closed {
		return ErrConnClosed
	}
	return c.w.WritePacket(p)
}

// ============================================================================
// 生命周期
// ============================================================================

// OnDisconnect 注册断开回调；已断开时立即调用
func (c *Conn) OnDisconnect(fn func()) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		fn()
		return
	}
	c.onDisconnect = append(c.onDisconnect, fn)
	c.mu.Unlock()
}

// Disconnect 标记连接断开并按注册顺序调用断开回调，只生效一次
func (c *Conn) Disconnect() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	fns := c.onDisconnect
	c.onDisconnect = nil
	c.mu.Unlock()

	log.Debug("connection disconnected", "conn", c.id)
	for _, fn := range fns {
		fn()
	}
}

// Closed 连接是否已断开
func (c *Conn) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Close 主动断开：关闭底层写入器并触发断开回调
func (c *Conn) Close() error {
	err := c.w.Close()
	c.Disconnect()
	return err
}
