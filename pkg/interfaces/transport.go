package interfaces

import (
	"github.com/dep2p/go-busmsg/pkg/types"
)

// ============================================================================
//                              Listener
// ============================================================================

// Listener 连接上的事件监听器
//
// Go 的函数值不可比较，监听器以指针身份区分：
// 同一个 *Listener 在同一事件上重复 On 不会产生第二个绑定。
type Listener struct {
	fn func(args []any)
}

// NewListener 创建监听器
func NewListener(fn func(args []any)) *Listener {
	return &Listener{fn: fn}
}

// Call 以参数调用监听器
func (l *Listener) Call(args []any) {
	if l == nil || l.fn == nil {
		return
	}
	l.fn(args)
}

// ============================================================================
//                              Conn
// ============================================================================

// Conn 传输层连接
//
// 除 Send 与 Close 外，所有方法都只操作进程内状态，不做 I/O。
type Conn interface {
	// ID 返回连接标识，默认解析器以它作为 actor/target
	ID() string

	// On 为事件添加监听器，同一监听器重复添加无效果
	On(event string, l *Listener)

	// RemoveListener 移除事件上的指定监听器
	RemoveListener(event string, l *Listener)

	// RemoveAllListeners 移除事件上的全部监听器
	RemoveAllListeners(event string)

	// Listeners 返回事件上的监听器快照
	Listeners(event string) []*Listener

	// Emit 按添加顺序调用事件上的监听器（常规分发）
	Emit(event string, args []any)

	// SetInterceptor 替换入站事件的分发入口
	//
	// 传输层收到事件包后，提取事件名与参数（必要时追加 Ack），
	// 交给拦截器；未设置时直接 Emit。
	SetInterceptor(i Interceptor)

	// OnDisconnect 注册断开回调，断开时按注册顺序调用一次
	OnDisconnect(fn func())

	// Ack 返回回应指定包 id 的确认回调
	Ack(id int64) types.Ack

	// Send 向对端推送事件
	Send(event string, args ...any) error

	// Close 主动断开
	Close() error
}

// Interceptor 入站事件拦截器
type Interceptor interface {
	// Intercept 处理一个入站事件，args 已包含可能追加的 Ack
	Intercept(conn Conn, event string, args []any)
}

// InterceptorFunc 函数形式的拦截器
type InterceptorFunc func(conn Conn, event string, args []any)

// Intercept 实现 Interceptor
func (f InterceptorFunc) Intercept(conn Conn, event string, args []any) {
	f(conn, event, args)
}

// ============================================================================
//                              Server
// ============================================================================

// Middleware 连接接入中间件
//
// 在连接接入通知之前按注册顺序执行，返回错误时拒绝该连接。
// 中间件以接口值身份比较，实现类型必须可比较（通常为指针）。
type Middleware interface {
	Handle(conn Conn) error
}

// ConnectionHandler 连接接入处理器
type ConnectionHandler interface {
	HandleConnection(conn Conn)
}

// Server 传输层服务端（资源包）
type Server interface {
	// Use 注册中间件
	Use(m Middleware)

	// HasMiddleware 中间件是否已注册
	HasMiddleware(m Middleware) bool

	// OnConnection 注册连接接入处理器
	OnConnection(h ConnectionHandler)
}
