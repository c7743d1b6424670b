package messages

import (
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// middleware 为每个接入的连接安装拦截器
type middleware struct {
	m *Messages
}

// Handle 实现 interfaces.Middleware
func (mw *middleware) Handle(conn pkgif.Conn) error {
	conn.SetInterceptor(mw.m.interceptor)
	return nil
}

// interceptor 入站事件拦截器
//
// 有监听器的事件走常规分发；没有监听器时按自动传播开关直接送入流水线或丢弃。
type interceptor struct {
	m *Messages
}

// Intercept 实现 interfaces.Interceptor
//
// 丢弃的事件即使请求了确认也不回应。
func (i *interceptor) Intercept(conn pkgif.Conn, event string, args []any) {
	if len(conn.Listeners(event)) > 0 {
		conn.Emit(event, args)
		return
	}

	if i.m.AutoPropagate() {
		i.m.metrics.EventPropagated()
		full := make([]any, 0, len(args)+1)
		full = append(full, event)
		full = append(full, args...)
		i.m.HandleMessage(i.m.ctx, conn, full)
		return
	}

	i.m.metrics.EventDropped()
	log.Debug("unrecognized event dropped", "conn", conn.ID(), "event", event)
}
