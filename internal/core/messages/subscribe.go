package messages

import (
	"io"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// ============================================================================
// 事件订阅便捷方法
// ============================================================================

// OnMessage 订阅 message 事件
//
// fn 在独立 goroutine 上按发布顺序调用；订阅者跟不上时事件被丢弃（至多一次）。
// 关闭返回的 io.Closer 即取消订阅。
func (m *Messages) OnMessage(fn func(pkgif.EvtMessageReceived), opts ...pkgif.SubscriptionOpt) (io.Closer, error) {
	return drain(m.bus, fn, opts...)
}

// OnError 订阅 error 事件（解析失败）
func (m *Messages) OnError(fn func(pkgif.EvtResolveFailed), opts ...pkgif.SubscriptionOpt) (io.Closer, error) {
	return drain(m.bus, fn, opts...)
}

// OnAction 订阅 action 事件（新动作注册）
func (m *Messages) OnAction(fn func(pkgif.EvtActionRegistered), opts ...pkgif.SubscriptionOpt) (io.Closer, error) {
	return drain(m.bus, fn, opts...)
}

// drain 订阅 T 类型事件并在后台逐个交给 fn
//
// 订阅关闭后通道关闭，后台 goroutine 随之退出。fn 内可以安全地关闭订阅。
func drain[T any](bus pkgif.EventBus, fn func(T), opts ...pkgif.SubscriptionOpt) (io.Closer, error) {
	sub, err := bus.Subscribe(new(T), opts...)
	if err != nil {
		return nil, err
	}
	go func() {
		for evt := range sub.Out() {
			if e, ok := evt.(T); ok {
				fn(e)
			}
		}
	}()
	return sub, nil
}
