// Package registry 实现动作注册表
//
// 注册表是按插入顺序保存的动作名集合，只增不减。
// 新动作注册时同步通知所有订阅者，已连接的会话借此为新动作补挂监听器。
package registry

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-busmsg/internal/util/logger"
)

var log = logger.Logger("core/registry")

// Registry 动作注册表
type Registry struct {
	mu      sync.RWMutex
	names   []string
	index   map[string]struct{}
	subs    []*Subscription
}

// New 创建动作注册表
func New() *Registry {
	return &Registry{
		index: make(map[string]struct{}),
	}
}

// Register 注册动作
//
// 动作已存在或为空时不做任何事并返回 false；
// 否则追加到末尾，并在返回前按订阅顺序同步通知所有订阅者。
// 通知在锁外执行，订阅者可以安全地调用 List。
func (r *Registry) Register(name string) bool {
	if name == "" {
		return false
	}

	r.mu.Lock()
	if _, ok := r.index[name]; ok {
		r.mu.Unlock()
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	subs := make([]*Subscription, len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	log.Debug("action registered", "action", name, "subscribers", len(subs))

	for _, s := range subs {
		s.notify(name)
	}
	return true
}

// List 返回按注册顺序排列的动作名快照
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has 动作是否已注册
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.index[name]
	return ok
}

// Len 已注册动作数
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.names)
}

// Subscribers 当前订阅者数
func (r *Registry) Subscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.subs)
}

// Subscribe 订阅注册通知
//
// fn 在 Register 的调用方 goroutine 上同步执行。
func (r *Registry) Subscribe(fn func(name string)) *Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &Subscription{reg: r, fn: fn}
	r.subs = append(r.subs, s)
	return s
}

func (r *Registry) unsubscribe(s *Subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, sub := range r.subs {
		if sub == s {
			r.subs = append(r.subs[:i:i], r.subs[i+1:]...)
			return
		}
	}
}

// ============================================================================
// Subscription
// ============================================================================

// Subscription 注册通知订阅
type Subscription struct {
	reg    *Registry
	fn     func(name string)
	closed atomic.Bool
}

// notify 在快照上调用，已关闭的订阅跳过。
// 不持锁调用 fn，允许回调内再次 Register。
func (s *Subscription) notify(name string) {
	if s.closed.Load() {
		return
	}
	s.fn(name)
}

// Close 取消订阅，可重复调用
//
// 与 Register 并发时，正在进行的那一次通知仍可能送达。
func (s *Subscription) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	s.reg.unsubscribe(s)
	return nil
}
