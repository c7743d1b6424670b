// Package resolver 实现发送者/接收者解析器槽位
//
// 每种解析器全局只有一个生效的函数（不区分连接）：
//   - 未设置时，首次使用惰性安装默认函数（返回连接标识）
//   - Set(nil) 被忽略，当前函数保持不变
//   - 默认函数一旦安装，直到显式覆盖前保持不变
package resolver

import (
	"context"
	"sync"

	"github.com/dep2p/go-busmsg/internal/util/logger"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

var log = logger.Logger("core/resolver")

// Slot 单个可替换的函数槽位
//
// 读写由互斥锁保护；并发的解析调用共享同一个函数引用。
type Slot[F any] struct {
	mu    sync.RWMutex
	fn    F
	set   bool
	def   func() F
	isNil func(F) bool
}

// NewSlot 创建槽位，def 提供默认函数，isNil 判定无效输入
func NewSlot[F any](def func() F, isNil func(F) bool) *Slot[F] {
	return &Slot[F]{def: def, isNil: isNil}
}

// Set 安装新函数；无效输入被忽略并返回 false
func (s *Slot[F]) Set(fn F) bool {
	if s.isNil(fn) {
		return false
	}
	s.mu.Lock()
	s.fn = fn
	s.set = true
	s.mu.Unlock()
	return true
}

// Get 返回当前函数，未设置时安装并返回默认函数
func (s *Slot[F]) Get() F {
	s.mu.RLock()
	if s.set {
		fn := s.fn
		s.mu.RUnlock()
		return fn
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		s.fn = s.def()
		s.set = true
	}
	return s.fn
}

// IsSet 槽位是否已有函数（显式设置或已惰性默认）
func (s *Slot[F]) IsSet() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set
}

// ============================================================================
// 默认解析器
// ============================================================================

// DefaultActor 以连接标识作为发送者
func DefaultActor(_ context.Context, conn pkgif.Conn) (string, error) {
	return conn.ID(), nil
}

// DefaultTarget 以连接标识作为接收者
func DefaultTarget(_ context.Context, conn pkgif.Conn, _ []any) (string, error) {
	return conn.ID(), nil
}

// ============================================================================
// Actor / Target
// ============================================================================

// Actor 发送者解析器槽位
type Actor struct {
	slot *Slot[pkgif.ActorFunc]
}

// NewActor 创建发送者解析器槽位
func NewActor() *Actor {
	return &Actor{slot: NewSlot(
		func() pkgif.ActorFunc { return DefaultActor },
		func(fn pkgif.ActorFunc) bool { return fn == nil },
	)}
}

// Set 安装发送者解析函数，nil 被忽略
func (a *Actor) Set(fn pkgif.ActorFunc) bool {
	ok := a.slot.Set(fn)
	if !ok {
		log.Debug("ignored nil actor resolver")
	}
	return ok
}

// Get 返回当前发送者解析函数（可能是刚安装的默认函数）
func (a *Actor) Get() pkgif.ActorFunc {
	return a.slot.Get()
}

// Resolve 调用当前发送者解析函数
func (a *Actor) Resolve(ctx context.Context, conn pkgif.Conn) (string, error) {
	return a.slot.Get()(ctx, conn)
}

// Target 接收者解析器槽位
type Target struct {
	slot *Slot[pkgif.TargetFunc]
}

// NewTarget 创建接收者解析器槽位
func NewTarget() *Target {
	return &Target{slot: NewSlot(
		func() pkgif.TargetFunc { return DefaultTarget },
		func(fn pkgif.TargetFunc) bool { return fn == nil },
	)}
}

// Set 安装接收者解析函数，nil 被忽略
func (t *Target) Set(fn pkgif.TargetFunc) bool {
	ok := t.slot.Set(fn)
	if !ok {
		log.Debug("ignored nil target resolver")
	}
	return ok
}

// Get 返回当前接收者解析函数（可能是刚安装的默认函数）
func (t *Target) Get() pkgif.TargetFunc {
	return t.slot.Get()
}

// Resolve 调用当前接收者解析函数
func (t *Target) Resolve(ctx context.Context, conn pkgif.Conn, params []any) (string, error) {
	return t.slot.Get()(ctx, conn, params)
}
