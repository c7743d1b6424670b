package messages

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"
	"golang.org/x/sync/semaphore"

	"github.com/dep2p/go-busmsg/internal/core/metrics"
	"github.com/dep2p/go-busmsg/internal/core/registry"
	"github.com/dep2p/go-busmsg/internal/core/resolver"
	"github.com/dep2p/go-busmsg/internal/util/logger"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

var log = logger.Logger("core/messages")

const tracerName = "github.com/dep2p/go-busmsg/internal/core/messages"

// 自动传播三态
const (
	autoUnset int32 = iota
	autoOff
	autoOn
)

// Messages 消息归一化与路由器
//
// 一个实例持有一份动作注册表、一对解析器和自动传播开关，
// 被它接入的所有连接共享。所有方法并发安全。
type Messages struct {
	registry *registry.Registry
	actor    *resolver.Actor
	target   *resolver.Target
	auto     atomic.Int32

	bus       pkgif.EventBus
	actionEm  pkgif.Emitter
	messageEm pkgif.Emitter
	errorEm   pkgif.Emitter
	regSub    *registry.Subscription

	mw          *middleware
	interceptor *interceptor

	metrics *metrics.Metrics
	tracer  trace.Tracer
	clock   clock.Clock
	sem     *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	// lifeMu 保证 Close 之后不再有 wg.Add
	lifeMu sync.RWMutex
	wg     sync.WaitGroup
	closed atomic.Bool
}

var _ pkgif.ConnectionHandler = (*Messages)(nil)

// New 创建 Messages
func New(bus pkgif.EventBus, opts ...Option) (*Messages, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return NewWithConfig(bus, cfg)
}

// NewWithConfig 以完整配置创建 Messages
func NewWithConfig(bus pkgif.EventBus, cfg *Config) (*Messages, error) {
	if bus == nil {
		return nil, ErrNilEventBus
	}
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Messages{
		registry: registry.New(),
		actor:    resolver.NewActor(),
		target:   resolver.NewTarget(),
		bus:      bus,
		metrics:  cfg.Metrics,
		clock:    cfg.Clock,
	}
	if m.clock == nil {
		m.clock = clock.New()
	}

	tp := cfg.TracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	m.tracer = tp.Tracer(tracerName)

	if cfg.Async {
		m.sem = semaphore.NewWeighted(cfg.MaxInFlight)
	}

	var err error
	if m.actionEm, err = bus.Emitter(new(pkgif.EvtActionRegistered)); err != nil {
		return nil, err
	}
	if m.messageEm, err = bus.Emitter(new(pkgif.EvtMessageReceived)); err != nil {
		return nil, multierr.Append(err, m.actionEm.Close())
	}
	if m.errorEm, err = bus.Emitter(new(pkgif.EvtResolveFailed)); err != nil {
		return nil, multierr.Combine(err, m.actionEm.Close(), m.messageEm.Close())
	}

	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.mw = &middleware{m: m}
	m.interceptor = &interceptor{m: m}
	m.regSub = m.registry.Subscribe(m.onActionRegistered)

	m.actor.Set(cfg.Actor)
	m.target.Set(cfg.Target)
	if cfg.AutoPropagate != nil {
		m.SetAutoPropagate(*cfg.AutoPropagate)
	}
	for _, name := range cfg.Actions {
		m.Action(name)
	}

	return m, nil
}

// onActionRegistered 注册表的第一个订阅者：对外发布 "action" 事件
func (m *Messages) onActionRegistered(name string) {
	m.metrics.SetActions(m.registry.Len())
	if err := m.actionEm.Emit(pkgif.EvtActionRegistered{Name: name, Time: m.clock.Now()}); err != nil {
		log.Debug("action event not emitted", "action", name, "err", err)
	}
}

// ============================================================================
// 动作注册表
// ============================================================================

// Action 注册动作，重复注册无效果
//
// 注册同步完成：返回前所有已接入的连接都已为该动作挂好监听器。
func (m *Messages) Action(name string) *Messages {
	m.registry.Register(name)
	return m
}

// Actions 返回按注册顺序排列的动作名
func (m *Messages) Actions() []string {
	return m.registry.List()
}

// ============================================================================
// 解析器
// ============================================================================

// SetActor 设置发送者解析器，nil 被忽略
func (m *Messages) SetActor(fn pkgif.ActorFunc) *Messages {
	m.actor.Set(fn)
	return m
}

// Actor 返回当前发送者解析器，未设置时安装默认解析器
func (m *Messages) Actor() pkgif.ActorFunc {
	return m.actor.Get()
}

// ResolveActor 调用当前发送者解析器
func (m *Messages) ResolveActor(ctx context.Context, conn pkgif.Conn) (string, error) {
	return m.actor.Resolve(ctx, conn)
}

// SetTarget 设置接收者解析器，nil 被忽略
func (m *Messages) SetTarget(fn pkgif.TargetFunc) *Messages {
	m.target.Set(fn)
	return m
}

// Target 返回当前接收者解析器，未设置时安装默认解析器
func (m *Messages) Target() pkgif.TargetFunc {
	return m.target.Get()
}

// ResolveTarget 调用当前接收者解析器
func (m *Messages) ResolveTarget(ctx context.Context, conn pkgif.Conn, params []any) (string, error) {
	return m.target.Resolve(ctx, conn, params)
}

// ============================================================================
// 自动传播
// ============================================================================

// AutoPropagate 返回自动传播开关；未设置时固定为 false
func (m *Messages) AutoPropagate() bool {
	m.auto.CompareAndSwap(autoUnset, autoOff)
	return m.auto.Load() == autoOn
}

// SetAutoPropagate 设置自动传播开关
func (m *Messages) SetAutoPropagate(v bool) *Messages {
	if v {
		m.auto.Store(autoOn)
	} else {
		m.auto.Store(autoOff)
	}
	return m
}

// ============================================================================
// 传输层接入
// ============================================================================

// Attach 接入传输层服务端
//
// 以中间件身份判重：同一服务端重复 Attach 无效果。
func (m *Messages) Attach(s pkgif.Server) *Messages {
	if s == nil {
		return m
	}
	if s.HasMiddleware(m.mw) {
		log.Debug("already attached")
		return m
	}
	s.Use(m.mw)
	s.OnConnection(m)
	return m
}

// Middleware 返回安装拦截器的中间件，供自定义传输使用
func (m *Messages) Middleware() pkgif.Middleware {
	return m.mw
}

// Interceptor 返回入站事件拦截器，供自定义传输使用
func (m *Messages) Interceptor() pkgif.Interceptor {
	return m.interceptor
}

// Bus 返回发布事件的总线
func (m *Messages) Bus() pkgif.EventBus {
	return m.bus
}

// Close 停止接收新的流水线，等待异步流水线结束并关闭发射器
func (m *Messages) Close() error {
	m.lifeMu.Lock()
	if m.closed.Swap(true) {
		m.lifeMu.Unlock()
		return nil
	}
	m.lifeMu.Unlock()

	m.cancel()
	m.wg.Wait()

	return multierr.Combine(
		m.regSub.Close(),
		m.actionEm.Close(),
		m.messageEm.Close(),
		m.errorEm.Close(),
	)
}
