package busmsg

import (
	"github.com/benbjohnson/clock"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/dep2p/go-busmsg/internal/core/messages"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// Option 配置选项函数
type Option func(*options)

// options 内部选项结构
type options struct {
	// bus 外部提供的事件总线，nil 时新建
	bus pkgif.EventBus

	// registerer 指标注册表，nil 时不采集指标（仅嵌入使用）
	registerer prometheus.Registerer

	// messages 透传给 Messages 的配置
	messages []messages.Option
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithEventBus 使用外部事件总线发布事件
func WithEventBus(bus EventBus) Option {
	return func(o *options) {
		o.bus = bus
	}
}

// WithMetrics 把指标注册到 reg
//
// 只对 New/Listen 生效；Node 使用自己的注册表并通过 /metrics 暴露。
func WithMetrics(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithActions 启动时注册动作
func WithActions(names ...string) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithActions(names...))
	}
}

// WithAutoPropagate 设置自动传播初始值
func WithAutoPropagate(v bool) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithAutoPropagate(v))
	}
}

// WithAsync 异步执行流水线，maxInFlight 为并发上限
func WithAsync(maxInFlight int64) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithAsync(maxInFlight))
	}
}

// WithActor 设置初始发送者解析器
func WithActor(fn ActorFunc) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithActor(fn))
	}
}

// WithTarget 设置初始接收者解析器
func WithTarget(fn TargetFunc) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithTarget(fn))
	}
}

// WithTracerProvider 设置链路追踪提供者
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithTracerProvider(tp))
	}
}

// WithClock 设置消息时间戳使用的时钟
func WithClock(clk clock.Clock) Option {
	return func(o *options) {
		o.messages = append(o.messages, messages.WithClock(clk))
	}
}
