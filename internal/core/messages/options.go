package messages

import (
	"github.com/benbjohnson/clock"
	"go.opentelemetry.io/otel/trace"

	"github.com/dep2p/go-busmsg/internal/core/metrics"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// Config Messages 配置
type Config struct {
	// Actions 启动时注册的动作
	Actions []string

	// AutoPropagate 自动传播初始值，nil 表示未设置（读取时默认为 false）
	AutoPropagate *bool

	// Async 是否异步执行流水线
	Async bool

	// MaxInFlight 异步模式下同时执行的流水线上限
	MaxInFlight int64

	// Actor / Target 初始解析器，nil 使用默认（连接标识）
	Actor  pkgif.ActorFunc
	Target pkgif.TargetFunc

	Metrics        *metrics.Metrics
	TracerProvider trace.TracerProvider
	Clock          clock.Clock
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		MaxInFlight: 256,
		Clock:       clock.New(),
	}
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.Async && c.MaxInFlight <= 0 {
		return ErrInvalidMaxInFlight
	}
	return nil
}

// Option 配置选项函数
type Option func(*Config)

// WithActions 启动时注册动作
func WithActions(names ...string) Option {
	return func(c *Config) {
		c.Actions = append(c.Actions, names...)
	}
}

// WithAutoPropagate 设置自动传播初始值
func WithAutoPropagate(v bool) Option {
	return func(c *Config) {
		c.AutoPropagate = &v
	}
}

// WithAsync 开启异步流水线，maxInFlight 为并发上限
func WithAsync(maxInFlight int64) Option {
	return func(c *Config) {
		c.Async = true
		c.MaxInFlight = maxInFlight
	}
}

// WithActor 设置初始发送者解析器
func WithActor(fn pkgif.ActorFunc) Option {
	return func(c *Config) {
		c.Actor = fn
	}
}

// WithTarget 设置初始接收者解析器
func WithTarget(fn pkgif.TargetFunc) Option {
	return func(c *Config) {
		c.Target = fn
	}
}

// WithMetrics 设置指标
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Config) {
		c.Metrics = m
	}
}

// WithTracerProvider 设置链路追踪提供者，默认使用 otel 全局提供者
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Config) {
		c.TracerProvider = tp
	}
}

// WithClock 设置时钟（测试中注入 mock）
func WithClock(clk clock.Clock) Option {
	return func(c *Config) {
		c.Clock = clk
	}
}
