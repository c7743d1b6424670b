package busmsg

import (
	"context"
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"github.com/dep2p/go-busmsg/config"
	"github.com/dep2p/go-busmsg/internal/core/eventbus"
	"github.com/dep2p/go-busmsg/internal/core/messages"
	"github.com/dep2p/go-busmsg/internal/core/metrics"
	"github.com/dep2p/go-busmsg/internal/transport/ws"
	"github.com/dep2p/go-busmsg/internal/util/logger"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

var fxLogger = logger.Logger("busmsg/fx")

// buildFxApp 构建 Fx 应用
//
// 加载顺序（按依赖）：
//  1. EventBus（或外部总线）
//  2. Metrics（Metrics.Enabled 时）
//  3. Messages
//  4. WebSocket 传输，接入 Messages 并在启动时监听
func buildFxApp(cfg *config.Config, o *options, node *Node) (*fx.App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	modules := []fx.Option{
		fx.Supply(cfg),
		fx.Provide(
			func() *messages.Config { return messagesConfig(cfg, o) },
			func() ws.Config { return wsConfig(cfg) },
		),
	}

	// ════════════════════════════════════════════════════════════════════════
	// 1. 事件总线
	// ════════════════════════════════════════════════════════════════════════
	if o.bus != nil {
		modules = append(modules, fx.Provide(func() pkgif.EventBus { return o.bus }))
	} else {
		modules = append(modules, eventbus.Module())
	}

	// ════════════════════════════════════════════════════════════════════════
	// 2. 指标（条件加载）
	// ════════════════════════════════════════════════════════════════════════
	if cfg.Metrics.Enabled {
		modules = append(modules,
			metrics.Module(),
			fx.Invoke(wireDropHook),
		)
	}

	// ════════════════════════════════════════════════════════════════════════
	// 3. 消息路由与传输
	// ════════════════════════════════════════════════════════════════════════
	modules = append(modules,
		messages.Module(),
		ws.Module(),
		fx.Invoke(func(m *messages.Messages, s *ws.Server) { m.Attach(s) }),
		fx.Invoke(func(lc fx.Lifecycle, p serveParams) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error { return node.serve(p) },
			})
		}),
		fx.Populate(&node.messages, &node.server),
	)

	modules = append(modules,
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: zap.NewNop()}
		}),
	)

	app := fx.New(modules...)
	if err := app.Err(); err != nil {
		return nil, fmt.Errorf("build fx app: %w", err)
	}
	fxLogger.Debug("fx app built", "metrics", cfg.Metrics.Enabled, "async", cfg.Dispatch.Async)
	return app, nil
}

// serveParams HTTP 服务依赖
type serveParams struct {
	fx.In

	Config   *config.Config
	Server   *ws.Server
	Registry *prometheus.Registry `optional:"true"`
}

// handlers 返回与 WebSocket 端点一同挂载的处理器
func (p serveParams) handlers() map[string]http.Handler {
	if p.Registry == nil || !p.Config.Metrics.Enabled {
		return nil
	}
	return map[string]http.Handler{
		p.Config.Metrics.Path: promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{Registry: p.Registry}),
	}
}

// dropHookParams 总线丢弃回调依赖
type dropHookParams struct {
	fx.In

	Bus     *eventbus.Bus `optional:"true"`
	Metrics *metrics.Metrics
}

// wireDropHook 把总线丢弃计入指标
func wireDropHook(p dropHookParams) {
	if p.Bus != nil {
		p.Bus.SetDropHook(p.Metrics.BusDropped)
	}
}

// messagesConfig 由文件配置与选项得到 Messages 配置，选项优先
func messagesConfig(cfg *config.Config, o *options) *messages.Config {
	mc := messages.DefaultConfig()
	mc.Actions = append(mc.Actions, cfg.Messages.Actions...)
	mc.AutoPropagate = cfg.Messages.AutoPropagate
	mc.Async = cfg.Dispatch.Async
	mc.MaxInFlight = cfg.Dispatch.MaxInFlight
	for _, opt := range o.messages {
		opt(mc)
	}
	return mc
}

func wsConfig(cfg *config.Config) ws.Config {
	wc := ws.DefaultConfig()
	wc.Path = cfg.Transport.Path
	wc.ReadLimit = cfg.Transport.ReadLimit
	wc.WriteTimeout = cfg.Transport.WriteTimeout.Duration()
	return wc
}

// listen 打开监听，供 Node.serve 使用
func listen(addr string) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return l, nil
}
