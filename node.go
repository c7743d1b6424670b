package busmsg

import (
	"context"
	"errors"
	"net"
	"sync"

	"go.uber.org/fx"

	"github.com/dep2p/go-busmsg/config"
	"github.com/dep2p/go-busmsg/internal/transport/ws"
)

// Node 独立运行的 busmsg 服务
//
// 组装 WebSocket 传输、Messages 与 Prometheus 指标，指标端点与 WebSocket 共用同一个 HTTP 服务。
type Node struct {
	cfg *config.Config
	app *fx.App

	messages *Messages
	server   *ws.Server

	mu       sync.Mutex
	listener net.Listener
	started  bool
	errCh    chan error
}

// NewNode 按配置构建节点，不监听端口
func NewNode(cfg *config.Config, opts ...Option) (*Node, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	n := &Node{
		cfg:   cfg,
		errCh: make(chan error, 1),
	}
	app, err := buildFxApp(cfg, newOptions(opts), n)
	if err != nil {
		return nil, err
	}
	n.app = app
	return n, nil
}

// Start 启动节点并开始监听 Transport.Addr
func (n *Node) Start(ctx context.Context) error {
	n.mu.Lock()
	if n.started {
		n.mu.Unlock()
		return ErrAlreadyStarted
	}
	n.started = true
	n.mu.Unlock()

	return n.app.Start(ctx)
}

// Stop 关闭所有连接并停止 HTTP 服务与 Messages
func (n *Node) Stop(ctx context.Context) error {
	n.mu.Lock()
	started := n.started
	n.mu.Unlock()
	if !started {
		return ErrNotStarted
	}
	return n.app.Stop(ctx)
}

// Messages 返回节点的消息路由器
func (n *Node) Messages() *Messages {
	return n.messages
}

// Conn 按标识查找当前连接
func (n *Node) Conn(id string) (Conn, bool) {
	c, ok := n.server.Conn(id)
	if !ok {
		return nil, false
	}
	return c, true
}

// Addr 返回实际监听地址，未启动时为 nil
func (n *Node) Addr() net.Addr {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.listener == nil {
		return nil
	}
	return n.listener.Addr()
}

// Err 返回 HTTP 服务异常退出时的错误通道
func (n *Node) Err() <-chan error {
	return n.errCh
}

// serve 在 Fx 启动阶段打开监听并在后台提供服务
func (n *Node) serve(p serveParams) error {
	l, err := listen(n.cfg.Transport.Addr)
	if err != nil {
		return err
	}

	n.mu.Lock()
	n.listener = l
	n.mu.Unlock()

	go func() {
		if err := p.Server.Serve(l, p.handlers()); err != nil && !errors.Is(err, ws.ErrServerClosed) {
			log.Warn("http server stopped", "err", err)
			select {
			case n.errCh <- err:
			default:
			}
		}
	}()
	log.Info("node started", "addr", l.Addr().String(), "path", n.cfg.Transport.Path, "actions", len(n.messages.Actions()))
	return nil
}
