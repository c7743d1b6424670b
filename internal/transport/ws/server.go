package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/multierr"

	"github.com/dep2p/go-busmsg/internal/transport"
	"github.com/dep2p/go-busmsg/internal/util/logger"
	"github.com/dep2p/go-busmsg/pkg/types"
)

var log = logger.Logger("transport/ws")

// ErrServerClosed 服务端已关闭
var ErrServerClosed = errors.New("ws: server closed")

// Server WebSocket 服务端
//
// 实现 http.Handler，可直接挂到已有的 mux 上，也可以用 Serve 独立监听。
type Server struct {
	transport.Server

	cfg      Config
	upgrader websocket.Upgrader

	mu     sync.Mutex
	conns  map[string]*transport.Conn
	http   *http.Server
	closed bool
}

var _ http.Handler = (*Server)(nil)

// NewServer 创建 WebSocket 服务端
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Server{
		cfg:      cfg,
		upgrader: websocket.Upgrader{CheckOrigin: checkOrigin},
		conns:    make(map[string]*transport.Conn),
	}, nil
}

// Path 返回升级端点路径
func (s *Server) Path() string {
	return s.cfg.Path
}

// ServeHTTP 升级连接并在当前 goroutine 上运行读循环，直到连接断开
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		http.Error(w, ErrServerClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	wsc, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}
	if s.cfg.ReadLimit > 0 {
		wsc.SetReadLimit(s.cfg.ReadLimit)
	}

	sock := newSocket(wsc, s.cfg.WriteTimeout)
	conn := transport.NewConn(uuid.NewString(), sock)

	if !s.track(conn) {
		_ = sock.Close()
		return
	}
	defer s.untrack(conn)

	if err := s.Accept(conn); err != nil {
		log.Info("connection rejected", "conn", conn.ID(), "remote", r.RemoteAddr, "err", err)
		return
	}
	log.Debug("connection established", "conn", conn.ID(), "remote", r.RemoteAddr)

	s.readLoop(wsc, conn)

	_ = sock.Close()
	conn.Disconnect()
	log.Debug("connection closed", "conn", conn.ID())
}

// readLoop 逐帧解码并交给连接处理，读错误时返回
func (s *Server) readLoop(wsc *websocket.Conn, conn *transport.Conn) {
	for {
		_, data, err := wsc.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("read failed", "conn", conn.ID(), "err", err)
			}
			return
		}

		var p types.Packet
		if err := json.Unmarshal(data, &p); err != nil {
			log.Debug("invalid packet", "conn", conn.ID(), "err", err)
			continue
		}
		if err := conn.HandlePacket(&p); err != nil {
			log.Debug("packet not handled", "conn", conn.ID(), "type", p.Type, "err", err)
		}
	}
}

func (s *Server) track(c *transport.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.conns[c.ID()] = c
	return true
}

func (s *Server) untrack(c *transport.Conn) {
	s.mu.Lock()
	delete(s.conns, c.ID())
	s.mu.Unlock()
}

// Conn 按标识查找当前连接
func (s *Server) Conn(id string) (*transport.Conn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conns[id]
	return c, ok
}

// Len 返回当前连接数
func (s *Server) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}

// Serve 在 l 上提供 HTTP 服务，升级端点挂在 Config.Path
//
// 额外的处理器（如 /metrics）可以通过 extra 一起挂载。Close 之后返回 nil；
// 已关闭的服务端关闭 l 并返回 ErrServerClosed。
func (s *Server) Serve(l net.Listener, extra map[string]http.Handler) error {
	mux := http.NewServeMux()
	mux.Handle(s.cfg.Path, s)
	for path, h := range extra {
		mux.Handle(path, h)
	}

	hs := &http.Server{Handler: mux}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		_ = l.Close()
		return ErrServerClosed
	}
	s.http = hs
	s.mu.Unlock()

	log.Info("listening", "addr", l.Addr().String(), "path", s.cfg.Path)
	if err := hs.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close 停止接受新连接并关闭全部现有连接
func (s *Server) Close() error {
	return s.Shutdown(context.Background())
}

// Shutdown 同 Close，HTTP 服务的优雅关闭受 ctx 约束
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	hs := s.http
	conns := make([]*transport.Conn, 0, len(s.conns))
	for _, c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	var err error
	for _, c := range conns {
		err = multierr.Append(err, c.Close())
	}
	if hs != nil {
		err = multierr.Append(err, hs.Shutdown(ctx))
	}
	return err
}
