package transport

import (
	"fmt"
	"sync"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// Server 中间件链与接入处理器的通用实现，具体传输嵌入它
type Server struct {
	mu          sync.RWMutex
	middlewares []pkgif.Middleware
	handlers    []pkgif.ConnectionHandler
}

var _ pkgif.Server = (*Server)(nil)

// Use 注册中间件
func (s *Server) Use(m pkgif.Middleware) {
	if m == nil {
		return
	}
	s.mu.Lock()
	s.middlewares = append(s.middlewares, m)
	s.mu.Unlock()
}

// HasMiddleware 中间件是否已注册
func (s *Server) HasMiddleware(m pkgif.Middleware) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, existing := range s.middlewares {
		if existing == m {
			return true
		}
	}
	return false
}

// OnConnection 注册连接接入处理器
func (s *Server) OnConnection(h pkgif.ConnectionHandler) {
	if h == nil {
		return
	}
	s.mu.Lock()
	s.handlers = append(s.handlers, h)
	s.mu.Unlock()
}

// Accept 对新连接依次执行中间件与接入处理器
//
// 任一中间件返回错误时关闭连接并返回该错误，处理器不会被调用。
func (s *Server) Accept(c *Conn) error {
	s.mu.RLock()
	middlewares := append([]pkgif.Middleware(nil), s.middlewares...)
	handlers := append([]pkgif.ConnectionHandler(nil), s.handlers...)
	s.mu.RUnlock()

	for _, m := range middlewares {
		if err := m.Handle(c); err != nil {
			_ = c.Close()
			return fmt.Errorf("middleware rejected %s: %w", c.ID(), err)
		}
	}

	log.Debug("connection accepted", "conn", c.ID(), "handlers", len(handlers))
	for _, h := range handlers {
		h.HandleConnection(c)
	}
	return nil
}
