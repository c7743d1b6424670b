// Package memory 提供进程内传输，用于测试与嵌入式场景
//
// 入站数据包在调用方 goroutine 上同步处理，
// 出站数据包记录在客户端上，可同步读取。
package memory

import (
	"sync"
	"sync/atomic"

	"github.com/dep2p/go-busmsg/internal/transport"
	"github.com/dep2p/go-busmsg/pkg/types"
)

// Server 进程内服务端
type Server struct {
	transport.Server
}

// NewServer 创建进程内服务端
func NewServer() *Server {
	return &Server{}
}

// Dial 以指定连接标识接入一个客户端
//
// 返回错误表示被中间件拒绝，此时连接已关闭。
func (s *Server) Dial(id string) (*Client, error) {
	cl := &Client{}
	cl.conn = transport.NewConn(id, cl)
	if err := s.Accept(cl.conn); err != nil {
		return nil, err
	}
	return cl, nil
}

// Client 进程内客户端
type Client struct {
	conn   *transport.Conn
	nextID atomic.Int64

	mu       sync.Mutex
	outbound []types.Packet
	closed   bool
}

// Conn 返回服务端一侧的连接
func (c *Client) Conn() *transport.Conn {
	return c.conn
}

// Emit 向服务端发送事件，不请求确认
func (c *Client) Emit(event string, args ...any) error {
	return c.conn.HandlePacket(&types.Packet{
		Type: types.PacketEvent,
		Data: append([]any{event}, args...),
	})
}

// EmitWithAck 向服务端发送事件并请求确认，返回包 id
func (c *Client) EmitWithAck(event string, args ...any) (int64, error) {
	id := c.nextID.Add(1)
	return id, c.conn.HandlePacket(&types.Packet{
		Type: types.PacketEvent,
		ID:   &id,
		Data: append([]any{event}, args...),
	})
}

// Received 返回服务端写给客户端的数据包快照
func (c *Client) Received() []types.Packet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]types.Packet(nil), c.outbound...)
}

// AckFor 返回回应指定 id 的确认包
func (c *Client) AckFor(id int64) (types.Packet, bool) {
	for _, p := range c.Received() {
		if p.Type == types.PacketAck && p.ID != nil && *p.ID == id {
			return p, true
		}
	}
	return types.Packet{}, false
}

// Disconnect 模拟客户端断开
func (c *Client) Disconnect() {
	c.conn.Disconnect()
}

// WritePacket 实现 transport.PacketWriter
func (c *Client) WritePacket(p *types.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return transport.ErrConnClosed
	}
	c.outbound = append(c.outbound, *p)
	return nil
}

// Close 实现 transport.PacketWriter
func (c *Client) Close() error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	return nil
}
