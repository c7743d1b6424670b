package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dep2p/go-busmsg/pkg/types"
)

// socket 包装 *websocket.Conn，实现 transport.PacketWriter
//
// gorilla/websocket 只允许一个并发写者，写出由 writeMu 串行化。
type socket struct {
	ws           *websocket.Conn
	writeTimeout time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newSocket(c *websocket.Conn, writeTimeout time.Duration) *socket {
	return &socket{ws: c, writeTimeout: writeTimeout}
}

// WritePacket 以 JSON 文本帧写出数据包
func (s *socket) WritePacket(p *types.Packet) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if s.writeTimeout > 0 {
		if err := s.ws.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
			return err
		}
	}
	return s.ws.WriteJSON(p)
}

// Close 发送关闭帧后关闭底层连接，只生效一次
func (s *socket) Close() error {
	s.closeOnce.Do(func() {
		s.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = s.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.writeMu.Unlock()

		s.closeErr = s.ws.Close()
	})
	return s.closeErr
}
