package transport

import "errors"

var (
	// ErrConnClosed 连接已关闭
	ErrConnClosed = errors.New("transport: connection closed")

	// ErrUnsupportedPacket 不支持的数据包类型
	ErrUnsupportedPacket = errors.New("transport: unsupported packet type")
)
