package ws

import (
	"errors"
	"net/http"
	"time"
)

// ErrInvalidPath 路径不以 / 开头
var ErrInvalidPath = errors.New("ws: path must start with /")

// Config WebSocket 服务端配置
type Config struct {
	// Path 升级端点路径
	Path string

	// ReadLimit 单帧最大字节数，0 表示不限制
	ReadLimit int64

	// WriteTimeout 单次写出超时，0 表示不设超时
	WriteTimeout time.Duration

	// CheckOrigin 跨域检查，nil 时接受所有来源
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Path:         "/ws",
		ReadLimit:    1 << 20,
		WriteTimeout: 10 * time.Second,
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	if c.Path == "" || c.Path[0] != '/' {
		return ErrInvalidPath
	}
	return nil
}
