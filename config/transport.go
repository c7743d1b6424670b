package config

import (
	"errors"
	"strings"
	"time"
)

// TransportConfig WebSocket 传输配置
type TransportConfig struct {
	// Addr 监听地址
	Addr string `json:"addr" yaml:"addr" env:"BUSMSG_ADDR"`

	// Path 升级端点路径
	Path string `json:"path" yaml:"path" env:"BUSMSG_WS_PATH"`

	// ReadLimit 单帧最大字节数，0 表示不限制
	ReadLimit int64 `json:"read_limit" yaml:"read_limit" env:"BUSMSG_WS_READ_LIMIT"`

	// WriteTimeout 单次写出超时
	WriteTimeout Duration `json:"write_timeout" yaml:"write_timeout" env:"BUSMSG_WS_WRITE_TIMEOUT"`
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Addr:         ":8080",
		Path:         "/ws",
		ReadLimit:    1 << 20,
		WriteTimeout: Duration(10 * time.Second),
	}
}

// Validate 验证传输配置
func (c TransportConfig) Validate() error {
	if c.Addr == "" {
		return errors.New("config: transport addr is required")
	}
	if !strings.HasPrefix(c.Path, "/") {
		return errors.New("config: transport path must start with /")
	}
	if c.ReadLimit < 0 {
		return errors.New("config: transport read_limit must be non-negative")
	}
	if c.WriteTimeout < 0 {
		return errors.New("config: transport write_timeout must be non-negative")
	}
	return nil
}
