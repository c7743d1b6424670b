package config

import "errors"

// DispatchConfig 流水线执行配置
//
// 同步模式下同一连接上的消息按到达顺序完成；
// 异步模式下每条消息在独立 goroutine 上执行，完成顺序不保证。
type DispatchConfig struct {
	// Async 是否异步执行
	Async bool `json:"async" yaml:"async" env:"BUSMSG_DISPATCH_ASYNC"`

	// MaxInFlight 异步模式下同时执行的流水线上限
	MaxInFlight int64 `json:"max_in_flight" yaml:"max_in_flight" env:"BUSMSG_DISPATCH_MAX_IN_FLIGHT"`
}

// DefaultDispatchConfig 返回默认执行配置
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		MaxInFlight: 256,
	}
}

// Validate 验证执行配置
func (c DispatchConfig) Validate() error {
	if c.Async && c.MaxInFlight <= 0 {
		return errors.New("config: dispatch max_in_flight must be positive in async mode")
	}
	return nil
}
