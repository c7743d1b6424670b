// Package config 提供 busmsg 的统一配置
//
// 主 Config 结构体嵌入各子配置，每个子配置在独立文件中定义，
// 提供 Default*Config 构造函数与 Validate 方法。
//
// 加载顺序: 默认值 → 配置文件（JSON 或 YAML）→ BUSMSG_* 环境变量 → 命令行参数。
//
// 使用示例：
//
//	cfg, err := config.Load("busmsg.yaml")
//	if err != nil {
//	    return err
//	}
//	cfg.Dispatch.Async = true
package config

import "errors"

var (
	// ErrNilConfig 配置为空
	ErrNilConfig = errors.New("config: nil config")

	// ErrPathConflict 指标端点与 WebSocket 端点路径相同
	ErrPathConflict = errors.New("config: metrics path conflicts with transport path")
)

// Config busmsg 完整配置
type Config struct {
	// Transport WebSocket 传输配置
	Transport TransportConfig `json:"transport" yaml:"transport"`

	// Dispatch 流水线执行配置
	Dispatch DispatchConfig `json:"dispatch" yaml:"dispatch"`

	// Messages 动作与自动传播配置
	Messages MessagesConfig `json:"messages" yaml:"messages"`

	// Log 日志配置
	Log LogConfig `json:"log" yaml:"log"`

	// Metrics 指标端点配置
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`
}

// NewConfig 创建默认配置
func NewConfig() *Config {
	return &Config{
		Transport: DefaultTransportConfig(),
		Dispatch:  DefaultDispatchConfig(),
		Messages:  DefaultMessagesConfig(),
		Log:       DefaultLogConfig(),
		Metrics:   DefaultMetricsConfig(),
	}
}

// Validate 验证所有子配置
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if err := c.Transport.Validate(); err != nil {
		return err
	}
	if err := c.Dispatch.Validate(); err != nil {
		return err
	}
	if err := c.Messages.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.Metrics.Validate(); err != nil {
		return err
	}
	if c.Metrics.Enabled && c.Metrics.Path == c.Transport.Path {
		return ErrPathConflict
	}
	return nil
}
