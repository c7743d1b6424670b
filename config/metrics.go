package config

import (
	"errors"
	"strings"
)

// MetricsConfig Prometheus 指标端点配置
//
// 端点与 WebSocket 共用 Transport.Addr 上的 HTTP 服务。
type MetricsConfig struct {
	// Enabled 是否暴露指标端点
	Enabled bool `json:"enabled" yaml:"enabled" env:"BUSMSG_METRICS"`

	// Path 指标端点路径
	Path string `json:"path" yaml:"path" env:"BUSMSG_METRICS_PATH"`
}

// DefaultMetricsConfig 返回默认指标配置
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled: true,
		Path:    "/metrics",
	}
}

// Validate 验证指标配置
func (c MetricsConfig) Validate() error {
	if c.Enabled && !strings.HasPrefix(c.Path, "/") {
		return errors.New("config: metrics path must start with /")
	}
	return nil
}
