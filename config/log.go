package config

import (
	"errors"
	"strings"
)

// LogConfig 日志配置
//
// 级别与格式也可以直接由 BUSMSG_LOG_LEVEL / BUSMSG_LOG_FORMAT 在进程启动时设置，
// 这里的 Level 在加载配置后再套用一次。
type LogConfig struct {
	// Level 形如 "core/messages=debug,info"
	Level string `json:"level" yaml:"level" env:"BUSMSG_LOG_LEVEL"`

	// File 滚动日志文件，Path 为空时输出到 stderr
	File LogFileConfig `json:"file" yaml:"file"`
}

// LogFileConfig 滚动日志文件配置
type LogFileConfig struct {
	Path       string `json:"path" yaml:"path" env:"BUSMSG_LOG_FILE"`
	MaxSizeMB  int    `json:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `json:"max_backups" yaml:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" yaml:"max_age_days"`
	Compress   bool   `json:"compress" yaml:"compress"`
	Tee        bool   `json:"tee" yaml:"tee"`
}

// DefaultLogConfig 返回默认日志配置
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level: "info",
		File: LogFileConfig{
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
	}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	for _, part := range strings.Split(c.Level, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		_, level, found := strings.Cut(part, "=")
		if !found {
			level = part
		}
		switch strings.ToLower(strings.TrimSpace(level)) {
		case "debug", "info", "warn", "warning", "error":
		default:
			return errors.New("config: unknown log level " + level)
		}
	}
	if c.File.MaxSizeMB < 0 || c.File.MaxBackups < 0 || c.File.MaxAgeDays < 0 {
		return errors.New("config: log file limits must be non-negative")
	}
	return nil
}
