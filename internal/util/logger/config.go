package logger

import (
	"log/slog"
	"maps"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// LogFormat 日志输出格式
type LogFormat int

const (
	// FormatText 文本格式（默认）
	FormatText LogFormat = iota
	// FormatJSON JSON 格式
	FormatJSON
)

// Config 日志配置
type Config struct {
	// DefaultLevel 默认日志级别
	DefaultLevel slog.Level

	// SubsystemLevels 各子系统的日志级别
	SubsystemLevels map[string]slog.Level

	// Format 输出格式
	Format LogFormat

	// AddSource 是否添加源码位置
	AddSource bool
}

// LevelForSubsystem 获取指定子系统的日志级别
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configOnce  sync.Once

	// override ApplyLevels 设置的配置，优先于环境变量
	override atomic.Pointer[Config]
)

// ConfigFromEnv 从环境变量解析配置（仅解析一次）
//
// 环境变量:
//   - BUSMSG_LOG_LEVEL: 子系统=级别,子系统=级别,默认级别
//   - BUSMSG_LOG_FORMAT: text 或 json
//   - BUSMSG_LOG_ADD_SOURCE: true 或 false
func ConfigFromEnv() *Config {
	configOnce.Do(func() {
		configCache = parseConfig(os.Getenv)
	})
	return configCache
}

// ApplyLevels 按 "subsystem=level,...,defaultLevel" 重设日志级别
//
// 已创建与之后创建的 Logger 都生效；空串无效果。
func ApplyLevels(levels string) {
	if strings.TrimSpace(levels) == "" {
		return
	}
	base := currentConfig()
	cfg := *base
	cfg.SubsystemLevels = maps.Clone(base.SubsystemLevels)
	parseLevelConfig(&cfg, levels)
	override.Store(&cfg)

	handlers.Range(func(key, value any) bool {
		value.(*subsystemHandler).SetLevel(cfg.LevelForSubsystem(key.(string)))
		return true
	})
}

func currentConfig() *Config {
	if cfg := override.Load(); cfg != nil {
		return cfg
	}
	return ConfigFromEnv()
}

func parseConfig(getenv func(string) string) *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
	}

	if levelStr := getenv("BUSMSG_LOG_LEVEL"); levelStr != "" {
		parseLevelConfig(cfg, levelStr)
	}

	if strings.EqualFold(getenv("BUSMSG_LOG_FORMAT"), "json") {
		cfg.Format = FormatJSON
	}

	if addSource := getenv("BUSMSG_LOG_ADD_SOURCE"); addSource != "" {
		cfg.AddSource = addSource != "false" && addSource != "0"
	}

	return cfg
}

// parseLevelConfig 解析 subsystem=level,subsystem=level,defaultLevel
func parseLevelConfig(cfg *Config, levelStr string) {
	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		subsystem, levelName, found := strings.Cut(part, "=")
		if !found {
			if level, ok := ParseLevel(part); ok {
				cfg.DefaultLevel = level
			}
			continue
		}
		if level, ok := ParseLevel(strings.TrimSpace(levelName)); ok {
			cfg.SubsystemLevels[strings.TrimSpace(subsystem)] = level
		}
	}
}

// ParseLevel 解析日志级别名称
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
