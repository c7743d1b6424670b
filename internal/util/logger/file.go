package logger

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// FileConfig 滚动日志文件配置
type FileConfig struct {
	// Path 日志文件路径
	Path string
	// MaxSizeMB 单个文件最大体积，超过后滚动
	MaxSizeMB int
	// MaxBackups 保留的旧文件个数
	MaxBackups int
	// MaxAgeDays 旧文件保留天数
	MaxAgeDays int
	// Compress 是否压缩滚动后的文件
	Compress bool
	// Tee 是否同时输出到 stderr
	Tee bool
}

// ErrEmptyLogPath 日志文件路径为空
var ErrEmptyLogPath = errors.New("logger: empty log file path")

// SetupFile 将全局输出切换到滚动日志文件
//
// 返回的关闭函数会恢复 stderr 输出并关闭文件。
func SetupFile(cfg FileConfig) (func() error, error) {
	if cfg.Path == "" {
		return nil, ErrEmptyLogPath
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	var out io.Writer = lj
	if cfg.Tee {
		out = io.MultiWriter(os.Stderr, lj)
	}
	SetOutput(out)

	return func() error {
		SetOutput(os.Stderr)
		return lj.Close()
	}, nil
}
