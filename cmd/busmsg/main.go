// Package main 提供 busmsg 命令行入口
//
// 启动 WebSocket 服务，按配置注册动作，记录每条发布的消息；
// 开启 -echo 时把消息回推给 target 对应的连接，并在请求确认时回应消息 id。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dep2p/go-busmsg"
	"github.com/dep2p/go-busmsg/config"
	"github.com/dep2p/go-busmsg/internal/util/logger"
)

var log = logger.Logger("busmsg/cmd")

// ═══════════════════════════════════════════════════════════════════════════
// 命令行参数
// ═══════════════════════════════════════════════════════════════════════════
//
//   命令行参数：运行时覆盖 / 快速测试
//   配置文件（JSON/YAML）+ BUSMSG_* 环境变量：持久化配置
//
// ═══════════════════════════════════════════════════════════════════════════
var (
	configFile    = flag.String("config", "", "配置文件路径（.json/.yaml/.yml）")
	addr          = flag.String("addr", "", "监听地址，覆盖 transport.addr")
	actions       = flag.String("actions", "", "额外注册的动作，逗号分隔")
	autoPropagate = flag.Bool("auto-propagate", false, "未注册的事件也送入流水线")
	async         = flag.Bool("async", false, "异步执行流水线")
	echo          = flag.Bool("echo", false, "把消息回推给 target 连接")
	logFile       = flag.String("log", "", "日志文件路径，覆盖 log.file.path")
	logLevel      = flag.String("log-level", "", "日志级别，如 core/messages=debug,info")

	showVersion = flag.Bool("version", false, "显示版本信息")
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	flag.Parse()

	if *showVersion {
		fmt.Println(busmsg.VersionInfo())
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}

	closeLog, err := setupLogging(cfg.Log)
	if err != nil {
		return fmt.Errorf("日志设置失败: %w", err)
	}
	defer func() { _ = closeLog() }()

	log.Info("启动 busmsg", "version", busmsg.Version, "commit", busmsg.GitCommit, "buildDate", busmsg.BuildDate)

	node, err := busmsg.NewNode(cfg)
	if err != nil {
		return fmt.Errorf("构建失败: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := node.Start(startCtx); err != nil {
		return fmt.Errorf("启动失败: %w", err)
	}

	closers, err := observe(node, *echo)
	if err != nil {
		_ = node.Stop(context.Background())
		return err
	}

	fmt.Printf("busmsg 已启动: ws://%s%s，按 Ctrl+C 退出\n", node.Addr(), cfg.Transport.Path)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case err := <-node.Err():
			return err
		}
	})
	runErr := g.Wait()

	fmt.Println("\n正在关闭...")
	for _, c := range closers {
		_ = c.Close()
	}
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return errors.Join(runErr, node.Stop(stopCtx))
}

// loadConfig 加载配置
//
// 配置优先级（从高到低）：
//  1. 命令行参数
//  2. 环境变量（BUSMSG_* 前缀）
//  3. 配置文件
//  4. 默认值
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}

	if *addr != "" {
		cfg.Transport.Addr = *addr
	}
	if *actions != "" {
		cfg.Messages = cfg.Messages.WithActions(splitList(*actions)...)
	}
	if isFlagSet("auto-propagate") {
		cfg.Messages = cfg.Messages.WithAutoPropagate(*autoPropagate)
	}
	if isFlagSet("async") {
		cfg.Dispatch.Async = *async
	}
	if *logFile != "" {
		cfg.Log.File.Path = *logFile
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	return cfg, cfg.Validate()
}

// setupLogging 套用日志级别并按需切换到滚动日志文件
func setupLogging(cfg config.LogConfig) (func() error, error) {
	logger.ApplyLevels(cfg.Level)

	if cfg.File.Path == "" {
		return func() error { return nil }, nil
	}
	return logger.SetupFile(logger.FileConfig{
		Path:       cfg.File.Path,
		MaxSizeMB:  cfg.File.MaxSizeMB,
		MaxBackups: cfg.File.MaxBackups,
		MaxAgeDays: cfg.File.MaxAgeDays,
		Compress:   cfg.File.Compress,
		Tee:        cfg.File.Tee,
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// isFlagSet 检查命令行参数是否被显式设置
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
