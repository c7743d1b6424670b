package busmsg

import (
	"github.com/dep2p/go-busmsg/internal/core/messages"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/dep2p/go-busmsg/pkg/types"
)

// ============================================================================
// 类型别名
// ============================================================================

type (
	// Messages 消息归一化与路由器
	Messages = messages.Messages

	// Message 统一消息
	Message = types.Message

	// Ack 确认回调
	Ack = types.Ack

	// ResolutionError 解析失败错误
	ResolutionError = types.ResolutionError

	// ResolveStage 解析阶段
	ResolveStage = types.ResolveStage

	// Conn 传输层连接
	Conn = pkgif.Conn

	// Server 传输层服务端
	Server = pkgif.Server

	// ActorFunc 发送者解析器
	ActorFunc = pkgif.ActorFunc

	// TargetFunc 接收者解析器
	TargetFunc = pkgif.TargetFunc

	// EventBus 事件总线
	EventBus = pkgif.EventBus

	// EvtActionRegistered action 事件
	EvtActionRegistered = pkgif.EvtActionRegistered

	// EvtMessageReceived message 事件
	EvtMessageReceived = pkgif.EvtMessageReceived

	// EvtResolveFailed error 事件
	EvtResolveFailed = pkgif.EvtResolveFailed
)

// 解析阶段
const (
	StageActor  = types.StageActor
	StageTarget = types.StageTarget
)
