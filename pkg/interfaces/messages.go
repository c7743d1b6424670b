package interfaces

import (
	"context"
	"time"

	"github.com/dep2p/go-busmsg/pkg/types"
)

// ============================================================================
//                              解析器
// ============================================================================

// ActorFunc 发送者解析函数
type ActorFunc func(ctx context.Context, conn Conn) (string, error)

// TargetFunc 接收者解析函数，params 为移除动作名后的原始参数
type TargetFunc func(ctx context.Context, conn Conn, params []any) (string, error)

// ============================================================================
//                              总线事件
// ============================================================================

// EvtActionRegistered 新动作注册（对外名 "action"）
type EvtActionRegistered struct {
	Name string
	Time time.Time
}

// EvtMessageReceived 消息解析完成（对外名 "message"）
//
// Conn 可能已经断开，消费者需容忍其监听器已被移除。
type EvtMessageReceived struct {
	Message *types.Message
	Conn    Conn
}

// EvtResolveFailed 解析失败（对外名 "error"）
//
// Err 为 *types.ResolutionError；Args 为移除动作名后的原始参数。
type EvtResolveFailed struct {
	Err   error
	Stage types.ResolveStage
	Conn  Conn
	Args  []any
}
