package types

import (
	"errors"
	"fmt"
)

// ErrEmptyAction 空动作名
var ErrEmptyAction = errors.New("types: empty action name")

// ResolveStage 解析阶段
type ResolveStage string

const (
	// StageActor 发送者解析
	StageActor ResolveStage = "actor"
	// StageTarget 接收者解析
	StageTarget ResolveStage = "target"
)

// ResolutionError 发送者或接收者解析失败
type ResolutionError struct {
	Stage  ResolveStage
	Action string
	Err    error
}

// Error 实现 error
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %s for %q: %v", e.Stage, e.Action, e.Err)
}

// Unwrap 返回解析器返回的原始错误
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
