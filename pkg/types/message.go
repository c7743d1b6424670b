package types

import (
	"encoding/json"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Message 消息信封
//
// 由分发流水线构建：先设置 action，解析出 actor 后设置 actor，
// 解析出 target 后设置 target 与 content，然后发布。
// 所有字段通过访问器读写，setter 返回自身以便链式调用。
type Message struct {
	id      string
	created time.Time
	action  string
	actor   string
	target  string
	content []any
}

// NewMessage 创建新的消息信封
func NewMessage() *Message {
	return NewMessageWithClock(clock.New())
}

// NewMessageWithClock 使用指定时钟创建消息信封（测试中注入 mock 时钟）
func NewMessageWithClock(clk clock.Clock) *Message {
	return &Message{
		id:      uuid.New().String(),
		created: clk.Now(),
	}
}

// ID 返回消息唯一标识
func (m *Message) ID() string { return m.id }

// Created 返回消息创建时间
func (m *Message) Created() time.Time { return m.created }

// Action 返回动作名
func (m *Message) Action() string { return m.action }

// SetAction 设置动作名
func (m *Message) SetAction(action string) *Message {
	m.action = action
	return m
}

// Actor 返回发送者标识
func (m *Message) Actor() string { return m.actor }

// SetActor 设置发送者标识
func (m *Message) SetActor(actor string) *Message {
	m.actor = actor
	return m
}

// Target 返回接收者标识
func (m *Message) Target() string { return m.target }

// SetTarget 设置接收者标识
func (m *Message) SetTarget(target string) *Message {
	m.target = target
	return m
}

// Content 返回原始参数（不含动作名，可能以 Ack 结尾）
func (m *Message) Content() []any { return m.content }

// SetContent 设置原始参数，不做拷贝
func (m *Message) SetContent(content []any) *Message {
	m.content = content
	return m
}

// Ack 返回 content 末尾的确认回调
//
// 仅当发送方请求确认时存在。
func (m *Message) Ack() (Ack, bool) {
	if len(m.content) == 0 {
		return nil, false
	}
	ack, ok := m.content[len(m.content)-1].(Ack)
	return ack, ok
}

// Params 返回去掉确认回调后的参数
func (m *Message) Params() []any {
	if _, ok := m.Ack(); ok {
		return m.content[:len(m.content)-1]
	}
	return m.content
}

// messageJSON 消息的 JSON 表示
type messageJSON struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
	Action  string    `json:"action"`
	Actor   string    `json:"actor"`
	Target  string    `json:"target"`
	Content []any     `json:"content"`
}

// MarshalJSON 实现 json.Marshaler
//
// 确认回调不可序列化，输出中省略。
func (m *Message) MarshalJSON() ([]byte, error) {
	content := m.Params()
	if content == nil {
		content = []any{}
	}
	return json.Marshal(messageJSON{
		ID:      m.id,
		Created: m.created,
		Action:  m.action,
		Actor:   m.actor,
		Target:  m.target,
		Content: content,
	})
}
