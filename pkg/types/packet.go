package types

import "errors"

// PacketType 数据包类型
type PacketType string

const (
	// PacketEvent 事件数据包，data[0] 为事件名
	PacketEvent PacketType = "event"
	// PacketAck 确认数据包，回应带 id 的事件
	PacketAck PacketType = "ack"
)

// ErrEmptyPacket 数据包没有事件名
var ErrEmptyPacket = errors.New("packet: missing event name")

// Packet 传输层入站数据包
//
// JSON 形式: {"type":"event","id":7,"data":["say","hi"]}
// ID 非空表示发送方期望确认。
type Packet struct {
	Type PacketType `json:"type"`
	ID   *int64     `json:"id,omitempty"`
	Data []any      `json:"data"`
}

// Event 返回事件名与位置参数
//
// 返回的参数切片是 Data 的拷贝，调用方可以安全追加。
func (p *Packet) Event() (string, []any, error) {
	if len(p.Data) == 0 {
		return "", nil, ErrEmptyPacket
	}
	name, ok := p.Data[0].(string)
	if !ok || name == "" {
		return "", nil, ErrEmptyPacket
	}
	args := make([]any, len(p.Data)-1, len(p.Data))
	copy(args, p.Data[1:])
	return name, args, nil
}

// WantsAck 发送方是否期望确认
func (p *Packet) WantsAck() bool {
	return p.ID != nil
}

// Ack 确认回调
//
// 由传输层在数据包携带 id 时追加到参数末尾，应用层调用它把结果回传给发送方。
type Ack func(args ...any)
