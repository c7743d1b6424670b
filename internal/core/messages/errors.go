package messages

import "errors"

var (
	// ErrNilEventBus 事件总线为 nil
	ErrNilEventBus = errors.New("messages: event bus is nil")

	// ErrInvalidMaxInFlight 异步模式并发上限无效
	ErrInvalidMaxInFlight = errors.New("messages: max in-flight must be positive")
)
