package busmsg

import "errors"

var (
	// ErrNilServer 传输层服务端为空
	ErrNilServer = errors.New("busmsg: nil server")

	// ErrNilConfig 配置为空
	ErrNilConfig = errors.New("busmsg: nil config")

	// ErrNotStarted 节点尚未启动
	ErrNotStarted = errors.New("busmsg: node not started")

	// ErrAlreadyStarted 节点已启动
	ErrAlreadyStarted = errors.New("busmsg: node already started")
)
