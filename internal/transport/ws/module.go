package ws

import (
	"go.uber.org/fx"
)

// Params Server 依赖参数
type Params struct {
	fx.In

	LC     fx.Lifecycle
	Config Config
}

// Module 返回 Fx 模块
//
// 只负责创建服务端并在停止时关闭；监听地址由上层决定。
func Module() fx.Option {
	return fx.Module("transport/ws",
		fx.Provide(NewFromParams),
	)
}

// NewFromParams 从依赖参数创建 Server
func NewFromParams(p Params) (*Server, error) {
	s, err := NewServer(p.Config)
	if err != nil {
		return nil, err
	}
	p.LC.Append(fx.StopHook(s.Shutdown))
	return s, nil
}
