package messages

import (
	"context"

	"go.uber.org/fx"

	"github.com/dep2p/go-busmsg/internal/core/metrics"
	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
)

// Params Messages 依赖参数
type Params struct {
	fx.In

	LC      fx.Lifecycle
	Bus     pkgif.EventBus
	Config  *Config          `optional:"true"`
	Metrics *metrics.Metrics `optional:"true"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("messages",
		fx.Provide(NewFromParams),
	)
}

// NewFromParams 从依赖参数创建 Messages，并在应用停止时关闭
func NewFromParams(p Params) (*Messages, error) {
	cfg := DefaultConfig()
	if p.Config != nil {
		c := *p.Config
		cfg = &c
	}
	if cfg.Metrics == nil {
		cfg.Metrics = p.Metrics
	}

	m, err := NewWithConfig(p.Bus, cfg)
	if err != nil {
		return nil, err
	}

	p.LC.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return m.Close()
		},
	})
	return m, nil
}
