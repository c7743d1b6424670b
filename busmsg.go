package busmsg

import (
	"github.com/dep2p/go-busmsg/internal/core/eventbus"
	"github.com/dep2p/go-busmsg/internal/core/messages"
	"github.com/dep2p/go-busmsg/internal/core/metrics"
	"github.com/dep2p/go-busmsg/internal/util/logger"
)

var log = logger.Logger("busmsg")

// New 创建未接入任何传输的 Messages
//
// 未通过 WithEventBus 提供总线时新建一条。
func New(opts ...Option) (*Messages, error) {
	o := newOptions(opts)

	bus := o.bus
	if bus == nil {
		bus = eventbus.NewBus()
	}

	mopts := o.messages
	if o.registerer != nil {
		met := metrics.New(o.registerer)
		mopts = append([]messages.Option{messages.WithMetrics(met)}, mopts...)
		if b, ok := bus.(*eventbus.Bus); ok {
			b.SetDropHook(met.BusDropped)
		}
	}

	return messages.New(bus, mopts...)
}

// Listen 创建 Messages 并接入 server
func Listen(server Server, opts ...Option) (*Messages, error) {
	if server == nil {
		return nil, ErrNilServer
	}
	m, err := New(opts...)
	if err != nil {
		return nil, err
	}
	m.Attach(server)
	log.Debug("attached to server", "actions", len(m.Actions()))
	return m, nil
}
