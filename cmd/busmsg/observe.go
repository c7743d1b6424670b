package main

import (
	"encoding/json"
	"io"

	"github.com/dep2p/go-busmsg"
	"github.com/dep2p/go-busmsg/internal/core/eventbus"
)

// observe 订阅节点事件：记录消息与解析失败，按需回推
func observe(node *busmsg.Node, echo bool) ([]io.Closer, error) {
	m := node.Messages()

	onMessage, err := m.OnMessage(func(e busmsg.EvtMessageReceived) {
		msg := e.Message
		data, _ := json.Marshal(msg)
		log.Info("message", "id", msg.ID(), "action", msg.Action(), "actor", msg.Actor(), "target", msg.Target(), "json", string(data))

		if ack, ok := msg.Ack(); ok {
			ack(msg.ID())
		}
		if !echo {
			return
		}
		conn, ok := node.Conn(msg.Target())
		if !ok {
			log.Debug("echo target not connected", "target", msg.Target())
			return
		}
		if err := conn.Send("message", json.RawMessage(data)); err != nil {
			log.Debug("echo failed", "target", msg.Target(), "err", err)
		}
	}, eventbus.BufSize(256))
	if err != nil {
		return nil, err
	}

	onError, err := m.OnError(func(e busmsg.EvtResolveFailed) {
		log.Warn("resolution failed", "conn", e.Conn.ID(), "stage", e.Stage, "err", e.Err)
	})
	if err != nil {
		_ = onMessage.Close()
		return nil, err
	}

	onAction, err := m.OnAction(func(e busmsg.EvtActionRegistered) {
		log.Info("action registered", "action", e.Name)
	})
	if err != nil {
		_ = onMessage.Close()
		_ = onError.Close()
		return nil, err
	}

	return []io.Closer{onMessage, onError, onAction}, nil
}
