package messages

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/dep2p/go-busmsg/pkg/types"
)

// HandleMessage 把原始事件送入流水线
//
// args[0] 为动作名，其余为原始参数。同步模式下返回时流水线已结束；
// 异步模式下等待并发额度后在新 goroutine 上执行。Close 之后的调用被丢弃。
func (m *Messages) HandleMessage(ctx context.Context, conn pkgif.Conn, args []any) {
	if m.closed.Load() {
		log.Debug("closed, message dropped", "conn", conn.ID())
		return
	}
	if m.sem == nil {
		m.dispatch(ctx, conn, args)
		return
	}

	m.lifeMu.RLock()
	if m.closed.Load() {
		m.lifeMu.RUnlock()
		return
	}
	m.wg.Add(1)
	m.lifeMu.RUnlock()

	if err := m.sem.Acquire(ctx, 1); err != nil {
		m.wg.Done()
		log.Debug("dispatch slot not acquired", "conn", conn.ID(), "err", err)
		return
	}
	go func() {
		defer m.wg.Done()
		defer m.sem.Release(1)
		m.dispatch(ctx, conn, args)
	}()
}

// dispatch 解析 actor → 解析 target → 发布
//
// actor 解析结束（成功或失败）后才开始 target 解析。任一步失败即发布 error 事件并结束，
// 不会发布不完整的消息。每一步只尝试一次。
func (m *Messages) dispatch(ctx context.Context, conn pkgif.Conn, args []any) {
	var action string
	if len(args) > 0 {
		action, _ = args[0].(string)
	}
	if action == "" {
		log.Warn("event dropped", "conn", conn.ID(), "err", types.ErrEmptyAction)
		return
	}
	params := args[1:]

	start := m.clock.Now()
	defer func() { m.metrics.ObserveDispatch(m.clock.Since(start)) }()

	ctx, span := m.tracer.Start(ctx, "busmsg.dispatch",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("busmsg.action", action),
			attribute.String("busmsg.conn", conn.ID()),
		))
	defer span.End()

	msg := types.NewMessageWithClock(m.clock).SetAction(action)

	actor, err := m.actor.Resolve(ctx, conn)
	if err != nil {
		m.fail(span, types.StageActor, action, err, conn, params)
		return
	}
	msg.SetActor(actor)

	target, err := m.target.Resolve(ctx, conn, params)
	if err != nil {
		m.fail(span, types.StageTarget, action, err, conn, params)
		return
	}
	msg.SetTarget(target).SetContent(params)

	span.SetAttributes(
		attribute.String("busmsg.actor", actor),
		attribute.String("busmsg.target", target),
		attribute.String("busmsg.message_id", msg.ID()),
	)

	if err := m.messageEm.Emit(pkgif.EvtMessageReceived{Message: msg, Conn: conn}); err != nil {
		log.Debug("message not published", "action", action, "err", err)
		return
	}
	m.metrics.MessagePublished(action)
	log.Debug("message published", "id", msg.ID(), "action", action, "actor", actor, "target", target)
}

// fail 发布解析失败事件
func (m *Messages) fail(span trace.Span, stage types.ResolveStage, action string, err error, conn pkgif.Conn, params []any) {
	rerr := &types.ResolutionError{Stage: stage, Action: action, Err: err}

	span.RecordError(rerr)
	span.SetStatus(codes.Error, string(stage)+" resolution failed")
	m.metrics.ResolveFailed(string(stage))
	log.Info("resolution failed", "conn", conn.ID(), "action", action, "stage", stage, "err", err)

	if emitErr := m.errorEm.Emit(pkgif.EvtResolveFailed{
		Err:   rerr,
		Stage: stage,
		Conn:  conn,
		Args:  params,
	}); emitErr != nil {
		log.Debug("error event not emitted", "action", action, "err", emitErr)
	}
}
