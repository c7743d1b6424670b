package eventbus

import (
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	pkgif "github.com/dep2p/go-busmsg/pkg/interfaces"
	"github.com/dep2p/go-busmsg/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// 基础功能测试
// ============================================================================

// TestBus_EmitAndReceive 测试事件发射和接收
func TestBus_EmitAndReceive(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe(new(pkgif.EvtActionRegistered))
	require.NoError(t, err)
	defer sub.Close()

	em, err := bus.Emitter(new(pkgif.EvtActionRegistered))
	require.NoError(t, err)
	defer em.Close()

	require.NoError(t, em.Emit(pkgif.EvtActionRegistered{Name: "say"}))

	select {
	case evt := <-sub.Out():
		received, ok := evt.(pkgif.EvtActionRegistered)
		require.True(t, ok, "wrong event type %T", evt)
		assert.Equal(t, "say", received.Name)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

// TestBus_InvalidEventType 测试非法事件类型
func TestBus_InvalidEventType(t *testing.T) {
	bus := NewBus()

	_, err := bus.Subscribe(nil)
	assert.ErrorIs(t, err, ErrInvalidEventType)

	_, err = bus.Subscribe(pkgif.EvtMessageReceived{})
	assert.ErrorIs(t, err, ErrNonPointerType)

	_, err = bus.Emitter(pkgif.EvtMessageReceived{})
	assert.ErrorIs(t, err, ErrNonPointerType)
}

// TestBus_MultipleSubscribers 测试多个订阅者都能收到
func TestBus_MultipleSubscribers(t *testing.T) {
	bus := NewBus()

	subs := make([]pkgif.Subscription, 3)
	for i := range subs {
		sub, err := bus.Subscribe(new(pkgif.EvtMessageReceived))
		require.NoError(t, err)
		defer sub.Close()
		subs[i] = sub
	}

	em, _ := bus.Emitter(new(pkgif.EvtMessageReceived))
	defer em.Close()

	msg := types.NewMessage().SetAction("say")
	require.NoError(t, em.Emit(pkgif.EvtMessageReceived{Message: msg}))

	for i, sub := range subs {
		evt := <-sub.Out()
		assert.Same(t, msg, evt.(pkgif.EvtMessageReceived).Message, "subscriber %d", i)
	}
}

// TestBus_DifferentEventTypes 测试不同事件类型隔离
func TestBus_DifferentEventTypes(t *testing.T) {
	bus := NewBus()

	msgSub, _ := bus.Subscribe(new(pkgif.EvtMessageReceived))
	defer msgSub.Close()
	errSub, _ := bus.Subscribe(new(pkgif.EvtResolveFailed))
	defer errSub.Close()

	em, _ := bus.Emitter(new(pkgif.EvtMessageReceived))
	defer em.Close()
	em.Emit(pkgif.EvtMessageReceived{})

	select {
	case <-msgSub.Out():
	default:
		t.Error("message subscriber did not receive event")
	}

	select {
	case <-errSub.Out():
		t.Error("error subscriber should not receive message event")
	default:
	}
}

// ============================================================================
// 至多一次投递
// ============================================================================

// TestBus_DropWhenFull 缓冲区满时丢弃并上报
func TestBus_DropWhenFull(t *testing.T) {
	bus := NewBus()

	var dropped atomic.Int32
	var droppedType reflect.Type
	var mu sync.Mutex
	bus.SetDropHook(func(typ reflect.Type) {
		dropped.Add(1)
		mu.Lock()
		droppedType = typ
		mu.Unlock()
	})

	sub, _ := bus.Subscribe(new(pkgif.EvtActionRegistered), BufSize(2))
	defer sub.Close()

	em, _ := bus.Emitter(new(pkgif.EvtActionRegistered))
	defer em.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, em.Emit(pkgif.EvtActionRegistered{Name: "a"}))
	}

	assert.Equal(t, int32(3), dropped.Load())
	assert.Len(t, sub.Out(), 2)
	mu.Lock()
	assert.Equal(t, reflect.TypeOf(pkgif.EvtActionRegistered{}), droppedType)
	mu.Unlock()
}

// TestBus_Stateful 有状态发射器向新订阅者补发最后一个事件
func TestBus_Stateful(t *testing.T) {
	bus := NewBus()

	em, _ := bus.Emitter(new(pkgif.EvtActionRegistered), Stateful())
	defer em.Close()
	em.Emit(pkgif.EvtActionRegistered{Name: "first"})
	em.Emit(pkgif.EvtActionRegistered{Name: "last"})

	sub, _ := bus.Subscribe(new(pkgif.EvtActionRegistered))
	defer sub.Close()

	evt := <-sub.Out()
	assert.Equal(t, "last", evt.(pkgif.EvtActionRegistered).Name)
}

// ============================================================================
// 关闭
// ============================================================================

// TestSubscription_Close 关闭后通道关闭，重复关闭无错误
func TestSubscription_Close(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(pkgif.EvtResolveFailed))
	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	_, ok := <-sub.Out()
	assert.False(t, ok, "channel should be closed")

	em, _ := bus.Emitter(new(pkgif.EvtResolveFailed))
	defer em.Close()
	assert.NoError(t, em.Emit(pkgif.EvtResolveFailed{}))
}

// TestEmitter_EmitAfterClose 关闭后发射返回错误
func TestEmitter_EmitAfterClose(t *testing.T) {
	bus := NewBus()

	em, _ := bus.Emitter(new(pkgif.EvtMessageReceived))
	require.NoError(t, em.Close())
	require.NoError(t, em.Close())

	assert.ErrorIs(t, em.Emit(pkgif.EvtMessageReceived{}), ErrEmitterClosed)
}

// TestBus_NodeDroppedWhenIdle 无订阅者和发射器时删除节点
func TestBus_NodeDroppedWhenIdle(t *testing.T) {
	bus := NewBus()

	sub, _ := bus.Subscribe(new(pkgif.EvtMessageReceived))
	em, _ := bus.Emitter(new(pkgif.EvtMessageReceived))

	sub.Close()
	em.Close()

	bus.mu.RLock()
	defer bus.mu.RUnlock()
	assert.Empty(t, bus.nodes)
}

// TestConcurrent_EmitSubscribe 并发订阅、发射、关闭
func TestConcurrent_EmitSubscribe(t *testing.T) {
	bus := NewBus()
	em, _ := bus.Emitter(new(pkgif.EvtActionRegistered))
	defer em.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				em.Emit(pkgif.EvtActionRegistered{Name: "x"})
			}
		}()
		go func() {
			defer wg.Done()
			sub, err := bus.Subscribe(new(pkgif.EvtActionRegistered), BufSize(4))
			if err != nil {
				t.Error(err)
				return
			}
			sub.Close()
		}()
	}
	wg.Wait()
}
