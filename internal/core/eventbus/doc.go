// Package eventbus 实现进程内事件总线
//
// busmsg 通过它发布三类事件，应用层按 Go 类型订阅：
//   - interfaces.EvtActionRegistered  新动作注册
//   - interfaces.EvtMessageReceived   消息解析完成
//   - interfaces.EvtResolveFailed     解析失败
//
// # 快速开始
//
//	bus := eventbus.NewBus()
//
//	sub, _ := bus.Subscribe(new(interfaces.EvtMessageReceived), eventbus.BufSize(64))
//	defer sub.Close()
//
//	go func() {
//	    for evt := range sub.Out() {
//	        e := evt.(interfaces.EvtMessageReceived)
//	        // 处理消息
//	    }
//	}()
//
// # 投递语义
//
// Emit 不阻塞：订阅者缓冲区满时事件被丢弃并计数，即至多一次投递。
// 丢弃通过 DropHook 上报（指标模块用它统计慢消费者）。
//
// # 并发安全
//
//   - 订阅/取消订阅：RWMutex 保护
//   - 发射器引用计数：atomic.Int32
//   - 通道关闭：closeOnce 防止重复
package eventbus
