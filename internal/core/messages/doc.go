// Package messages 实现 socket 事件到总线消息的归一化与路由
//
// # 数据流
//
//	连接接入 → 中间件安装拦截器 → 绑定器为每个已知动作挂监听器并订阅注册表
//	入站事件 → 拦截器：已有监听器 → 常规分发 → 监听器 → 流水线
//	                  无监听器 + 自动传播 → 流水线
//	                  无监听器 + 未开启   → 丢弃
//	流水线   → 解析 actor → 解析 target → 构建 Message → 发布 message / error
//
// # 总线事件
//
//   - interfaces.EvtActionRegistered  新动作注册（"action"）
//   - interfaces.EvtMessageReceived   解析成功（"message"）
//   - interfaces.EvtResolveFailed     解析失败（"error"）
//
// # 执行模式
//
// 默认同步：流水线在触发事件的 goroutine 上执行。传输层每个连接一个读循环，
// 因此同一连接上的事件按到达顺序完成。
// WithAsync 开启后每个流水线在独立 goroutine 上执行，并发数受信号量限制，
// 同一连接上的事件可能乱序完成。
//
// 断开连接不会取消进行中的流水线，事件中的 Conn 可能已经断开。
package messages
