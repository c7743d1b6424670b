// Package metrics 提供 busmsg 的 Prometheus 指标
//
// 指标注册到调用方提供的 prometheus.Registerer，便于测试隔离：
//
//	reg := prometheus.NewRegistry()
//	m := metrics.New(reg)
//	m.MessagePublished("say")
//
// # 指标列表
//
//   - busmsg_messages_published_total{action}  发布到总线的消息
//   - busmsg_resolve_failures_total{stage}     actor/target 解析失败
//   - busmsg_events_dropped_total              未识别且未开启自动传播而丢弃的事件
//   - busmsg_events_propagated_total           经自动传播进入流水线的事件
//   - busmsg_bus_dropped_total{event}          因订阅者缓冲区满丢弃的总线事件
//   - busmsg_connections                       当前已绑定的连接数
//   - busmsg_actions                           已注册动作数
//   - busmsg_dispatch_seconds                  流水线耗时
package metrics
