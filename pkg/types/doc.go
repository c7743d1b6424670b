// Package types 定义 busmsg 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 busmsg 内部包。
//
// # 文件组织
//
//   - message.go - Message 消息信封（action, actor, target, content）
//   - packet.go  - Packet 传输层入站数据包, Ack 确认回调
//   - errors.go  - 公共错误定义, ResolutionError
//
// # 消息信封
//
// Message 在每个入站事件上新建，仅由构建它的分发流水线持有，
// 发布后消费者应将其视为只读。
package types
