// Package interfaces 定义 busmsg 的公共接口
//
// # 传输层契约
//
// busmsg 不实现连接接入、帧编解码与确认，这些由传输层负责。
// 传输层需要实现：
//   - transport.go - Conn（单连接事件监听表 + 拦截器挂载点）, Server（中间件与接入通知）
//
// # 消息层
//
//   - messages.go  - 解析器函数类型与总线事件（action / message / error）
//   - eventbus.go  - 进程内事件总线
//
// # 依赖关系
//
// 本包只依赖 pkg/types。
package interfaces
