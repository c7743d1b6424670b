// Package transport 提供传输层实现共享的连接与服务端骨架
//
// 具体传输（ws, memory）只负责收发数据包：
//   - 入站：读循环把解码后的 types.Packet 交给 Conn.HandlePacket
//   - 出站：Conn 通过 PacketWriter 写出事件包与确认包
//   - 断开：读循环结束时调用 Conn.Disconnect
//
// Conn 维护每个事件名上的监听器表，并提供可替换的入站分发入口（拦截器）。
// Server 维护中间件链与连接接入处理器。
package transport
